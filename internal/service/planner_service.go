package service

import (
	"errors"
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"studydesk/internal/models"
	"studydesk/internal/repository"
	"studydesk/internal/validation"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// PlannerService handles calendar task and category business logic
type PlannerService struct {
	store *repository.PlannerStore
}

// NewPlannerService creates a new planner service
func NewPlannerService(store *repository.PlannerStore) *PlannerService {
	return &PlannerService{store: store}
}

// Overview returns the user's full planner data
func (s *PlannerService) Overview(userID int64) (models.PlannerData, error) {
	return s.store.Load(userID)
}

// ListTasks returns tasks filtered by an optional date range and category.
// Dates are YYYY-MM-DD, so string comparison orders them correctly.
func (s *PlannerService) ListTasks(userID int64, from, to, categoryID string) ([]models.Task, error) {
	data, err := s.store.Load(userID)
	if err != nil {
		return nil, err
	}

	tasks := []models.Task{}
	for _, task := range data.Tasks {
		if from != "" && task.Date < from {
			continue
		}
		if to != "" && task.Date > to {
			continue
		}
		if categoryID != "" && task.CategoryID != categoryID {
			continue
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

// AddTask creates a new task. The category reference is optional but must
// exist when given.
func (s *PlannerService) AddTask(userID int64, title, date, categoryID string) (*models.Task, error) {
	if err := validation.ValidateRequired("title", title); err != nil {
		return nil, err
	}
	if err := validation.ValidateDate("date", date); err != nil {
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task id: %w", err)
	}
	task := models.Task{ID: id, Title: strings.TrimSpace(title), Date: date, CategoryID: categoryID}

	_, err = s.store.Update(userID, func(data *models.PlannerData) error {
		if categoryID != "" && data.CategoryByID(categoryID) == nil {
			return ErrCategoryNotFound
		}
		data.Tasks = append(data.Tasks, task)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// UpdateTask replaces a task's fields
func (s *PlannerService) UpdateTask(userID int64, taskID, title, date, categoryID string, completed bool) (*models.Task, error) {
	if err := validation.ValidateRequired("title", title); err != nil {
		return nil, err
	}
	if err := validation.ValidateDate("date", date); err != nil {
		return nil, err
	}

	var updated models.Task
	_, err := s.store.Update(userID, func(data *models.PlannerData) error {
		if categoryID != "" && data.CategoryByID(categoryID) == nil {
			return ErrCategoryNotFound
		}
		i := taskIndex(data.Tasks, taskID)
		if i < 0 {
			return ErrTaskNotFound
		}
		data.Tasks[i].Title = strings.TrimSpace(title)
		data.Tasks[i].Date = date
		data.Tasks[i].CategoryID = categoryID
		data.Tasks[i].Completed = completed
		updated = data.Tasks[i]
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// ToggleTask flips a task's completed flag
func (s *PlannerService) ToggleTask(userID int64, taskID string) (*models.Task, error) {
	var toggled models.Task
	_, err := s.store.Update(userID, func(data *models.PlannerData) error {
		i := taskIndex(data.Tasks, taskID)
		if i < 0 {
			return ErrTaskNotFound
		}
		data.Tasks[i].Completed = !data.Tasks[i].Completed
		toggled = data.Tasks[i]
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &toggled, nil
}

// DeleteTask removes a task
func (s *PlannerService) DeleteTask(userID int64, taskID string) error {
	_, err := s.store.Update(userID, func(data *models.PlannerData) error {
		i := taskIndex(data.Tasks, taskID)
		if i < 0 {
			return ErrTaskNotFound
		}
		data.Tasks = append(data.Tasks[:i], data.Tasks[i+1:]...)
		return nil
	})
	return err
}

// AddCategory creates a new task category
func (s *PlannerService) AddCategory(userID int64, name, color string) (*models.Category, error) {
	if err := validation.ValidateRequired("name", name); err != nil {
		return nil, err
	}
	if err := validation.ValidateHexColor("color", color); err != nil {
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate category id: %w", err)
	}
	category := models.Category{ID: id, Name: strings.TrimSpace(name), Color: color}

	_, err = s.store.Update(userID, func(data *models.PlannerData) error {
		data.Categories = append(data.Categories, category)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &category, nil
}

// UpdateCategory replaces a category's name and color
func (s *PlannerService) UpdateCategory(userID int64, categoryID, name, color string) (*models.Category, error) {
	if err := validation.ValidateRequired("name", name); err != nil {
		return nil, err
	}
	if err := validation.ValidateHexColor("color", color); err != nil {
		return nil, err
	}

	var updated models.Category
	_, err := s.store.Update(userID, func(data *models.PlannerData) error {
		i := categoryIndex(data.Categories, categoryID)
		if i < 0 {
			return ErrCategoryNotFound
		}
		data.Categories[i].Name = strings.TrimSpace(name)
		data.Categories[i].Color = color
		updated = data.Categories[i]
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteCategory removes a category and clears the reference on its tasks
// in the same save, so no task is left pointing at a dead category.
func (s *PlannerService) DeleteCategory(userID int64, categoryID string) error {
	_, err := s.store.Update(userID, func(data *models.PlannerData) error {
		i := categoryIndex(data.Categories, categoryID)
		if i < 0 {
			return ErrCategoryNotFound
		}
		data.Categories = append(data.Categories[:i], data.Categories[i+1:]...)
		for j := range data.Tasks {
			if data.Tasks[j].CategoryID == categoryID {
				data.Tasks[j].CategoryID = ""
			}
		}
		return nil
	})
	return err
}

func taskIndex(tasks []models.Task, taskID string) int {
	for i := range tasks {
		if tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}

func categoryIndex(categories []models.Category, categoryID string) int {
	for i := range categories {
		if categories[i].ID == categoryID {
			return i
		}
	}
	return -1
}
