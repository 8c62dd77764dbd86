package repository

import (
	"encoding/json"
	"log"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"studydesk/internal/models"
)

// PlannerStore reads and writes a user's planner document
type PlannerStore struct {
	docs  *DocumentRepository
	locks *userLocks
}

// NewPlannerStore creates a new planner store
func NewPlannerStore(docs *DocumentRepository) *PlannerStore {
	return &PlannerStore{docs: docs, locks: newUserLocks()}
}

// Load returns the user's planner data. A missing or unreadable document
// falls back to the default categories.
func (s *PlannerStore) Load(userID int64) (models.PlannerData, error) {
	raw, err := s.docs.Get(userID, models.DocumentPlanner)
	if err != nil {
		return models.PlannerData{}, err
	}
	if raw == nil {
		return DefaultPlannerData()
	}

	var data models.PlannerData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Printf("Warning: unreadable %s document for user %d, using defaults: %v", models.DocumentPlanner, userID, err)
		return DefaultPlannerData()
	}
	if data.Tasks == nil {
		data.Tasks = []models.Task{}
	}
	if data.Categories == nil {
		data.Categories = []models.Category{}
	}

	return data, nil
}

// Save persists the user's planner data
func (s *PlannerStore) Save(userID int64, data models.PlannerData) error {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)
	return s.save(userID, data)
}

// Update applies fn to the user's planner data under the per-user write
// lock and persists the result
func (s *PlannerStore) Update(userID int64, fn func(*models.PlannerData) error) (models.PlannerData, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	data, err := s.Load(userID)
	if err != nil {
		return models.PlannerData{}, err
	}

	if err := fn(&data); err != nil {
		return models.PlannerData{}, err
	}

	if err := s.save(userID, data); err != nil {
		return models.PlannerData{}, err
	}

	return data, nil
}

func (s *PlannerStore) save(userID int64, data models.PlannerData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.docs.Save(userID, models.DocumentPlanner, raw)
}

// DefaultPlannerData starts a new account with three task categories and
// an empty schedule
func DefaultPlannerData() (models.PlannerData, error) {
	starter := []struct{ name, color string }{
		{"General", "#6366f1"},
		{"School", "#f59e0b"},
		{"Personal", "#10b981"},
	}

	data := models.PlannerData{
		Tasks:      []models.Task{},
		Categories: []models.Category{},
	}
	for _, c := range starter {
		id, err := gonanoid.New()
		if err != nil {
			return models.PlannerData{}, err
		}
		data.Categories = append(data.Categories, models.Category{ID: id, Name: c.name, Color: c.color})
	}

	return data, nil
}
