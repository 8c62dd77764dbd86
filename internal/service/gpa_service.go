package service

import (
	"errors"
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"studydesk/internal/gpa"
	"studydesk/internal/models"
	"studydesk/internal/repository"
	"studydesk/internal/validation"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrLastCourse     = errors.New("cannot delete the last course")
)

// GPAService handles GPA tracking business logic
type GPAService struct {
	store *repository.GPAStore
}

// NewGPAService creates a new GPA service
func NewGPAService(store *repository.GPAStore) *GPAService {
	return &GPAService{store: store}
}

// GPAOverview is the full GPA picture returned to the API: stored state
// plus the derived figures. Target is omitted when no analysis is
// available (unparseable target input).
type GPAOverview struct {
	Scale                string            `json:"scale"`
	Courses              []models.Course   `json:"courses"`
	TotalCreditsRequired float64           `json:"totalCreditsRequired"`
	TargetGPA            string            `json:"targetGPA"`
	CurrentGPA           float64           `json:"currentGPA"`
	CompletedCredits     float64           `json:"completedCredits"`
	Target               *gpa.TargetResult `json:"target,omitempty"`
}

// Overview returns the user's courses, settings and derived GPA figures
func (s *GPAService) Overview(userID int64) (*GPAOverview, error) {
	data, err := s.store.Load(userID)
	if err != nil {
		return nil, err
	}
	return buildOverview(data), nil
}

// AddCourse appends a blank course row
func (s *GPAService) AddCourse(userID int64) (*models.Course, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate course id: %w", err)
	}
	course := models.Course{ID: id}

	_, err = s.store.Update(userID, func(data *models.GPAData) error {
		data.Courses = append(data.Courses, course)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &course, nil
}

// UpdateCourse replaces a course's name, grade and credit weight. The grade
// must be empty or a letter the user's scale knows; credits cannot be
// negative.
func (s *GPAService) UpdateCourse(userID int64, courseID, name, grade string, credits float64) (*models.Course, error) {
	if credits < 0 {
		return nil, validation.ValidationError{Field: "credits", Message: "Credits cannot be negative"}
	}
	grade = strings.ToUpper(strings.TrimSpace(grade))

	var updated models.Course
	_, err := s.store.Update(userID, func(data *models.GPAData) error {
		if grade != "" {
			if _, ok := gpa.Scale(data.Scale).Points(grade); !ok {
				return validation.ValidationError{Field: "grade", Message: fmt.Sprintf("Unknown grade %q for the %s scale", grade, data.Scale)}
			}
		}

		i := courseIndex(data.Courses, courseID)
		if i < 0 {
			return ErrCourseNotFound
		}
		data.Courses[i].Name = strings.TrimSpace(name)
		data.Courses[i].Grade = grade
		data.Courses[i].Credits = credits
		updated = data.Courses[i]
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteCourse removes a course row. The last remaining row cannot be
// deleted; clear it instead.
func (s *GPAService) DeleteCourse(userID int64, courseID string) error {
	_, err := s.store.Update(userID, func(data *models.GPAData) error {
		if len(data.Courses) <= 1 {
			return ErrLastCourse
		}
		i := courseIndex(data.Courses, courseID)
		if i < 0 {
			return ErrCourseNotFound
		}
		data.Courses = append(data.Courses[:i], data.Courses[i+1:]...)
		return nil
	})
	return err
}

// UpdateSettings changes the grade scale, target GPA and required credit
// total. The target is stored exactly as typed; a value that does not
// parse simply yields no analysis.
func (s *GPAService) UpdateSettings(userID int64, scale, targetGPA string, totalCreditsRequired float64) (*GPAOverview, error) {
	if !gpa.Scale(scale).IsValid() {
		return nil, validation.ValidationError{Field: "scale", Message: "Scale must be 4.0 or 4.3"}
	}
	if totalCreditsRequired < 0 {
		return nil, validation.ValidationError{Field: "totalCreditsRequired", Message: "Total credits cannot be negative"}
	}

	updated, err := s.store.Update(userID, func(data *models.GPAData) error {
		data.Scale = scale
		data.TargetGPA = strings.TrimSpace(targetGPA)
		data.TotalCreditsRequired = totalCreditsRequired
		return nil
	})
	if err != nil {
		return nil, err
	}

	return buildOverview(updated), nil
}

func buildOverview(data models.GPAData) *GPAOverview {
	scale := gpa.Scale(data.Scale)
	return &GPAOverview{
		Scale:                data.Scale,
		Courses:              data.Courses,
		TotalCreditsRequired: data.TotalCreditsRequired,
		TargetGPA:            data.TargetGPA,
		CurrentGPA:           gpa.ComputeCurrentGPA(data.Courses, scale),
		CompletedCredits:     gpa.CompletedCredits(data.Courses, scale),
		Target:               gpa.AnalyzeTarget(data.Courses, scale, data.TargetGPA, data.TotalCreditsRequired),
	}
}

func courseIndex(courses []models.Course, courseID string) int {
	for i := range courses {
		if courses[i].ID == courseID {
			return i
		}
	}
	return -1
}
