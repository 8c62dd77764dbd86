package repository

import (
	"encoding/json"
	"log"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"studydesk/internal/models"
)

// GPAStore reads and writes a user's GPA document
type GPAStore struct {
	docs  *DocumentRepository
	locks *userLocks
}

// NewGPAStore creates a new GPA store
func NewGPAStore(docs *DocumentRepository) *GPAStore {
	return &GPAStore{docs: docs, locks: newUserLocks()}
}

// Load returns the user's GPA data. A missing or unreadable document falls
// back to the default dataset.
func (s *GPAStore) Load(userID int64) (models.GPAData, error) {
	raw, err := s.docs.Get(userID, models.DocumentGPA)
	if err != nil {
		return models.GPAData{}, err
	}
	if raw == nil {
		return DefaultGPAData()
	}

	var data models.GPAData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Printf("Warning: unreadable %s document for user %d, using defaults: %v", models.DocumentGPA, userID, err)
		return DefaultGPAData()
	}
	if data.Courses == nil {
		data.Courses = []models.Course{}
	}

	return data, nil
}

// Save persists the user's GPA data
func (s *GPAStore) Save(userID int64, data models.GPAData) error {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)
	return s.save(userID, data)
}

// Update applies fn to the user's GPA data under the per-user write lock
// and persists the result
func (s *GPAStore) Update(userID int64, fn func(*models.GPAData) error) (models.GPAData, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	data, err := s.Load(userID)
	if err != nil {
		return models.GPAData{}, err
	}

	if err := fn(&data); err != nil {
		return models.GPAData{}, err
	}

	if err := s.save(userID, data); err != nil {
		return models.GPAData{}, err
	}

	return data, nil
}

func (s *GPAStore) save(userID int64, data models.GPAData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.docs.Save(userID, models.DocumentGPA, raw)
}

// DefaultGPAData starts a new account on the 4.0 scale with one blank
// course row and a 120 credit degree plan
func DefaultGPAData() (models.GPAData, error) {
	courseID, err := gonanoid.New()
	if err != nil {
		return models.GPAData{}, err
	}

	return models.GPAData{
		Scale:                "4.0",
		Courses:              []models.Course{{ID: courseID}},
		TotalCreditsRequired: 120,
	}, nil
}
