package repository

import (
	"encoding/json"
	"log"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"studydesk/internal/models"
)

// DeckStore reads and writes a user's flashcard decks document
type DeckStore struct {
	docs  *DocumentRepository
	locks *userLocks
}

// NewDeckStore creates a new deck store
func NewDeckStore(docs *DocumentRepository) *DeckStore {
	return &DeckStore{docs: docs, locks: newUserLocks()}
}

// Load returns the user's decks. A missing or unreadable document falls
// back to the starter deck.
func (s *DeckStore) Load(userID int64) ([]models.Deck, error) {
	raw, err := s.docs.Get(userID, models.DocumentDecks)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return DefaultDecks()
	}

	var decks []models.Deck
	if err := json.Unmarshal(raw, &decks); err != nil {
		log.Printf("Warning: unreadable %s document for user %d, using defaults: %v", models.DocumentDecks, userID, err)
		return DefaultDecks()
	}

	return decks, nil
}

// Save persists the user's decks
func (s *DeckStore) Save(userID int64, decks []models.Deck) error {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)
	return s.save(userID, decks)
}

// Update applies fn to the user's decks under the per-user write lock and
// persists the result
func (s *DeckStore) Update(userID int64, fn func([]models.Deck) ([]models.Deck, error)) ([]models.Deck, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	decks, err := s.Load(userID)
	if err != nil {
		return nil, err
	}

	decks, err = fn(decks)
	if err != nil {
		return nil, err
	}

	if err := s.save(userID, decks); err != nil {
		return nil, err
	}

	return decks, nil
}

func (s *DeckStore) save(userID int64, decks []models.Deck) error {
	raw, err := json.Marshal(decks)
	if err != nil {
		return err
	}
	return s.docs.Save(userID, models.DocumentDecks, raw)
}

// DefaultDecks is the starter content a new account begins with
func DefaultDecks() ([]models.Deck, error) {
	deckID, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	deck := models.Deck{
		ID:    deckID,
		Name:  "Study Basics",
		Cards: []models.Flashcard{},
	}

	starter := []struct{ front, back string }{
		{"What is spaced repetition?", "Reviewing material at growing intervals to improve retention."},
		{"What is active recall?", "Testing yourself on material instead of rereading it."},
		{"How long is one Pomodoro?", "25 minutes of focused work followed by a short break."},
	}
	for _, c := range starter {
		cardID, err := gonanoid.New()
		if err != nil {
			return nil, err
		}
		deck.Cards = append(deck.Cards, models.Flashcard{ID: cardID, Front: c.front, Back: c.back})
	}

	return []models.Deck{deck}, nil
}
