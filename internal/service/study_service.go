package service

import (
	"errors"
	"log"
	"math/rand"
	"sync"

	"studydesk/internal/models"
	"studydesk/internal/repository"
	"studydesk/internal/study"
)

var (
	ErrNoActiveSession = errors.New("no active study session")
	ErrEmptyDeck       = errors.New("deck has no cards to study")
)

// StudyService manages at most one active study session per user. Session
// state lives in memory; mastery changes are written through to the owning
// deck on every toggle and again on close, so progress survives an abrupt
// disconnect.
type StudyService struct {
	decks *repository.DeckStore

	mu       sync.Mutex
	sessions map[int64]*activeSession

	// rng, when set, seeds every session; tests use a fixed source for
	// deterministic shuffles. Nil means each session seeds itself.
	rng *rand.Rand
}

type activeSession struct {
	session  *study.Session
	deckName string
}

// NewStudyService creates a new study service
func NewStudyService(decks *repository.DeckStore) *StudyService {
	return &StudyService{
		decks:    decks,
		sessions: make(map[int64]*activeSession),
	}
}

// StudyState is a snapshot of the active session returned to the API
type StudyState struct {
	DeckID        string             `json:"deckId"`
	DeckName      string             `json:"deckName"`
	Cards         []models.Flashcard `json:"cards"`
	Index         int                `json:"index"`
	Flipped       bool               `json:"flipped"`
	MasteredCount int                `json:"masteredCount"`
}

// Start opens a study session over a deck, replacing any session the user
// already had after committing its progress.
func (s *StudyService) Start(userID int64, deckID string) (*StudyState, error) {
	decks, err := s.decks.Load(userID)
	if err != nil {
		return nil, err
	}
	i := deckIndex(decks, deckID)
	if i < 0 {
		return nil, ErrDeckNotFound
	}
	if len(decks[i].Cards) == 0 {
		return nil, ErrEmptyDeck
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prior, ok := s.sessions[userID]; ok {
		s.commit(userID, prior)
	}

	active := &activeSession{
		session:  study.NewSession(deckID, decks[i].Cards, s.rng),
		deckName: decks[i].Name,
	}
	s.sessions[userID] = active

	return s.snapshot(active), nil
}

// State returns the current session snapshot
func (s *StudyService) State(userID int64) (*StudyState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return s.snapshot(active), nil
}

// Flip toggles the current card between front and back
func (s *StudyService) Flip(userID int64) (*StudyState, error) {
	return s.withSession(userID, func(active *activeSession) {
		active.session.Flip()
	})
}

// Advance moves the cursor one card forward or back
func (s *StudyService) Advance(userID int64, dir study.Direction) (*StudyState, error) {
	return s.withSession(userID, func(active *activeSession) {
		active.session.Advance(dir)
	})
}

// Shuffle permutes the working order and rewinds to the first card
func (s *StudyService) Shuffle(userID int64) (*StudyState, error) {
	return s.withSession(userID, func(active *activeSession) {
		active.session.Shuffle()
	})
}

// Reset restores the order captured at session open, keeping current
// mastery values
func (s *StudyService) Reset(userID int64) (*StudyState, error) {
	return s.withSession(userID, func(active *activeSession) {
		active.session.Reset()
	})
}

// MarkMastered sets the mastered flag on the current card and writes the
// session's progress through to the owning deck immediately
func (s *StudyService) MarkMastered(userID int64, mastered bool) (*StudyState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}

	active.session.MarkMastered(mastered)
	s.commit(userID, active)

	return s.snapshot(active), nil
}

// Close commits the session's progress a final time and discards it
func (s *StudyService) Close(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, ok := s.sessions[userID]
	if !ok {
		return ErrNoActiveSession
	}

	s.commit(userID, active)
	delete(s.sessions, userID)
	return nil
}

func (s *StudyService) withSession(userID int64, fn func(*activeSession)) (*StudyState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}

	fn(active)
	return s.snapshot(active), nil
}

func (s *StudyService) snapshot(active *activeSession) *StudyState {
	return &StudyState{
		DeckID:        active.session.DeckID,
		DeckName:      active.deckName,
		Cards:         active.session.Cards(),
		Index:         active.session.Index(),
		Flipped:       active.session.IsFlipped(),
		MasteredCount: active.session.MasteredCount(),
	}
}

// commit merges the session's mastery flags into the stored deck by card
// ID. The deck keeps its own card order; shuffle never leaks out of the
// session. Failures are logged only: the in-memory session stays
// authoritative and is flushed again on the next toggle or on close.
func (s *StudyService) commit(userID int64, active *activeSession) {
	cards := active.session.Cards()
	mastery := make(map[string]bool, len(cards))
	for _, card := range cards {
		mastery[card.ID] = card.Mastered
	}

	_, err := s.decks.Update(userID, func(decks []models.Deck) ([]models.Deck, error) {
		i := deckIndex(decks, active.session.DeckID)
		if i < 0 {
			// Deck deleted mid-session; nothing to write back to
			return decks, nil
		}
		for j := range decks[i].Cards {
			if m, ok := mastery[decks[i].Cards[j].ID]; ok {
				decks[i].Cards[j].Mastered = m
			}
		}
		return decks, nil
	})
	if err != nil {
		log.Printf("Warning: failed to write study progress for user %d: %v", userID, err)
	}
}
