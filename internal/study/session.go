// Package study holds the in-memory state machine for a flashcard study
// session: a working copy of a deck's cards, a cursor, a flip state, and the
// operations that move through them. Persistence is the caller's concern.
package study

import (
	"math/rand"
	"time"

	"studydesk/internal/models"
)

// Direction selects which way Advance moves the cursor
type Direction int

const (
	Next Direction = iota
	Prev
)

// Session is one open study run over a deck. The working list starts as a
// copy of the deck's cards in deck order; Shuffle permutes it, Reset restores
// the order captured at open. Mastery edits apply to the working list and are
// written back to the deck by the owning service.
type Session struct {
	DeckID string

	original []models.Flashcard
	working  []models.Flashcard
	index    int
	flipped  bool
	rng      *rand.Rand
}

// NewSession opens a session over the given cards. The card slice is copied,
// so later deck edits do not leak in. A nil rng gets a time-seeded source;
// tests pass a fixed seed for deterministic shuffles.
func NewSession(deckID string, cards []models.Flashcard, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	original := make([]models.Flashcard, len(cards))
	copy(original, cards)
	working := make([]models.Flashcard, len(cards))
	copy(working, cards)

	return &Session{
		DeckID:   deckID,
		original: original,
		working:  working,
		rng:      rng,
	}
}

// Len returns the number of cards in the session
func (s *Session) Len() int {
	return len(s.working)
}

// Index returns the cursor position
func (s *Session) Index() int {
	return s.index
}

// IsFlipped reports whether the current card shows its answer side
func (s *Session) IsFlipped() bool {
	return s.flipped
}

// Current returns the card under the cursor
func (s *Session) Current() models.Flashcard {
	if len(s.working) == 0 {
		return models.Flashcard{}
	}
	return s.working[s.index]
}

// Cards returns a copy of the working list in its current order
func (s *Session) Cards() []models.Flashcard {
	cards := make([]models.Flashcard, len(s.working))
	copy(cards, s.working)
	return cards
}

// MasteredCount returns how many working cards are marked mastered
func (s *Session) MasteredCount() int {
	count := 0
	for _, card := range s.working {
		if card.Mastered {
			count++
		}
	}
	return count
}

// Flip toggles between the question and answer side of the current card
func (s *Session) Flip() {
	s.flipped = !s.flipped
}

// Advance moves the cursor one card forward or back. At either boundary it is
// a no-op: the card does not change, so the flip state is left alone too.
func (s *Session) Advance(dir Direction) {
	switch dir {
	case Next:
		if s.index < len(s.working)-1 {
			s.index++
			s.flipped = false
		}
	case Prev:
		if s.index > 0 {
			s.index--
			s.flipped = false
		}
	}
}

// Shuffle randomly permutes the full working list and moves the cursor back
// to the first card, question side up.
func (s *Session) Shuffle() {
	s.rng.Shuffle(len(s.working), func(i, j int) {
		s.working[i], s.working[j] = s.working[j], s.working[i]
	})
	s.index = 0
	s.flipped = false
}

// MarkMastered sets the mastery flag on the current card
func (s *Session) MarkMastered(mastered bool) {
	if len(s.working) == 0 {
		return
	}
	s.working[s.index].Mastered = mastered
}

// Reset discards any shuffle: the working list reverts to the order captured
// at session open while keeping the current mastery flags, and the cursor
// returns to the first card. Mastery does not roll back; those edits have
// already been written through to the deck.
func (s *Session) Reset() {
	mastered := make(map[string]bool, len(s.working))
	for _, card := range s.working {
		mastered[card.ID] = card.Mastered
	}

	s.working = make([]models.Flashcard, len(s.original))
	copy(s.working, s.original)
	for i := range s.working {
		if m, ok := mastered[s.working[i].ID]; ok {
			s.working[i].Mastered = m
		}
	}

	s.index = 0
	s.flipped = false
}
