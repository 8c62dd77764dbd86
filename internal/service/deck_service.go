package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"studydesk/internal/models"
	"studydesk/internal/repository"
	"studydesk/internal/security"
	"studydesk/internal/validation"
)

var (
	ErrDeckNotFound = errors.New("deck not found")
	ErrCardNotFound = errors.New("card not found")
)

// ShareTokenTTL is how long a deck share link stays valid
const ShareTokenTTL = 7 * 24 * time.Hour

// DeckService handles flashcard deck business logic
type DeckService struct {
	store  *repository.DeckStore
	shares *security.ShareTokenSigner
}

// NewDeckService creates a new deck service
func NewDeckService(store *repository.DeckStore, shares *security.ShareTokenSigner) *DeckService {
	return &DeckService{store: store, shares: shares}
}

// ImportResult reports the outcome of a bulk card import
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// DeckExport is the JSON export document for one deck
type DeckExport struct {
	DeckName   string             `json:"deckName"`
	ExportedAt time.Time          `json:"exportedAt"`
	Cards      []models.Flashcard `json:"cards"`
}

// ListDecks returns all decks owned by the user
func (s *DeckService) ListDecks(userID int64) ([]models.Deck, error) {
	return s.store.Load(userID)
}

// GetDeck returns one deck by ID
func (s *DeckService) GetDeck(userID int64, deckID string) (*models.Deck, error) {
	decks, err := s.store.Load(userID)
	if err != nil {
		return nil, err
	}
	i := deckIndex(decks, deckID)
	if i < 0 {
		return nil, ErrDeckNotFound
	}
	return &decks[i], nil
}

// CreateDeck adds a new empty deck
func (s *DeckService) CreateDeck(userID int64, name string) (*models.Deck, error) {
	if err := validation.ValidateRequired("name", name); err != nil {
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate deck id: %w", err)
	}
	deck := models.Deck{ID: id, Name: strings.TrimSpace(name), Cards: []models.Flashcard{}}

	_, err = s.store.Update(userID, func(decks []models.Deck) ([]models.Deck, error) {
		return append(decks, deck), nil
	})
	if err != nil {
		return nil, err
	}

	return &deck, nil
}

// RenameDeck changes a deck's name
func (s *DeckService) RenameDeck(userID int64, deckID, name string) (*models.Deck, error) {
	if err := validation.ValidateRequired("name", name); err != nil {
		return nil, err
	}

	var renamed models.Deck
	_, err := s.store.Update(userID, func(decks []models.Deck) ([]models.Deck, error) {
		i := deckIndex(decks, deckID)
		if i < 0 {
			return nil, ErrDeckNotFound
		}
		decks[i].Name = strings.TrimSpace(name)
		renamed = decks[i]
		return decks, nil
	})
	if err != nil {
		return nil, err
	}

	return &renamed, nil
}

// DeleteDeck removes a deck and all its cards permanently. The explicit
// confirmation step lives at the HTTP edge; there is no undo here.
func (s *DeckService) DeleteDeck(userID int64, deckID string) error {
	_, err := s.store.Update(userID, func(decks []models.Deck) ([]models.Deck, error) {
		i := deckIndex(decks, deckID)
		if i < 0 {
			return nil, ErrDeckNotFound
		}
		return append(decks[:i], decks[i+1:]...), nil
	})
	return err
}

// AddCard appends a new card to a deck
func (s *DeckService) AddCard(userID int64, deckID, front, back string) (*models.Flashcard, error) {
	if err := validation.ValidateRequired("front", front); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired("back", back); err != nil {
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate card id: %w", err)
	}
	card := models.Flashcard{ID: id, Front: strings.TrimSpace(front), Back: strings.TrimSpace(back)}

	_, err = s.store.Update(userID, func(decks []models.Deck) ([]models.Deck, error) {
		i := deckIndex(decks, deckID)
		if i < 0 {
			return nil, ErrDeckNotFound
		}
		decks[i].Cards = append(decks[i].Cards, card)
		return decks, nil
	})
	if err != nil {
		return nil, err
	}

	return &card, nil
}

// UpdateCard replaces a card's text and mastered flag
func (s *DeckService) UpdateCard(userID int64, deckID, cardID, front, back string, mastered bool) (*models.Flashcard, error) {
	if err := validation.ValidateRequired("front", front); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired("back", back); err != nil {
		return nil, err
	}

	var updated models.Flashcard
	_, err := s.store.Update(userID, func(decks []models.Deck) ([]models.Deck, error) {
		i := deckIndex(decks, deckID)
		if i < 0 {
			return nil, ErrDeckNotFound
		}
		j := decks[i].CardIndex(cardID)
		if j < 0 {
			return nil, ErrCardNotFound
		}
		decks[i].Cards[j].Front = strings.TrimSpace(front)
		decks[i].Cards[j].Back = strings.TrimSpace(back)
		decks[i].Cards[j].Mastered = mastered
		updated = decks[i].Cards[j]
		return decks, nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteCard removes a card from a deck
func (s *DeckService) DeleteCard(userID int64, deckID, cardID string) error {
	_, err := s.store.Update(userID, func(decks []models.Deck) ([]models.Deck, error) {
		i := deckIndex(decks, deckID)
		if i < 0 {
			return nil, ErrDeckNotFound
		}
		j := decks[i].CardIndex(cardID)
		if j < 0 {
			return nil, ErrCardNotFound
		}
		decks[i].Cards = append(decks[i].Cards[:j], decks[i].Cards[j+1:]...)
		return decks, nil
	})
	return err
}

// ImportCards bulk-appends cards parsed from a text payload. Surviving
// records append in input order.
func (s *DeckService) ImportCards(userID int64, deckID, payload string) (*ImportResult, error) {
	records, skipped := parseImportLines(payload)

	cards := make([]models.Flashcard, 0, len(records))
	for _, rec := range records {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate card id: %w", err)
		}
		cards = append(cards, models.Flashcard{ID: id, Front: rec.front, Back: rec.back})
	}

	_, err := s.store.Update(userID, func(decks []models.Deck) ([]models.Deck, error) {
		i := deckIndex(decks, deckID)
		if i < 0 {
			return nil, ErrDeckNotFound
		}
		decks[i].Cards = append(decks[i].Cards, cards...)
		return decks, nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{Imported: len(cards), Skipped: skipped}, nil
}

// ExportDeck builds the JSON export document for a deck
func (s *DeckService) ExportDeck(userID int64, deckID string) (*DeckExport, error) {
	deck, err := s.GetDeck(userID, deckID)
	if err != nil {
		return nil, err
	}
	return &DeckExport{
		DeckName:   deck.Name,
		ExportedAt: time.Now(),
		Cards:      deck.Cards,
	}, nil
}

// ExportDeckText renders a printable study sheet for a deck
func (s *DeckService) ExportDeckText(userID int64, deckID string) (string, error) {
	deck, err := s.GetDeck(userID, deckID)
	if err != nil {
		return "", err
	}
	return buildStudySheet(deck), nil
}

// ShareDeck issues a signed, expiring read-only token for a deck
func (s *DeckService) ShareDeck(userID int64, deckID string) (string, error) {
	if _, err := s.GetDeck(userID, deckID); err != nil {
		return "", err
	}
	token, err := s.shares.Sign(userID, deckID, ShareTokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign share token: %w", err)
	}
	return token, nil
}

// SharedDeck resolves a share token to a read-only copy of the deck.
// Invalid or expired tokens report the deck as not found.
func (s *DeckService) SharedDeck(token string) (*models.Deck, error) {
	claims, err := s.shares.Verify(token)
	if err != nil {
		return nil, ErrDeckNotFound
	}

	decks, err := s.store.Load(claims.UserID)
	if err != nil {
		return nil, err
	}
	i := deckIndex(decks, claims.DeckID)
	if i < 0 {
		return nil, ErrDeckNotFound
	}

	deck := decks[i]
	deck.Cards = append([]models.Flashcard(nil), deck.Cards...)
	return &deck, nil
}

func deckIndex(decks []models.Deck, deckID string) int {
	for i := range decks {
		if decks[i].ID == deckID {
			return i
		}
	}
	return -1
}

type importRecord struct {
	front string
	back  string
}

// parseImportLines splits a bulk import payload into card records. Each
// line splits on the first comma; records missing either side are dropped
// and counted, blank lines are ignored outright.
func parseImportLines(payload string) ([]importRecord, int) {
	var records []importRecord
	skipped := 0

	for _, line := range strings.Split(payload, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.SplitN(line, ",", 2)
		if len(parts) < 2 {
			skipped++
			continue
		}
		front := strings.TrimSpace(parts[0])
		back := strings.TrimSpace(parts[1])
		if front == "" || back == "" {
			skipped++
			continue
		}

		records = append(records, importRecord{front: front, back: back})
	}

	return records, skipped
}

// buildStudySheet renders a deck as a printable text sheet: every card
// exactly once, in deck order, question then answer.
func buildStudySheet(deck *models.Deck) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Study Sheet: %s\n", deck.Name)
	fmt.Fprintf(&b, "%d cards\n", len(deck.Cards))
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	for i, card := range deck.Cards {
		fmt.Fprintf(&b, "%d. Q: %s\n", i+1, card.Front)
		fmt.Fprintf(&b, "   A: %s\n\n", card.Back)
	}

	return b.String()
}
