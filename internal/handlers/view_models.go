package handlers

import (
	"time"

	"studydesk/internal/models"
)

// UserView is the account shape returned to the client. Password hashes
// and OAuth subjects never leave the server.
type UserView struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newUserView(user *models.User) UserView {
	return UserView{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	}
}

// AuthResponse pairs the account with the CSRF token the client must echo
// on state-changing requests
type AuthResponse struct {
	User      UserView `json:"user"`
	CSRFToken string   `json:"csrfToken"`
}

// DeckSummary is the list-view shape: counts instead of the full card set
type DeckSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CardCount     int    `json:"cardCount"`
	MasteredCount int    `json:"masteredCount"`
}

func newDeckSummary(deck *models.Deck) DeckSummary {
	return DeckSummary{
		ID:            deck.ID,
		Name:          deck.Name,
		CardCount:     len(deck.Cards),
		MasteredCount: deck.MasteredCount(),
	}
}

// DeckView is the detail shape: the full card list plus the counts
type DeckView struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Cards         []models.Flashcard `json:"cards"`
	CardCount     int                `json:"cardCount"`
	MasteredCount int                `json:"masteredCount"`
}

func newDeckView(deck *models.Deck) DeckView {
	return DeckView{
		ID:            deck.ID,
		Name:          deck.Name,
		Cards:         deck.Cards,
		CardCount:     len(deck.Cards),
		MasteredCount: deck.MasteredCount(),
	}
}

// ShareView is the response to a share-link request
type ShareView struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
