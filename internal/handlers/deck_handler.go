package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"studydesk/internal/service"
)

// DeckHandler handles flashcard deck HTTP requests
type DeckHandler struct {
	deckService *service.DeckService
	appBaseURL  string
}

// NewDeckHandler creates a new deck handler
func NewDeckHandler(deckService *service.DeckService, appBaseURL string) *DeckHandler {
	return &DeckHandler{
		deckService: deckService,
		appBaseURL:  appBaseURL,
	}
}

// ListDecks returns the user's decks as summaries
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	decks, err := h.deckService.ListDecks(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	summaries := make([]DeckSummary, 0, len(decks))
	for i := range decks {
		summaries = append(summaries, newDeckSummary(&decks[i]))
	}
	writeJSON(w, http.StatusOK, summaries)
}

// GetDeck returns one deck with its full card list
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	deck, err := h.deckService.GetDeck(user.ID, r.PathValue("deckID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDeckView(deck))
}

// CreateDeck creates an empty named deck
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	deck, err := h.deckService.CreateDeck(user.ID, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newDeckView(deck))
}

// RenameDeck changes a deck's name
func (h *DeckHandler) RenameDeck(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	deck, err := h.deckService.RenameDeck(user.ID, r.PathValue("deckID"), req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDeckView(deck))
}

// DeleteDeck permanently deletes a deck. There is no undo, so the request
// must carry ?confirm=true.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		respondWithError(w, http.StatusBadRequest, "Deck deletion is permanent and requires confirm=true", "", nil)
		return
	}

	if err := h.deckService.DeleteDeck(user.ID, r.PathValue("deckID")); err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// AddCard appends a card to a deck
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	card, err := h.deckService.AddCard(user.ID, r.PathValue("deckID"), req.Front, req.Back)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// UpdateCard replaces a card's sides and mastery flag
func (h *DeckHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req struct {
		Front    string `json:"front"`
		Back     string `json:"back"`
		Mastered bool   `json:"mastered"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	card, err := h.deckService.UpdateCard(user.ID, r.PathValue("deckID"), r.PathValue("cardID"), req.Front, req.Back, req.Mastered)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// DeleteCard removes a card from a deck
func (h *DeckHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	if err := h.deckService.DeleteCard(user.ID, r.PathValue("deckID"), r.PathValue("cardID")); err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ImportCards bulk-appends cards from a comma-separated text payload
func (h *DeckHandler) ImportCards(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Import payload too large or unreadable", "", nil)
		return
	}

	result, err := h.deckService.ImportCards(user.ID, r.PathValue("deckID"), string(body))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ExportDeck returns a deck's cards as a JSON document, or as a printable
// study sheet with ?format=text
func (h *DeckHandler) ExportDeck(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	deckID := r.PathValue("deckID")
	if r.URL.Query().Get("format") == "text" {
		sheet, err := h.deckService.ExportDeckText(user.ID, deckID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, sheet)
		return
	}

	export, err := h.deckService.ExportDeck(user.ID, deckID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, export)
}

// ShareDeck mints a read-only share link for a deck
func (h *DeckHandler) ShareDeck(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	token, err := h.deckService.ShareDeck(user.ID, r.PathValue("deckID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	shareURL := fmt.Sprintf("%s/shared/deck?%s",
		strings.TrimRight(h.appBaseURL, "/"),
		url.Values{"token": []string{token}}.Encode())

	writeJSON(w, http.StatusOK, ShareView{
		Token:     token,
		URL:       shareURL,
		ExpiresAt: time.Now().Add(service.ShareTokenTTL),
	})
}

// SharedDeck resolves a share token to a read-only deck view. This is the
// one deck endpoint that serves without authentication.
func (h *DeckHandler) SharedDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := h.deckService.SharedDeck(r.URL.Query().Get("token"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDeckView(deck))
}
