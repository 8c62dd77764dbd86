package handlers

import (
	"net/http"

	"studydesk/internal/service"
	"studydesk/internal/study"
)

// StudyHandler handles study session HTTP requests. Sessions are held in
// memory by the service, so every endpoint is a thin state-machine call.
type StudyHandler struct {
	studyService *service.StudyService
}

// NewStudyHandler creates a new study handler
func NewStudyHandler(studyService *service.StudyService) *StudyHandler {
	return &StudyHandler{studyService: studyService}
}

// Start opens a study session on a deck, replacing any session in progress
func (h *StudyHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	state, err := h.studyService.Start(user.ID, r.PathValue("deckID"))
	h.writeState(w, state, err)
}

// State returns the current session snapshot
func (h *StudyHandler) State(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	state, err := h.studyService.State(user.ID)
	h.writeState(w, state, err)
}

// Flip toggles the current card between front and back
func (h *StudyHandler) Flip(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	state, err := h.studyService.Flip(user.ID)
	h.writeState(w, state, err)
}

// Next moves to the following card
func (h *StudyHandler) Next(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	state, err := h.studyService.Advance(user.ID, study.Next)
	h.writeState(w, state, err)
}

// Prev moves to the preceding card
func (h *StudyHandler) Prev(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	state, err := h.studyService.Advance(user.ID, study.Prev)
	h.writeState(w, state, err)
}

// Shuffle randomizes the session's card order
func (h *StudyHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	state, err := h.studyService.Shuffle(user.ID)
	h.writeState(w, state, err)
}

// Reset restores the deck's original card order, keeping mastery
func (h *StudyHandler) Reset(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	state, err := h.studyService.Reset(user.ID)
	h.writeState(w, state, err)
}

// MarkMastered flags the current card and writes it through to the deck
func (h *StudyHandler) MarkMastered(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req struct {
		Mastered bool `json:"mastered"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	state, err := h.studyService.MarkMastered(user.ID, req.Mastered)
	h.writeState(w, state, err)
}

// Close commits progress and discards the session
func (h *StudyHandler) Close(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	if err := h.studyService.Close(user.ID); err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *StudyHandler) writeState(w http.ResponseWriter, state *service.StudyState, err error) {
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
