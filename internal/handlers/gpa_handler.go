package handlers

import (
	"net/http"

	"studydesk/internal/service"
)

// GPAHandler handles GPA sheet HTTP requests
type GPAHandler struct {
	gpaService *service.GPAService
}

// NewGPAHandler creates a new GPA handler
func NewGPAHandler(gpaService *service.GPAService) *GPAHandler {
	return &GPAHandler{gpaService: gpaService}
}

// Overview returns courses, settings, the current GPA and the target
// analysis when one applies
func (h *GPAHandler) Overview(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	overview, err := h.gpaService.Overview(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// AddCourse appends a blank course row
func (h *GPAHandler) AddCourse(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	course, err := h.gpaService.AddCourse(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

// UpdateCourse sets a course's name, grade and credits
func (h *GPAHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req struct {
		Name    string  `json:"name"`
		Grade   string  `json:"grade"`
		Credits float64 `json:"credits"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	course, err := h.gpaService.UpdateCourse(user.ID, r.PathValue("courseID"), req.Name, req.Grade, req.Credits)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// DeleteCourse removes a course. The last remaining course cannot be
// deleted, which comes back as a conflict.
func (h *GPAHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	if err := h.gpaService.DeleteCourse(user.ID, r.PathValue("courseID")); err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// UpdateSettings sets the scale, target GPA and required credits
func (h *GPAHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req struct {
		Scale                string  `json:"scale"`
		TargetGPA            string  `json:"targetGPA"`
		TotalCreditsRequired float64 `json:"totalCreditsRequired"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	overview, err := h.gpaService.UpdateSettings(user.ID, req.Scale, req.TargetGPA, req.TotalCreditsRequired)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
