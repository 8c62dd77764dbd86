package handlers

import (
	"net/http"

	"studydesk/internal/service"
)

// PlannerHandler handles planner HTTP requests
type PlannerHandler struct {
	plannerService *service.PlannerService
}

// NewPlannerHandler creates a new planner handler
func NewPlannerHandler(plannerService *service.PlannerService) *PlannerHandler {
	return &PlannerHandler{plannerService: plannerService}
}

// Overview returns the full planner document: all tasks and categories
func (h *PlannerHandler) Overview(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	data, err := h.plannerService.Overview(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// ListTasks returns tasks filtered by ?from=&to= (YYYY-MM-DD, inclusive)
// and ?category=
func (h *PlannerHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	query := r.URL.Query()
	tasks, err := h.plannerService.ListTasks(user.ID, query.Get("from"), query.Get("to"), query.Get("category"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// CreateTask adds a task
func (h *PlannerHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req struct {
		Title      string `json:"title"`
		Date       string `json:"date"`
		CategoryID string `json:"categoryId"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	task, err := h.plannerService.AddTask(user.ID, req.Title, req.Date, req.CategoryID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// UpdateTask replaces a task's fields
func (h *PlannerHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req struct {
		Title      string `json:"title"`
		Date       string `json:"date"`
		CategoryID string `json:"categoryId"`
		Completed  bool   `json:"completed"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	task, err := h.plannerService.UpdateTask(user.ID, r.PathValue("taskID"), req.Title, req.Date, req.CategoryID, req.Completed)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ToggleTask flips a task's completion flag
func (h *PlannerHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	task, err := h.plannerService.ToggleTask(user.ID, r.PathValue("taskID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask removes a task
func (h *PlannerHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	if err := h.plannerService.DeleteTask(user.ID, r.PathValue("taskID")); err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// CreateCategory adds a category
func (h *PlannerHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	category, err := h.plannerService.AddCategory(user.ID, req.Name, req.Color)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// UpdateCategory renames or recolors a category
func (h *PlannerHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	category, err := h.plannerService.UpdateCategory(user.ID, r.PathValue("categoryID"), req.Name, req.Color)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// DeleteCategory removes a category and detaches its tasks
func (h *PlannerHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	if err := h.plannerService.DeleteCategory(user.ID, r.PathValue("categoryID")); err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
