package handlers

import (
	"net/http"
	"testing"

	"studydesk/internal/models"
)

func TestPlannerEndpoints(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := newTestServer(t)
	ts.register(t, "planner@example.com")

	resp := ts.do(t, http.MethodGet, "/api/planner", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Overview returned %d", resp.StatusCode)
	}
	var overview models.PlannerData
	decode(t, resp, &overview)
	if len(overview.Categories) != 3 || len(overview.Tasks) != 0 {
		t.Fatalf("Unexpected default planner: %+v", overview)
	}
	studyCat := overview.Categories[0].ID

	resp = ts.do(t, http.MethodPost, "/api/planner/tasks", map[string]string{
		"title": "Read chapter 4", "date": "2026-04-01", "categoryId": studyCat,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("CreateTask returned %d", resp.StatusCode)
	}
	var task models.Task
	decode(t, resp, &task)
	if task.Title != "Read chapter 4" || task.CategoryID != studyCat {
		t.Fatalf("Unexpected created task: %+v", task)
	}

	wantStatus(t, ts.do(t, http.MethodPost, "/api/planner/tasks", map[string]string{
		"title": "Bad date", "date": "04/01/2026",
	}), http.StatusBadRequest)
	wantStatus(t, ts.do(t, http.MethodPost, "/api/planner/tasks", map[string]string{
		"title": "Bad category", "date": "2026-04-01", "categoryId": "nope",
	}), http.StatusNotFound)

	resp = ts.do(t, http.MethodPost, "/api/planner/tasks/"+task.ID+"/toggle", nil)
	decode(t, resp, &task)
	if !task.Completed {
		t.Error("Expected toggle to complete the task")
	}

	resp = ts.do(t, http.MethodGet, "/api/planner/tasks?from=2026-04-01&to=2026-04-30", nil)
	var tasks []models.Task
	decode(t, resp, &tasks)
	if len(tasks) != 1 {
		t.Errorf("Expected 1 task in April, got %d", len(tasks))
	}
	resp = ts.do(t, http.MethodGet, "/api/planner/tasks?from=2026-05-01", nil)
	decode(t, resp, &tasks)
	if len(tasks) != 0 {
		t.Errorf("Expected no tasks from May, got %d", len(tasks))
	}

	wantStatus(t, ts.do(t, http.MethodDelete, "/api/planner/tasks/"+task.ID, nil), http.StatusNoContent)
	wantStatus(t, ts.do(t, http.MethodDelete, "/api/planner/tasks/"+task.ID, nil), http.StatusNotFound)
}

func TestCategoryEndpoints(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := newTestServer(t)
	ts.register(t, "categories@example.com")

	resp := ts.do(t, http.MethodPost, "/api/planner/categories", map[string]string{
		"name": "Clubs", "color": "#ef4444",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("CreateCategory returned %d", resp.StatusCode)
	}
	var cat models.Category
	decode(t, resp, &cat)

	wantStatus(t, ts.do(t, http.MethodPost, "/api/planner/categories", map[string]string{
		"name": "Bad", "color": "red",
	}), http.StatusBadRequest)

	resp = ts.do(t, http.MethodPut, "/api/planner/categories/"+cat.ID, map[string]string{
		"name": "Societies", "color": "#ef4444",
	})
	decode(t, resp, &cat)
	if cat.Name != "Societies" {
		t.Errorf("Expected rename to apply, got %q", cat.Name)
	}

	// Deleting the category detaches its tasks instead of removing them
	resp = ts.do(t, http.MethodPost, "/api/planner/tasks", map[string]string{
		"title": "Weekly meeting", "date": "2026-04-02", "categoryId": cat.ID,
	})
	var task models.Task
	decode(t, resp, &task)

	wantStatus(t, ts.do(t, http.MethodDelete, "/api/planner/categories/"+cat.ID, nil), http.StatusNoContent)

	resp = ts.do(t, http.MethodGet, "/api/planner", nil)
	var overview models.PlannerData
	decode(t, resp, &overview)
	if len(overview.Categories) != 3 {
		t.Errorf("Expected the 3 default categories, got %d", len(overview.Categories))
	}
	if len(overview.Tasks) != 1 || overview.Tasks[0].CategoryID != "" {
		t.Errorf("Expected orphaned task with cleared category, got %+v", overview.Tasks)
	}
}
