package handlers

import (
	"net/http"
	"testing"

	"studydesk/internal/service"
)

func TestDashboardEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := newTestServer(t)
	ts.register(t, "dash@example.com")

	resp := ts.do(t, http.MethodGet, "/api/dashboard", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Summary returned %d", resp.StatusCode)
	}
	var summary service.DashboardSummary
	decode(t, resp, &summary)
	if summary.DeckCount != 1 || summary.CardCount != 3 {
		t.Errorf("Expected starter deck in summary, got %+v", summary)
	}
	if summary.HasTarget {
		t.Error("Fresh account should have no GPA target")
	}

	// Summary reflects planner changes
	resp = ts.do(t, http.MethodPost, "/api/planner/tasks", map[string]string{
		"title": "Future essay", "date": "2999-01-01",
	})
	wantStatus(t, resp, http.StatusCreated)

	resp = ts.do(t, http.MethodGet, "/api/dashboard", nil)
	decode(t, resp, &summary)
	if summary.TasksOpen != 1 || summary.TasksOverdue != 0 {
		t.Errorf("Expected 1 open task, got %+v", summary)
	}
}
