package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"studydesk/internal/database"
	"studydesk/internal/repository"
	"studydesk/internal/security"
	"studydesk/internal/service"
)

// testServer mounts the full route table over a throwaway sqlite database
// and drives it through a cookie-jar client, the way the browser would
type testServer struct {
	server    *httptest.Server
	client    *http.Client
	csrfToken string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	users := repository.NewUserRepository(db)
	settings := repository.NewSettingsRepository(db)
	docs := repository.NewDocumentRepository(db)
	decks := repository.NewDeckStore(docs)
	gpaStore := repository.NewGPAStore(docs)
	planner := repository.NewPlannerStore(docs)

	authService := service.NewAuthService(users, settings, decks, gpaStore, planner, time.Hour)
	emailService, err := service.NewEmailService("eu-west-1", "", "StudyDesk", "http://localhost:3000", false)
	if err != nil {
		t.Fatalf("Failed to create email service: %v", err)
	}
	deckService := service.NewDeckService(decks, security.NewShareTokenSigner("test-secret"))
	studyService := service.NewStudyService(decks)
	gpaService := service.NewGPAService(gpaStore)
	plannerService := service.NewPlannerService(planner)
	dashboardService := service.NewDashboardService(decks, gpaStore, planner)

	csrf := security.NewCSRFGenerator("test-secret")
	mw := NewMiddleware(authService, csrf)
	authHandler := NewAuthHandler(authService, emailService, csrf, map[string]OAuthProvider{}, "", "http://localhost:3000")
	deckHandler := NewDeckHandler(deckService, "http://localhost:3000")
	studyHandler := NewStudyHandler(studyService)
	gpaHandler := NewGPAHandler(gpaService)
	plannerHandler := NewPlannerHandler(plannerService)
	dashboardHandler := NewDashboardHandler(dashboardService)

	mux := NewRouter(mw, authHandler, deckHandler, studyHandler, gpaHandler, plannerHandler, dashboardHandler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}

	return &testServer{
		server: server,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// do sends a request with the session cookie jar and the current CSRF token
func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, ts.server.URL+path, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ts.csrfToken != "" {
		req.Header.Set(CSRFTokenHeader, ts.csrfToken)
	}

	resp, err := ts.client.Do(req)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, path, err)
	}
	return resp
}

// doText sends a raw text payload, used by the import endpoint
func (ts *testServer) doText(t *testing.T, method, path, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, ts.server.URL+path, bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	if ts.csrfToken != "" {
		req.Header.Set(CSRFTokenHeader, ts.csrfToken)
	}

	resp, err := ts.client.Do(req)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, path, err)
	}
	return resp
}

// decode reads a JSON response body into dst and closes it
func decode(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

// register creates an account over HTTP and captures the CSRF token
func (ts *testServer) register(t *testing.T, email string) AuthResponse {
	t.Helper()

	resp := ts.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email":       email,
		"password":    "password123",
		"displayName": "Test User",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Register returned %d", resp.StatusCode)
	}

	var auth AuthResponse
	decode(t, resp, &auth)
	if auth.CSRFToken == "" {
		t.Fatal("Register response missing CSRF token")
	}
	ts.csrfToken = auth.CSRFToken
	return auth
}

func wantStatus(t *testing.T, resp *http.Response, status int) {
	t.Helper()
	defer resp.Body.Close()
	if resp.StatusCode != status {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status %d, got %d (%s)", status, resp.StatusCode, body)
	}
}
