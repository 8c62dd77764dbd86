package handlers

import "net/http"

// NewRouter assembles the full route table. main wraps the result with
// CORS and request logging; tests mount it directly.
func NewRouter(
	mw *Middleware,
	auth *AuthHandler,
	decks *DeckHandler,
	study *StudyHandler,
	gpa *GPAHandler,
	planner *PlannerHandler,
	dashboard *DashboardHandler,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/register", mw.RateLimit(auth.Register))
	mux.HandleFunc("POST /api/auth/login", mw.RateLimit(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/auth/me", mw.RequireAuth(auth.Me))
	mux.HandleFunc("GET /api/auth/providers", auth.Providers)
	mux.HandleFunc("POST /api/auth/password-reset/request", mw.RateLimit(auth.RequestPasswordReset))
	mux.HandleFunc("GET /api/auth/password-reset/validate", auth.ValidateResetToken)
	mux.HandleFunc("POST /api/auth/password-reset/confirm", mw.RateLimit(auth.ConfirmPasswordReset))
	mux.HandleFunc("GET /auth/{provider}/start", auth.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", auth.OAuthCallback)

	// Dashboard
	mux.HandleFunc("GET /api/dashboard", mw.RequireAuth(dashboard.Summary))

	// Decks and cards
	mux.HandleFunc("GET /api/decks", mw.RequireAuth(decks.ListDecks))
	mux.HandleFunc("POST /api/decks", mw.RequireAuth(mw.CSRFProtect(decks.CreateDeck)))
	mux.HandleFunc("GET /api/decks/{deckID}", mw.RequireAuth(decks.GetDeck))
	mux.HandleFunc("PUT /api/decks/{deckID}", mw.RequireAuth(mw.CSRFProtect(decks.RenameDeck)))
	mux.HandleFunc("DELETE /api/decks/{deckID}", mw.RequireAuth(mw.CSRFProtect(decks.DeleteDeck)))
	mux.HandleFunc("POST /api/decks/{deckID}/cards", mw.RequireAuth(mw.CSRFProtect(decks.AddCard)))
	mux.HandleFunc("PUT /api/decks/{deckID}/cards/{cardID}", mw.RequireAuth(mw.CSRFProtect(decks.UpdateCard)))
	mux.HandleFunc("DELETE /api/decks/{deckID}/cards/{cardID}", mw.RequireAuth(mw.CSRFProtect(decks.DeleteCard)))
	mux.HandleFunc("POST /api/decks/{deckID}/import", mw.RequireAuth(mw.CSRFProtect(decks.ImportCards)))
	mux.HandleFunc("GET /api/decks/{deckID}/export", mw.RequireAuth(decks.ExportDeck))
	mux.HandleFunc("POST /api/decks/{deckID}/share", mw.RequireAuth(mw.CSRFProtect(decks.ShareDeck)))
	mux.HandleFunc("GET /api/shared/deck", decks.SharedDeck)

	// Study sessions
	mux.HandleFunc("POST /api/decks/{deckID}/study", mw.RequireAuth(mw.CSRFProtect(study.Start)))
	mux.HandleFunc("GET /api/study", mw.RequireAuth(study.State))
	mux.HandleFunc("POST /api/study/flip", mw.RequireAuth(mw.CSRFProtect(study.Flip)))
	mux.HandleFunc("POST /api/study/next", mw.RequireAuth(mw.CSRFProtect(study.Next)))
	mux.HandleFunc("POST /api/study/prev", mw.RequireAuth(mw.CSRFProtect(study.Prev)))
	mux.HandleFunc("POST /api/study/shuffle", mw.RequireAuth(mw.CSRFProtect(study.Shuffle)))
	mux.HandleFunc("POST /api/study/reset", mw.RequireAuth(mw.CSRFProtect(study.Reset)))
	mux.HandleFunc("POST /api/study/mastered", mw.RequireAuth(mw.CSRFProtect(study.MarkMastered)))
	mux.HandleFunc("POST /api/study/close", mw.RequireAuth(mw.CSRFProtect(study.Close)))

	// GPA sheet
	mux.HandleFunc("GET /api/gpa", mw.RequireAuth(gpa.Overview))
	mux.HandleFunc("POST /api/gpa/courses", mw.RequireAuth(mw.CSRFProtect(gpa.AddCourse)))
	mux.HandleFunc("PUT /api/gpa/courses/{courseID}", mw.RequireAuth(mw.CSRFProtect(gpa.UpdateCourse)))
	mux.HandleFunc("DELETE /api/gpa/courses/{courseID}", mw.RequireAuth(mw.CSRFProtect(gpa.DeleteCourse)))
	mux.HandleFunc("PUT /api/gpa/settings", mw.RequireAuth(mw.CSRFProtect(gpa.UpdateSettings)))

	// Planner
	mux.HandleFunc("GET /api/planner", mw.RequireAuth(planner.Overview))
	mux.HandleFunc("GET /api/planner/tasks", mw.RequireAuth(planner.ListTasks))
	mux.HandleFunc("POST /api/planner/tasks", mw.RequireAuth(mw.CSRFProtect(planner.CreateTask)))
	mux.HandleFunc("PUT /api/planner/tasks/{taskID}", mw.RequireAuth(mw.CSRFProtect(planner.UpdateTask)))
	mux.HandleFunc("POST /api/planner/tasks/{taskID}/toggle", mw.RequireAuth(mw.CSRFProtect(planner.ToggleTask)))
	mux.HandleFunc("DELETE /api/planner/tasks/{taskID}", mw.RequireAuth(mw.CSRFProtect(planner.DeleteTask)))
	mux.HandleFunc("POST /api/planner/categories", mw.RequireAuth(mw.CSRFProtect(planner.CreateCategory)))
	mux.HandleFunc("PUT /api/planner/categories/{categoryID}", mw.RequireAuth(mw.CSRFProtect(planner.UpdateCategory)))
	mux.HandleFunc("DELETE /api/planner/categories/{categoryID}", mw.RequireAuth(mw.CSRFProtect(planner.DeleteCategory)))

	return mux
}
