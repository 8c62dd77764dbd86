package service

import (
	"path/filepath"
	"testing"
	"time"

	"studydesk/internal/database"
	"studydesk/internal/models"
	"studydesk/internal/repository"
	"studydesk/internal/security"
)

// testEnv wires the full service stack over a throwaway sqlite database
type testEnv struct {
	db       *database.DB
	users    *repository.UserRepository
	settings *repository.SettingsRepository
	decks    *repository.DeckStore
	gpaStore *repository.GPAStore
	planner  *repository.PlannerStore

	auth      *AuthService
	deckSvc   *DeckService
	studySvc  *StudyService
	gpaSvc    *GPAService
	planSvc   *PlannerService
	dashboard *DashboardService
	backup    *BackupService
}

func newTestEnv(t *testing.T) *testEnv {
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

	env := &testEnv{db: db}
	env.users = repository.NewUserRepository(db)
	env.settings = repository.NewSettingsRepository(db)
	docs := repository.NewDocumentRepository(db)
	env.decks = repository.NewDeckStore(docs)
	env.gpaStore = repository.NewGPAStore(docs)
	env.planner = repository.NewPlannerStore(docs)

	env.auth = NewAuthService(env.users, env.settings, env.decks, env.gpaStore, env.planner, time.Hour)
	env.deckSvc = NewDeckService(env.decks, security.NewShareTokenSigner("test-secret"))
	env.studySvc = NewStudyService(env.decks)
	env.gpaSvc = NewGPAService(env.gpaStore)
	env.planSvc = NewPlannerService(env.planner)
	env.dashboard = NewDashboardService(env.decks, env.gpaStore, env.planner)
	env.backup = NewBackupService(db)

	return env
}

// register creates an account through the real registration path, so the
// default documents are seeded exactly as in production
func (env *testEnv) register(t *testing.T, email string) *models.User {
	t.Helper()

	user, err := env.auth.Register(email, "password123", "Test User")
	if err != nil {
		t.Fatalf("Failed to register %s: %v", email, err)
	}
	return user
}
