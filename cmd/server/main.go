package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studydesk/internal/config"
	"studydesk/internal/database"
	"studydesk/internal/handlers"
	"studydesk/internal/repository"
	"studydesk/internal/security"
	"studydesk/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	deckStore := repository.NewDeckStore(documentRepo)
	gpaStore := repository.NewGPAStore(documentRepo)
	plannerStore := repository.NewPlannerStore(documentRepo)

	// Initialize services
	shareSigner := security.NewShareTokenSigner(cfg.SecretKey)
	authService := service.NewAuthService(userRepo, settingsRepo, deckStore, gpaStore, plannerStore, cfg.SessionDuration)
	deckService := service.NewDeckService(deckStore, shareSigner)
	studyService := service.NewStudyService(deckStore)
	gpaService := service.NewGPAService(gpaStore)
	plannerService := service.NewPlannerService(plannerStore)
	dashboardService := service.NewDashboardService(deckStore, gpaStore, plannerStore)

	emailService, err := service.NewEmailService(cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	if emailService.IsEnabled() {
		log.Printf("Email sending enabled via SES (%s)", cfg.SESRegion)
	} else {
		log.Println("Email sending disabled (SES_FROM_EMAIL not set)")
	}

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
	}

	// Initialize handlers
	csrf := security.NewCSRFGenerator(cfg.SecretKey)
	middleware := handlers.NewMiddleware(authService, csrf)
	authHandler := handlers.NewAuthHandler(authService, emailService, csrf, oauthProviders, cfg.OAuthRedirectBaseURL, cfg.AppBaseURL)
	deckHandler := handlers.NewDeckHandler(deckService, cfg.AppBaseURL)
	studyHandler := handlers.NewStudyHandler(studyService)
	gpaHandler := handlers.NewGPAHandler(gpaService)
	plannerHandler := handlers.NewPlannerHandler(plannerService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Setup routes
	mux := handlers.NewRouter(middleware, authHandler, deckHandler, studyHandler, gpaHandler, plannerHandler, dashboardHandler)

	// The front-end runs on its own origin and authenticates with cookies
	corsWrapper := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", handlers.CSRFTokenHeader},
		AllowCredentials: true,
	})

	// Wrap with CORS and logging middleware
	handler := handlers.Logging(corsWrapper.Handler(mux))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background credential cleanup
	go cleanupExpiredCredentials(authService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Warning: shutdown did not complete cleanly: %v", err)
	}
}

// cleanupExpiredCredentials periodically removes expired sessions and
// password reset tokens
func cleanupExpiredCredentials(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		}
		if err := authService.CleanupExpiredPasswordResetTokens(); err != nil {
			log.Printf("Error cleaning up expired reset tokens: %v", err)
		}
	}
}
