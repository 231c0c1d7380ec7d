package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mathquest/internal/config"
	"mathquest/internal/database"
	"mathquest/internal/handlers"
	"mathquest/internal/repository"
	"mathquest/internal/security"
	"mathquest/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
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

	// Seed the username word filter
	if err := db.SeedBadWords(); err != nil {
		log.Printf("Warning: Failed to seed word filter: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	learnerRepo := repository.NewLearnerRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	progressionRepo := repository.NewProgressionRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, familyRepo, cfg.SessionDuration)
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.EmailFromAddress, "MathQuest", cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	rosterService := service.NewRosterService(db, familyRepo, learnerRepo, invitationRepo, progressionRepo, reviewRepo, emailService)
	srsService := service.NewSRSService(reviewRepo)
	progressionService := service.NewProgressionService(progressionRepo)
	companionService := service.NewCompanionService(progressionRepo)
	snapshotService := service.NewSnapshotService(db)

	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	rateLimiter := security.NewRateLimiter(20, time.Minute)

	googleOAuth := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService, rosterService, csrf, rateLimiter)
	authHandler := handlers.NewAuthHandler(authService, emailService, csrf, googleOAuth, cfg.AppBaseURL)
	rosterHandler := handlers.NewRosterHandler(rosterService, progressionService, srsService)
	studyHandler := handlers.NewStudyHandler(progressionService)
	flashcardHandler := handlers.NewFlashcardHandler(srsService, progressionService)
	progressionHandler := handlers.NewProgressionHandler(progressionService)
	companionHandler := handlers.NewCompanionHandler(companionService)
	adminHandler := handlers.NewAdminHandler(snapshotService, emailService, progressionService, srsService, familyRepo, learnerRepo)

	// Setup routes
	mux := http.NewServeMux()

	// Guardian auth
	mux.HandleFunc("POST /api/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/session", middleware.RequireAuth(authHandler.CurrentUser))
	mux.HandleFunc("GET /api/csrf", authHandler.CSRFToken)
	mux.HandleFunc("GET /auth/google/start", authHandler.StartGoogleOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleOAuthCallback)

	// Families and learners
	mux.HandleFunc("GET /api/families", middleware.RequireAuth(rosterHandler.ListFamilies))
	mux.HandleFunc("POST /api/families", middleware.RequireAuth(middleware.CSRFProtect(rosterHandler.CreateFamily)))
	mux.HandleFunc("GET /api/families/{familyID}/learners", middleware.RequireAuth(rosterHandler.ListFamilyLearners))
	mux.HandleFunc("POST /api/families/{familyID}/learners", middleware.RequireAuth(middleware.CSRFProtect(rosterHandler.CreateLearner)))
	mux.HandleFunc("GET /api/families/{familyID}/invitations", middleware.RequireAuth(rosterHandler.ListFamilyInvitations))
	mux.HandleFunc("POST /api/families/{familyID}/invitations", middleware.RequireAuth(middleware.CSRFProtect(rosterHandler.InviteGuardian)))
	mux.HandleFunc("POST /api/invitations/accept", middleware.RequireAuth(middleware.CSRFProtect(rosterHandler.AcceptInvitation)))
	mux.HandleFunc("GET /api/learners/{learnerID}", middleware.RequireAuth(rosterHandler.GetLearner))
	mux.HandleFunc("PUT /api/learners/{learnerID}", middleware.RequireAuth(middleware.CSRFProtect(rosterHandler.UpdateLearner)))
	mux.HandleFunc("DELETE /api/learners/{learnerID}", middleware.RequireAuth(middleware.CSRFProtect(rosterHandler.DeleteLearner)))
	mux.HandleFunc("POST /api/learners/{learnerID}/reset-password", middleware.RequireAuth(middleware.CSRFProtect(rosterHandler.ResetLearnerPassword)))

	// Learner auth
	mux.HandleFunc("POST /api/learner/login", middleware.RateLimit(rosterHandler.LearnerLogin))
	mux.HandleFunc("POST /api/learner/logout", rosterHandler.LearnerLogout)
	mux.HandleFunc("GET /api/learner/session", middleware.RequireLearner(rosterHandler.CurrentLearner))

	// Content catalogs
	mux.HandleFunc("GET /api/study/lessons", studyHandler.ListLessons)
	mux.HandleFunc("GET /api/study/exercises", studyHandler.ListExercises)
	mux.HandleFunc("GET /api/study/quizzes", studyHandler.ListQuizzes)
	mux.HandleFunc("GET /api/study/exams", studyHandler.ListExamPapers)

	// Study events
	mux.HandleFunc("POST /api/study/lessons/{lessonID}/complete", middleware.RequireLearner(middleware.CSRFProtect(studyHandler.CompleteLesson)))
	mux.HandleFunc("POST /api/study/exercises/{exerciseID}/submit", middleware.RequireLearner(middleware.CSRFProtect(studyHandler.SubmitExercise)))
	mux.HandleFunc("POST /api/study/quizzes/{quizID}/submit", middleware.RequireLearner(middleware.CSRFProtect(studyHandler.SubmitQuiz)))
	mux.HandleFunc("POST /api/study/exams/{examID}/submit", middleware.RequireLearner(middleware.CSRFProtect(studyHandler.SubmitExam)))

	// Flashcard reviews
	mux.HandleFunc("GET /api/flashcards/due", middleware.RequireLearner(flashcardHandler.DueCards))
	mux.HandleFunc("GET /api/flashcards/states", middleware.RequireLearner(flashcardHandler.CardStates))
	mux.HandleFunc("GET /api/flashcards/stats", middleware.RequireLearner(flashcardHandler.Stats))
	mux.HandleFunc("POST /api/flashcards/{cardID}/review", middleware.RequireLearner(middleware.CSRFProtect(flashcardHandler.Review)))

	// Progression
	mux.HandleFunc("GET /api/progression", middleware.RequireLearner(progressionHandler.Overview))
	mux.HandleFunc("POST /api/progression/challenges/{challengeID}/claim", middleware.RequireLearner(middleware.CSRFProtect(progressionHandler.ClaimChallenge)))
	mux.HandleFunc("POST /api/progression/quests/{questID}/claim", middleware.RequireLearner(middleware.CSRFProtect(progressionHandler.ClaimSideQuest)))

	// Companion
	mux.HandleFunc("GET /api/companion", middleware.RequireLearner(companionHandler.Get))
	mux.HandleFunc("GET /api/companion/shop", middleware.RequireLearner(companionHandler.Shop))
	mux.HandleFunc("POST /api/companion/purchase", middleware.RequireLearner(middleware.CSRFProtect(companionHandler.Purchase)))
	mux.HandleFunc("POST /api/companion/name", middleware.RequireLearner(middleware.CSRFProtect(companionHandler.Rename)))

	// Admin
	mux.HandleFunc("GET /api/admin/snapshot", middleware.RequireAdmin(adminHandler.ExportSnapshot))
	mux.HandleFunc("POST /api/admin/snapshot", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.ImportSnapshot)))
	mux.HandleFunc("POST /api/admin/learners/{learnerID}/reset", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.ResetLearnerData)))
	mux.HandleFunc("POST /api/admin/families/{familyID}/digest", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.SendFamilyDigest)))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService, rosterService)

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
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService, rosterService *service.RosterService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired guardian sessions: %v", err)
		}
		if err := rosterService.CleanupExpiredLearnerSessions(); err != nil {
			log.Printf("Error cleaning up expired learner sessions: %v", err)
		}
	}
}
