package main

import (
	"context"
	"net/http"

	api "imagepro-backend/cmd/api"
	authdomain "imagepro-backend/internal/auth/domain"
	authRepo "imagepro-backend/internal/auth/repository"
	"imagepro-backend/internal/auth/scheduler"
	authUsecase "imagepro-backend/internal/auth/usecase"
	profiledomain "imagepro-backend/internal/profile/domain"
	profileRepo "imagepro-backend/internal/profile/repository"
	profileUsecase "imagepro-backend/internal/profile/usecase"
	"imagepro-backend/pkg/config"
	"imagepro-backend/pkg/database"
	"imagepro-backend/pkg/googleauth"
	"imagepro-backend/pkg/logger"
	"imagepro-backend/pkg/mailer"
	"imagepro-backend/pkg/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &authdomain.PasswordResetToken{}, &profiledomain.Profile{}); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	store, err := storage.NewStorage(context.Background(), cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize object storage")
	}
	log.WithField("provider", cfg.Storage.Provider).Info("object storage initialized")

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	resetRepo := authRepo.NewResetTokenRepository(db)
	profileRepository := profileRepo.NewGormProfileRepository(db)

	var oauthClient authUsecase.OAuthClient
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		oauthClient = googleauth.NewClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI,
			&http.Client{Timeout: cfg.IdentityHTTPTimeout})
	} else {
		log.Warn("GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET not set, Google sign-in disabled")
	}

	mail := mailer.New(cfg.SendGridAPIKey, cfg.MailFrom, log)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, resetRepo, oauthClient, mail, cfg, log)
	profileUsecaseInstance := profileUsecase.NewProfileUsecase(profileRepository, store,
		&http.Client{Timeout: cfg.AvatarFetchTimeout}, authUsecaseInstance, log)

	cleanup := scheduler.NewTokenCleanupScheduler(userRepo, resetRepo, cfg.TokenCleanupInterval, log)
	cleanup.Start()
	defer cleanup.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, profileUsecaseInstance, store, cfg, log)

	// Start server
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
