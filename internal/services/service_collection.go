package services

import (
	"sklink/internal/config"
	"sklink/internal/repositories"
	"sklink/internal/utils"

	"go.uber.org/zap"
)

// ServiceCollection bundles every service for handler wiring.
type ServiceCollection struct {
	Auth         AuthService
	Registration RegistrationService
	Verification VerificationService
	Youth        YouthService
	Feed         FeedService
	Notification NotificationService
	Profile      ProfileService
	Purok        PurokService
	Dashboard    DashboardService
	Feedback     FeedbackService
	File         FileService
}

// NewServiceCollection wires every service over the repository collection.
// Storage may be nil when Cloudinary is not configured; the file service is
// omitted in that case and upload endpoints report a configuration error.
func NewServiceCollection(
	repos *repositories.Collection,
	cfg *config.Config,
	storage utils.FileStorage,
	logger *zap.Logger,
) *ServiceCollection {
	authCfg := &AuthConfig{
		JWTSecret:   []byte(cfg.Auth.JWTSecret),
		TokenExpiry: cfg.Auth.TokenExpiry,
	}

	auth := NewAuthService(repos.Official, repos.Youth, authCfg, logger)
	notification := NewNotificationService(repos.Notification, logger)

	collection := &ServiceCollection{
		Auth:         auth,
		Registration: NewRegistrationService(repos.Youth, auth, cfg.Auth.BCryptCost, logger),
		Verification: NewVerificationService(repos.Youth, logger),
		Youth:        NewYouthService(repos.Youth, logger),
		Feed:         NewFeedService(repos.Post, repos.Comment, repos.Reaction, repos.Ban, notification, logger),
		Notification: notification,
		Profile:      NewProfileService(repos.Official, repos.Youth, logger),
		Purok:        NewPurokService(repos.Purok, logger),
		Dashboard:    NewDashboardService(repos.Youth, logger),
		Feedback:     NewFeedbackService(repos.Feedback, logger),
	}
	if storage != nil {
		collection.File = NewFileService(storage, logger)
	}
	return collection
}
