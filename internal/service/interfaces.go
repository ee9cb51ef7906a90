package service

import (
	"context"

	"clubsite/internal/domain"
)

// AuthService defines the interface for admin authentication
type AuthService interface {
	// Login checks the admin credential and issues a session token
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)

	// Validate parses a session token and returns its claims
	Validate(ctx context.Context, token string) (*domain.AdminClaims, error)
}

// MediaImporter defines the interface for pulling gallery images from an external source
type MediaImporter interface {
	// PlaylistThumbnails returns up to limit thumbnail URLs of a playlist
	PlaylistThumbnails(ctx context.Context, playlistID string, limit int) ([]string, error)
}

// Services aggregates the application services
type Services struct {
	Auth          AuthService
	Media         MediaImporter
	Countdown     *CountdownService
	Registrations *RegistrationService
	Backup        *BackupService
	Export        *ExportService
}
