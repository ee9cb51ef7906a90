package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"clubsite/internal/domain"
	"clubsite/internal/service"
	"clubsite/pkg/errors"
	"clubsite/pkg/logger"
)

const (
	// SessionTTL is how long an admin token stays valid
	SessionTTL = 24 * time.Hour
	issuer     = "clubsite"
)

// Config holds the admin credential
type Config struct {
	Username string
	// PasswordHash is a bcrypt hash. When empty, Password is hashed at startup.
	PasswordHash string
	Password     string
	Secret       string
}

// Service implements the AuthService interface
type Service struct {
	username string
	hash     []byte
	secret   []byte
	now      func() time.Time
	logger   *logger.Logger
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewService creates an admin auth service
func NewService(cfg Config, logger *logger.Logger) (*Service, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if cfg.Username == "" {
		cfg.Username = "admin"
	}

	hash := []byte(cfg.PasswordHash)
	switch {
	case len(hash) > 0:
		if _, err := bcrypt.Cost(hash); err != nil {
			return nil, fmt.Errorf("invalid admin password hash: %w", err)
		}
	case cfg.Password != "":
		generated, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
		hash = generated
	default:
		return nil, fmt.Errorf("admin password or password hash is required")
	}

	return &Service{
		username: cfg.Username,
		hash:     hash,
		secret:   []byte(cfg.Secret),
		now:      time.Now,
		logger:   logger.Named("auth"),
	}, nil
}

var _ service.AuthService = (*Service)(nil)

// Login checks the admin credential and issues a session token
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, errors.NewValidationError("Username and password are required", nil)
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.hash, []byte(req.Password))
	if !userOK || passErr != nil {
		s.logger.WithField("username", username).Warn("Admin login rejected")
		return nil, errors.NewAuthenticationError("Invalid username or password")
	}

	now := s.now()
	expires := now.Add(SessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.username,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, errors.NewInternalError("Failed to sign session token", err)
	}

	s.logger.WithField("username", username).Info("Admin logged in")
	return &domain.LoginResponse{Token: signed, ExpiresAt: expires.UTC()}, nil
}

// Validate parses a session token and returns its admin claims
func (s *Service) Validate(ctx context.Context, token string) (*domain.AdminClaims, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		s.logger.WithError(err).Debug("Session token rejected")
		return nil, errors.NewAuthenticationError("Invalid or expired token")
	}
	if c.Role != "admin" {
		return nil, errors.NewAuthenticationError("Insufficient permissions")
	}

	admin := &domain.AdminClaims{Username: c.Subject}
	if c.IssuedAt != nil {
		admin.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		admin.ExpiresAt = c.ExpiresAt.Time
	}
	return admin, nil
}

// WithClock replaces the token clock, for tests
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}
