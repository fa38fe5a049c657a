package services

import (
	"errors"
	"fmt"
	"time"

	"minichat-backend/internal/auth"
	"minichat-backend/internal/config"

	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned when the supplied password is wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues operator access tokens. The single operator password is
// bcrypt-hashed once at startup; only the hash is kept in memory.
type AuthService struct {
	passwordHash    string
	jwtSecret       string
	tokenExpiration time.Duration
	logger          *zap.Logger
}

// NewAuthService creates an AuthService from the loaded configuration.
func NewAuthService(cfg *config.Config, logger *zap.Logger) (*AuthService, error) {
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &AuthService{
		passwordHash:    hash,
		jwtSecret:       cfg.JWTSecret,
		tokenExpiration: cfg.TokenExpiration,
		logger:          logger,
	}, nil
}

// Login verifies the operator password and returns a signed access token.
func (s *AuthService) Login(password string) (string, error) {
	if !auth.CheckPasswordHash(password, s.passwordHash) {
		s.logger.Warn("login attempt with wrong password")
		return "", ErrInvalidCredentials
	}
	token, err := auth.NewAccessToken(s.jwtSecret, s.tokenExpiration)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}
	return token, nil
}
