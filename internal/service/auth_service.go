package service

import (
	"context"
	"errors"
	"fmt"

	"projecthub/internal/apperr"
	"projecthub/internal/auth"
	"projecthub/internal/model"
	"projecthub/internal/repository"
	"projecthub/pkg/metrics"

	"go.uber.org/zap"
)

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	UserID       int    `json:"user_id"`
}

type AuthService struct {
	users    *repository.UserRepository
	tokens   *auth.TokenManager
	throttle *auth.LoginThrottle
	logger   *zap.Logger
}

// NewAuthService wires the identity store to the token provider. throttle may be nil.
func NewAuthService(users *repository.UserRepository, tokens *auth.TokenManager, throttle *auth.LoginThrottle, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    users,
		tokens:   tokens,
		throttle: throttle,
		logger:   logger,
	}
}

// Register creates a new user with role "user".
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	return s.users.Register(username, password)
}

// Login checks credentials and issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if !s.throttle.Allow(ctx, username) {
		metrics.RecordLoginAttempt("throttled")
		return nil, apperr.RateLimited("Too many failed login attempts, try again later")
	}

	u, err := s.users.Authenticate(username, password)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			s.throttle.RecordFailure(ctx, username)
			metrics.RecordLoginAttempt("failed")
		}
		return nil, err
	}
	s.throttle.RecordSuccess(ctx, username)

	access, err := s.tokens.IssueAccessToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	metrics.RecordLoginAttempt("success")
	s.logger.Info("User logged in",
		zap.Int("user_id", u.ID),
		zap.String("username", u.Username),
	)
	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		Username:     u.Username,
		Role:         u.Role,
		UserID:       u.ID,
	}, nil
}

// Refresh mints a new access token for the user a refresh token was issued to.
// The user must still exist.
func (s *AuthService) Refresh(ctx context.Context, userID int) (string, error) {
	if _, err := s.users.Get(userID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", apperr.Unauthorized("User no longer exists")
		}
		return "", err
	}

	access, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}
	s.logger.Debug("Access token refreshed", zap.Int("user_id", userID))
	return access, nil
}
