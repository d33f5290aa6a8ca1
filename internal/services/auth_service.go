package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/openkpi/kpi-manager-api/internal/repository"
	"github.com/openkpi/kpi-manager-api/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles login, logout, and token revocation.
type AuthService struct {
	users  repository.UserRepository
	tokens *token.Manager
	redis  *redis.Client
}

// NewAuthService creates a new AuthService. A nil redis client disables the
// logout denylist; tokens then stay valid until they expire.
func NewAuthService(users repository.UserRepository, tokens *token.Manager, redisClient *redis.Client) *AuthService {
	return &AuthService{users: users, tokens: tokens, redis: redisClient}
}

// Login verifies credentials and issues a signed token.
func (s *AuthService) Login(username, password string) (string, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	signed, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Logout revokes one token by placing its ID on the denylist until the
// token would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.redis == nil || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, denylistKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token ID has been logged out.
func (s *AuthService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.redis == nil || tokenID == "" {
		return false, nil
	}
	_, err := s.redis.Get(ctx, denylistKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return true, nil
}

func denylistKey(tokenID string) string {
	return "auth:denylist:" + tokenID
}
