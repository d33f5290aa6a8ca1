// Package token issues and verifies the signed bearer tokens the API uses
// for authentication.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Manager signs and verifies HS256 tokens.
type Manager struct {
	secretKey []byte
	expiry    time.Duration
}

// Claims carries the account identity inside a token. The JTI (registered
// ID) lets the logout denylist target individual tokens.
type Claims struct {
	UserID   uint64 `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewManager(secret string, expireHours int) *Manager {
	return &Manager{
		secretKey: []byte(secret),
		expiry:    time.Duration(expireHours) * time.Hour,
	}
}

// Generate signs a new token for the given account.
func (m *Manager) Generate(userID uint64, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        randomID(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
}

// Verify parses a token string and returns its claims, or an error for a
// bad signature, wrong algorithm, or expired token.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := tok.Claims.(*Claims); ok && tok.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func randomID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}
