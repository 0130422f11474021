// Package jwtmw issues and verifies the HS256 bearer tokens accepted by the
// sync trigger endpoint.
package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ScopeSync is the scope claim a token needs to start a sync batch.
const ScopeSync = "sync"

// Generator defines the interface for trigger token generation.
type Generator interface {
	// GenerateToken creates a signed token for subject (e.g. "cron").
	GenerateToken(subject string) (string, error)
}

// generator implements the Generator interface.
type generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) Generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken creates a signed JWT token with standard claims and the sync scope.
func (g *generator) GenerateToken(subject string) (string, error) {
	now := g.now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"exp":   now.Add(g.expiration).Unix(),
		"iat":   now.Unix(),
		"scope": ScopeSync,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
