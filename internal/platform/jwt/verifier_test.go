package jwtmw

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	return s
}

// TestVerifier_Verify は署名・有効期限・スコープの検証結果を確認します。
func TestVerifier_Verify(t *testing.T) {
	t.Parallel()

	const secret = "test-secret"
	future := time.Now().Add(time.Hour).Unix()
	past := time.Now().Add(-time.Hour).Unix()

	valid, err := NewGenerator(secret, time.Hour).GenerateToken("cron")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr bool
		isScope bool
	}{
		{"generated token", valid, false, false},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"exp": future, "scope": ScopeSync}), true, false},
		{"expired", sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"exp": past, "scope": ScopeSync}), true, false},
		{"no exp", sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"scope": ScopeSync}), true, false},
		{"none algorithm", sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"exp": future, "scope": ScopeSync}), true, false},
		{"missing scope", sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"exp": future}), true, true},
		{"garbage", "not-a-jwt", true, false},
	}

	v := NewVerifier(secret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := v.Verify(tt.token)

			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if tt.isScope && !errors.Is(err, ErrMissingScope) {
				t.Errorf("expected ErrMissingScope, got %v", err)
			}
		})
	}
}
