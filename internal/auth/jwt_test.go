package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/mmynk/dangidongi/internal/models"
)

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret-key-with-enough-bytes", time.Hour)
	user := &models.User{ID: "user-1", Email: "sara@example.com"}

	token, err := manager.Issue(user)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if until := time.Until(token.ExpiresAt); until <= 59*time.Minute || until > time.Hour {
		t.Errorf("ExpiresAt in %v, want about an hour", until)
	}

	claims, err := manager.Validate(token.Value)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID() != "user-1" || claims.Email != "sara@example.com" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != Issuer {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, Issuer)
	}
}

func TestJWTManager_Rejects(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "sara@example.com"}

	expired, err := NewJWTManager("secret", -time.Minute).Issue(user)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	foreign, err := NewJWTManager("other-secret", time.Hour).Issue(user)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	anonymous, err := NewJWTManager("secret", time.Hour).Issue(&models.User{})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	manager := NewJWTManager("secret", time.Hour)
	tests := map[string]string{
		"expired":      expired.Value,
		"wrong secret": foreign.Value,
		"no subject":   anonymous.Value,
		"garbage":      "not-a-token",
		"empty":        "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
