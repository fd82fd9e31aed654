package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParse(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue(42, "Ana")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user id = %d, want 42", claims.UserID)
	}
	if claims.Nome != "Ana" {
		t.Errorf("nome = %q, want %q", claims.Nome, "Ana")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").Issue(1, "Ana")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewTokenService("secret-b").Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		Nome:   "Ana",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Parse(signed); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret")
	if _, err := svc.Parse("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
