package auth

import (
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	signed, err := svc.Generate("u1", "Ana", "driver", "c1", "s1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.Validate(signed)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != "driver" {
		t.Fatalf("unexpected identity: %+v", claims)
	}
	if claims.CompanyID != "c1" || claims.SectorID != "s1" {
		t.Fatalf("unexpected scope: %+v", claims)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	a, _ := NewTokenService("secret-a", time.Hour)
	b, _ := NewTokenService("secret-b", time.Hour)

	signed, err := a.Generate("u1", "Ana", "admin", "c1", "s1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := b.Validate(signed); err == nil {
		t.Fatal("expected validation failure with wrong secret")
	}
}

func TestTokenExpiryRejected(t *testing.T) {
	svc := &TokenService{secret: []byte("test-secret"), expiry: -time.Hour}

	signed, err := svc.Generate("u1", "Ana", "admin", "c1", "s1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, err = svc.Validate(signed)
	if err == nil {
		t.Fatal("expected expired token to be rejected")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestTokenServiceRequiresSecret(t *testing.T) {
	if _, err := NewTokenService("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
