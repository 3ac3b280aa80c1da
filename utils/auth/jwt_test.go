package auth

import (
	"errors"
	"testing"
	"time"
)

func testManager(expiry time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret: "test-secret-do-not-use-in-production",
		Expiry: expiry,
		Issuer: "orienta-api-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := testManager(time.Hour)

	token, jti, err := manager.GenerateToken(42, "etudiant@example.com", "student", 3)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if jti == "" {
		t.Fatal("expected a non-empty JTI")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "etudiant@example.com" {
		t.Errorf("Email = %q, want etudiant@example.com", claims.Email)
	}
	if claims.Role != "student" {
		t.Errorf("Role = %q, want student", claims.Role)
	}
	if claims.TokenVersion != 3 {
		t.Errorf("TokenVersion = %d, want 3", claims.TokenVersion)
	}
	if claims.ID != jti {
		t.Errorf("claims.ID = %q, want JTI %q", claims.ID, jti)
	}
	if claims.Issuer != "orienta-api-test" {
		t.Errorf("Issuer = %q, want orienta-api-test", claims.Issuer)
	}
}

func TestValidateTokenTampered(t *testing.T) {
	manager := testManager(time.Hour)

	token, _, err := manager.GenerateToken(1, "a@example.com", "student", 0)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	tampered := token + "x"
	if _, err := manager.ValidateToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered signature, got %v", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _, err := testManager(time.Hour).GenerateToken(1, "a@example.com", "student", 0)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	other := NewJWTManager(JWTConfig{Secret: "another-secret", Expiry: time.Hour, Issuer: "orienta-api-test"})
	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	manager := testManager(-time.Minute)

	token, _, err := manager.GenerateToken(1, "a@example.com", "student", 0)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := manager.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestGenerateTokenUniqueJTI(t *testing.T) {
	manager := testManager(time.Hour)

	_, first, err := manager.GenerateToken(1, "a@example.com", "student", 0)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	_, second, err := manager.GenerateToken(1, "a@example.com", "student", 0)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if first == second {
		t.Fatal("two tokens must carry different JTIs")
	}
}
