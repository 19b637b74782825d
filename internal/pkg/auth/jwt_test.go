package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/circularis/backend/internal/app/models"
)

func testService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testService(time.Hour)
	user := &models.User{ID: 42, Email: "ada@example.com", Role: models.RoleOrdinary}

	token, expiresIn, err := svc.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if expiresIn != 3600 {
		t.Fatalf("expected 3600s expiry, got %d", expiresIn)
	}

	claims, err := svc.ValidateAndExtractClaims(token)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims failed: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "ada@example.com" || claims.Role != "ORDINARY" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := testService(-time.Minute)
	token, _, err := svc.GenerateToken(&models.User{ID: 1, Email: "a@example.com"})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, _, err := testService(time.Hour).GenerateToken(&models.User{ID: 1, Email: "a@example.com"})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	other := NewJWTService(JWTConfig{SecretKey: "another-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatalf("expected validation to fail for a foreign secret")
	}
}

func TestValidateAndExtractClaimsRejectsEmpty(t *testing.T) {
	if _, err := testService(time.Hour).ValidateAndExtractClaims(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("ExtractBearerToken failed: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Fatalf("unexpected token %q", token)
	}

	// A bare token without the prefix is accepted as-is
	token, err = ExtractBearerToken("abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Fatalf("unexpected result %q, %v", token, err)
	}

	if _, err := ExtractBearerToken(""); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}
