package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/circularis/backend/internal/app/models"
	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/pkg/apperrors"
	"github.com/circularis/backend/internal/pkg/auth"
)

func newAuthFixture() (AuthService, *fakeUserStore) {
	users := newFakeUserStore()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})
	return NewAuthService(users, jwtService, zerolog.Nop()), users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Role != models.RoleOrdinary {
		t.Fatalf("expected ordinary role, got %s", user.Role)
	}
	if !user.IsActive {
		t.Fatalf("new account must be active")
	}
	if user.Password == "correct-horse" {
		t.Fatalf("password must be stored hashed")
	}

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected a token")
	}
	if resp.UserID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, resp.UserID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	req := &dto.RegisterRequest{FullName: "Ada", Email: "ada@example.com", Password: "pw123456"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := svc.Register(ctx, req); !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{FullName: "Ada", Email: "ada@example.com", Password: "pw123456"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Unknown email and wrong password look the same to the caller
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "pw123456"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "wrong"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, users := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{FullName: "Ada", Email: "ada@example.com", Password: "pw123456"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := users.Deactivate(ctx, user.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "pw123456"}); !errors.Is(err, apperrors.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}
