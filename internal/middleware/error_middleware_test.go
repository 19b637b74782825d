package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/circularis/backend/internal/pkg/apperrors"
)

func statusFor(t *testing.T, err error) int {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleAPIError(c, err)
	return w.Code
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"chat not found", apperrors.ErrChatNotFound, 404},
		{"trade not found", apperrors.ErrTradeNotFound, 404},
		{"self trade", apperrors.ErrSelfTrade, 400},
		{"material unavailable", apperrors.ErrMaterialUnavailable, 400},
		// A sender outside the chat is a business-rule violation, not a
		// permission failure
		{"not a participant", apperrors.ErrNotParticipant, 400},
		{"trade completed", apperrors.ErrTradeCompleted, 400},
		{"chat inactive", apperrors.ErrChatInactive, 400},
		{"permission denied", apperrors.ErrPermissionDenied, 403},
		{"invalid credentials", apperrors.ErrInvalidCredentials, 401},
		{"email exists", apperrors.ErrEmailAlreadyExists, 409},
		{"unknown", errors.New("boom"), 500},
	}

	for _, tc := range cases {
		if got := statusFor(t, tc.err); got != tc.want {
			t.Fatalf("%s: expected status %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestHandleAPIErrorWrappedError(t *testing.T) {
	err := apperrors.NewCustomError(apperrors.ErrNotParticipant, "user is not a participant of this chat")
	if got := statusFor(t, err); got != 400 {
		t.Fatalf("expected status 400 for wrapped error, got %d", got)
	}
}
