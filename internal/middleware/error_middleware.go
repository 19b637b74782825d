package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to HTTP responses. Not-found sentinels
// become 404, rule violations (non-participant senders included) 400,
// permission failures 403, credential failures 401, duplicate email 409,
// everything else a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrMaterialNotFound),
		errors.Is(err, apperrors.ErrTradeNotFound),
		errors.Is(err, apperrors.ErrChatNotFound),
		errors.Is(err, apperrors.ErrMessageNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())))

	case errors.Is(err, apperrors.ErrSelfTrade),
		errors.Is(err, apperrors.ErrSelfChat),
		errors.Is(err, apperrors.ErrMaterialUnavailable),
		errors.Is(err, apperrors.ErrDonorNotOwner),
		errors.Is(err, apperrors.ErrNotParticipant),
		errors.Is(err, apperrors.ErrEmptyUpdate),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(400, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))

	case errors.Is(err, apperrors.ErrTradeCompleted),
		errors.Is(err, apperrors.ErrChatInactive),
		errors.Is(err, apperrors.ErrMaterialHasTrades),
		errors.Is(err, apperrors.ErrConflict):
		c.JSON(400, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeConflict, err.Error())))

	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error())))

	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrAccountDisabled):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")))

	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")))

	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")))

	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		c.JSON(409, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already exists")))

	default:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		errorDetail = errorDetail.WithDetails(err.Error())
		c.JSON(500, dto.NewErrorResponse(errorDetail))
	}
}
