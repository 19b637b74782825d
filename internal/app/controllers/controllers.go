package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/circularis/backend/internal/app/models/dto"
)

// parseIDParam reads a positive numeric path parameter. On failure it writes
// the 400 response itself and reports false.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		errorDetail = errorDetail.WithDetails(name + " must be a positive number").WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// queryInt64 reads an optional numeric query parameter
func queryInt64(ctx *gin.Context, name string) *int64 {
	raw := ctx.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &value
}

// queryBool reads an optional boolean query parameter
func queryBool(ctx *gin.Context, name string) *bool {
	raw := ctx.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

// queryString reads an optional string query parameter
func queryString(ctx *gin.Context, name string) *string {
	raw := ctx.Query(name)
	if raw == "" {
		return nil
	}
	return &raw
}
