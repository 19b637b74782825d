package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ParseLimitOffset extracts and validates limit/offset query parameters.
// A missing or invalid limit falls back to DefaultLimit; offset defaults to 0.
func ParseLimitOffset(c *gin.Context) (limit, offset int) {
	limitStr := c.DefaultQuery("limit", strconv.Itoa(DefaultLimit))
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}

	offsetStr := c.DefaultQuery("offset", "0")
	offset, err = strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		offset = 0
	}

	return limit, offset
}

// NormalizeLimitOffset clamps limit/offset values coming from service callers.
func NormalizeLimitOffset(limit, offset int) (int, int) {
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
