package utils

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/GabeHenrique/ong-connect-api/internal/constants"
	"github.com/gin-gonic/gin"
)

var ErrInvalidID = errors.New("invalid id")

// ListParams holds the query parameters of event listings
type ListParams struct {
	Limit  int
	Search string
}

// GetListParams extracts the listing parameters from the request. A missing,
// malformed or non-positive limit yields 0, meaning no cap.
func GetListParams(c *gin.Context) ListParams {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 0 {
		limit = 0
	}

	search := strings.TrimSpace(c.Query("search"))
	if utf8.RuneCountInString(search) > constants.MaxSearchLength {
		search = string([]rune(search)[:constants.MaxSearchLength])
	}

	return ListParams{
		Limit:  limit,
		Search: search,
	}
}

// ParseIDParam parses a positive numeric path parameter
func ParseIDParam(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
