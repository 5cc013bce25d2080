package server

import (
	"time"

	"github.com/gin-gonic/gin"
)

// timeQuery parses an optional RFC3339 query parameter. A missing parameter
// yields nil; a malformed one is a validation error.
func timeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, ErrInvalidRequest
	}
	return &parsed, nil
}
