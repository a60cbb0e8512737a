package routes

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 100
	maxPageSize     = 500

	dateLayout = "2006-01-02"
)

// paramID parses a positive integer path parameter. On failure the request is
// aborted with a 400 and ok is false.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		AbortWithError(c, fmt.Errorf("%w: %s", ErrInvalidParameter, name))
		return 0, false
	}
	return id, true
}

// pagination reads the skip and limit query parameters. Limit is clamped to
// maxPageSize and defaults to defaultPageSize.
func pagination(c *gin.Context) (limit, offset int, ok bool) {
	limit = defaultPageSize
	offset = 0

	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			AbortWithError(c, fmt.Errorf("%w: limit", ErrInvalidParameter))
			return 0, 0, false
		}
		limit = v
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if raw := c.Query("skip"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			AbortWithError(c, fmt.Errorf("%w: skip", ErrInvalidParameter))
			return 0, 0, false
		}
		offset = v
	}

	return limit, offset, true
}

// dateQuery reads an optional YYYY-MM-DD query parameter as a UTC time.
func dateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		AbortWithError(c, fmt.Errorf("%w: %s", ErrInvalidParameter, name))
		return nil, false
	}
	return &t, true
}

// int64Query reads an optional positive integer query parameter.
func int64Query(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		AbortWithError(c, fmt.Errorf("%w: %s", ErrInvalidParameter, name))
		return nil, false
	}
	return &v, true
}
