package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	jsonKeyStatus = "status"
	statusOK      = "ok"

	defaultPageSize = 20
	maxPageSize     = 100
)

func okResponse(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{jsonKeyStatus: statusOK})
}

// pagination extracts limit/offset query parameters with sane bounds.
func pagination(c echo.Context) (limit, offset int) {
	limit = intQueryParam(c, "limit", defaultPageSize)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset = intQueryParam(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func intQueryParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return fallback
		}
		v = v*10 + int(r-'0')
	}
	return v
}
