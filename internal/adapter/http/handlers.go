package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const pingTimeout = 2 * time.Second

// Handler serves operational endpoints. ping may be nil.
type Handler struct {
	ping func(ctx context.Context) error
}

func NewHandler(ping func(ctx context.Context) error) *Handler { return &Handler{ping: ping} }

// Health reports 503 when the database does not answer.
func (h *Handler) Health(c echo.Context) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status": "unavailable",
				"time":   now,
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   now,
	})
}
