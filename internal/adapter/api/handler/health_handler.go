package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// SessionCounter reports how many user sessions are live.
type SessionCounter interface {
	Len() int
}

type HealthHandler struct {
	sessions SessionCounter
}

func NewHealthHandler(sessions SessionCounter) *HealthHandler {
	return &HealthHandler{
		sessions: sessions,
	}
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"time":     time.Now().Format(time.RFC3339),
		"sessions": h.sessions.Len(),
	})
}
