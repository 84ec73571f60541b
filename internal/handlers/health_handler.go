package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	journal Pinger
}

// NewHealthHandler creates the health handler. journal may be nil when the
// lead journal is not configured.
func NewHealthHandler(journal Pinger) *HealthHandler {
	return &HealthHandler{
		journal: journal,
	}
}

// Healthcheck reports liveness. An unreachable journal is reported but
// does not fail the check.
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	journal := "disabled"
	if h.journal != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.journal.Ping(ctx); err != nil {
			attachError(c, err)
			journal = "unreachable"
		} else {
			journal = "ok"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"journal": journal,
	})
}
