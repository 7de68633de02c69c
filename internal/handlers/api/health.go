package api

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"chatwidget/internal/models"
)

// UpstreamStatusProvider reports the last known state of the answer API.
type UpstreamStatusProvider interface {
	Status() models.UpstreamStatus
}

// HealthHandler serves the widget health endpoint.
type HealthHandler struct {
	source   string
	upstream UpstreamStatusProvider
}

// NewHealthHandler creates a new health handler. upstream may be nil when
// no external API is configured.
func NewHealthHandler(source string, upstream UpstreamStatusProvider) *HealthHandler {
	return &HealthHandler{source: source, upstream: upstream}
}

// Health handles GET /health. It always answers ok while the process is up;
// upstream state is informational.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	resp := models.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Source:    h.source,
	}
	if h.upstream != nil {
		st := h.upstream.Status()
		resp.Upstream = &st
	}
	return c.JSON(resp)
}
