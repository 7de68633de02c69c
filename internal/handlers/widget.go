package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"chatwidget/internal/config"
)

// WidgetHandler serves the chat widget page.
type WidgetHandler struct {
	cfg *config.Config
}

// NewWidgetHandler creates a new widget handler.
func NewWidgetHandler(cfg *config.Config) *WidgetHandler {
	return &WidgetHandler{cfg: cfg}
}

// Index renders the widget page.
func (h *WidgetHandler) Index(c fiber.Ctx) error {
	return c.Render("index", fiber.Map{
		"Title":          h.cfg.SiteTitle,
		"MaxQueryLength": h.cfg.MaxQueryLength,
		"Source":         h.cfg.Source(),
	})
}

// Fallback renders the widget page for unknown GET paths so client-side
// routes load the app. Unknown API paths stay 404.
func (h *WidgetHandler) Fallback(c fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") {
		return fiber.ErrNotFound
	}
	return h.Index(c)
}

// FakeAudio answers requests for the demo generator's audio URLs. No clips
// are bundled, so every request is a 404.
func (h *WidgetHandler) FakeAudio(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status": "error",
		"error":  "Audio file not found",
	})
}
