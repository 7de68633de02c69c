package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"chatwidget/internal/knowledge"
	"chatwidget/internal/models"
	"chatwidget/internal/validation"
)

const topKeywordsLimit = 10

// LookupReader reads query analytics.
type LookupReader interface {
	GetTopKeywords(ctx context.Context, limit int) ([]models.QueryLookup, error)
}

// AdminHandler manages the knowledge base at runtime.
type AdminHandler struct {
	matcher *knowledge.Matcher
	lookups LookupReader
}

// NewAdminHandler creates a new admin handler. lookups may be nil when no
// analytics database is configured.
func NewAdminHandler(matcher *knowledge.Matcher, lookups LookupReader) *AdminHandler {
	return &AdminHandler{matcher: matcher, lookups: lookups}
}

type entryRequest struct {
	Keyword    string   `json:"keyword"`
	Answer     string   `json:"answer"`
	VoiceURL   string   `json:"voiceUrl"`
	Tags       []string `json:"tags"`
	Confidence *float64 `json:"confidence"`
}

// AddEntry handles POST /api/admin/entries. An existing keyword is overwritten.
func (h *AdminHandler) AddEntry(c fiber.Ctx) error {
	var body entryRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if valid, msg := validation.ValidateKeyword(body.Keyword); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if valid, msg := validation.ValidateAnswer(body.Answer); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if valid, msg := validation.ValidateVoiceURL(body.VoiceURL); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	err := h.matcher.AddEntryWithVoice(body.Keyword, body.Answer, body.VoiceURL, body.Tags, body.Confidence)
	switch {
	case errors.Is(err, knowledge.ErrInvalidConfidence):
		return jsonError(c, fiber.StatusBadRequest, "confidence must be in (0, 1]")
	case errors.Is(err, knowledge.ErrInvalidKeyword):
		return jsonError(c, fiber.StatusBadRequest, "invalid keyword")
	case err != nil:
		slog.Error("failed to add knowledge entry", "keyword", body.Keyword, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to add entry")
	}

	entry, _ := h.matcher.KnowledgeBase().Get(body.Keyword)
	return jsonCreated(c, entry)
}

// Keywords handles GET /api/admin/keywords.
func (h *AdminHandler) Keywords(c fiber.Ctx) error {
	return jsonSuccess(c, h.matcher.Keywords())
}

type statsResponse struct {
	Knowledge   knowledge.Stats      `json:"knowledge"`
	TopKeywords []models.QueryLookup `json:"topKeywords,omitempty"`
}

// Stats handles GET /api/admin/stats. Analytics are included when available;
// a failing analytics store does not fail the request.
func (h *AdminHandler) Stats(c fiber.Ctx) error {
	resp := statsResponse{Knowledge: h.matcher.Stats()}

	if h.lookups != nil {
		top, err := h.lookups.GetTopKeywords(c.Context(), topKeywordsLimit)
		if err != nil {
			slog.Warn("failed to load top keywords", "error", err)
		} else {
			resp.TopKeywords = top
		}
	}

	return jsonSuccess(c, resp)
}
