package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"

	"chatwidget/internal/answers"
	"chatwidget/internal/knowledge"
	"chatwidget/internal/metrics"
	"chatwidget/internal/models"
	"chatwidget/internal/validation"
)

const sessionKey = "widget_session_id"

// Ask request status labels for metrics.
const (
	askStatusOK      = "ok"
	askStatusInvalid = "invalid"
	askStatusError   = "error"
)

// AskHandler answers widget queries from the configured source.
type AskHandler struct {
	source         answers.Source
	maxQueryLength int
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(source answers.Source, maxQueryLength int) *AskHandler {
	return &AskHandler{source: source, maxQueryLength: maxQueryLength}
}

// Ask handles POST /api/ask. Successful answers are returned unwrapped so the
// widget can read them directly.
func (h *AskHandler) Ask(c fiber.Ctx) error {
	var body models.AskRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return h.reject(c, "invalid request body")
	}

	q := knowledge.ParseQuery(body.Query)
	if !q.Valid() {
		return h.reject(c, "Query is required and must be a non-empty string")
	}
	if valid, msg := validation.ValidateQuery(q.Text(), h.maxQueryLength); !valid {
		return h.reject(c, msg)
	}

	query := strings.TrimSpace(q.Text())
	name := h.source.Name()

	answer, err := h.source.Search(c.Context(), query)
	if err != nil {
		status, message := errorResponse(err)
		slog.Error("answer lookup failed", "source", name, "error", err)
		metrics.RecordQueryLookup(models.OutcomeError, models.OutcomeError)
		metrics.ObserveAsk(name, askStatusError)
		return jsonError(c, status, message)
	}

	keyword, outcome := answers.Outcome(name, answer)
	metrics.RecordQueryLookup(keyword, outcome)
	metrics.ObserveAsk(name, askStatusOK)

	resp := models.NormalizeAnswer(answer, name)
	resp.SessionID = sessionID(c, body.SessionID)
	return c.JSON(resp)
}

func (h *AskHandler) reject(c fiber.Ctx, message string) error {
	metrics.RecordQueryLookup(models.OutcomeInvalid, models.OutcomeInvalid)
	metrics.ObserveAsk(h.source.Name(), askStatusInvalid)
	return jsonError(c, fiber.StatusBadRequest, message)
}

// errorResponse maps a source failure to the status and message the widget sees.
func errorResponse(err error) (int, string) {
	var ue *answers.UpstreamError
	switch {
	case errors.As(err, &ue):
		return ue.HTTPStatus(), ue.Message()
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusRequestTimeout, "Request timeout. Please try again."
	default:
		return fiber.StatusInternalServerError, "Internal server error. Please try again later."
	}
}

// sessionID returns the client-supplied session id, falling back to one kept
// in the cookie session, minting it on first use.
func sessionID(c fiber.Ctx, fromBody string) string {
	if id := strings.TrimSpace(fromBody); id != "" {
		return id
	}

	sess := session.FromContext(c)
	if sess == nil {
		return uuid.NewString()
	}
	if id, ok := sess.Get(sessionKey).(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	sess.Set(sessionKey, id)
	return id
}
