package server

import (
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chatwidget/internal/answers"
	"chatwidget/internal/db"
	"chatwidget/internal/handlers"
	"chatwidget/internal/handlers/api"
	"chatwidget/internal/knowledge"
	"chatwidget/internal/middleware"
)

// Deps are the components routes are wired to.
type Deps struct {
	Matcher  *knowledge.Matcher
	Source   answers.Source
	Upstream api.UpstreamStatusProvider // nil unless the remote source is active
	DB       *db.DB                     // nil when analytics are disabled
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(deps Deps) {
	var (
		pinger  handlers.Pinger
		lookups api.LookupReader
	)
	if deps.DB != nil {
		pinger = deps.DB
		lookups = deps.DB
	}

	// Initialize handlers
	widgetHandler := handlers.NewWidgetHandler(s.Cfg)
	probeHandler := handlers.NewProbeHandler(pinger)
	healthHandler := api.NewHealthHandler(deps.Source.Name(), deps.Upstream)
	askHandler := api.NewAskHandler(deps.Source, s.Cfg.MaxQueryLength)

	// Probes and metrics
	s.App.Get("/health", healthHandler.Health)
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Widget API
	s.App.Post("/api/ask", s.AskLimiter(), askHandler.Ask)

	// Admin API (only with a token, and only when answers come from the local knowledge base)
	if s.Cfg.IsAdminEnabled() {
		if _, ok := deps.Source.(*answers.MockSource); ok {
			adminAuth := middleware.NewAdminAuth(s.Cfg.AdminToken)
			adminHandler := api.NewAdminHandler(deps.Matcher, lookups)

			admin := s.App.Group("/api/admin", adminAuth.RequireToken)
			admin.Post("/entries", adminHandler.AddEntry)
			admin.Get("/keywords", adminHandler.Keywords)
			admin.Get("/stats", adminHandler.Stats)
		} else {
			log.Println("Admin API disabled: knowledge base is not the active answer source")
		}
	}

	// Frontend
	s.App.Get("/audio/:file", widgetHandler.FakeAudio)
	s.App.Get("/", widgetHandler.Index)

	// Catch-all for client-side routing - must be last
	s.App.Get("/*", widgetHandler.Fallback)
}
