package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"chatwidget/internal/answers"
	"chatwidget/internal/config"
	"chatwidget/internal/db"
	"chatwidget/internal/handlers/api"
	"chatwidget/internal/jobs"
	"chatwidget/internal/knowledge"
	"chatwidget/internal/metrics"
	"chatwidget/internal/server"
	"chatwidget/internal/validation"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	level := slog.LevelInfo
	if cfg.IsDev() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load knowledge base
	kb, err := knowledge.Load(cfg.KnowledgeFile)
	if err != nil {
		log.Fatalf("Failed to load knowledge base: %v", err)
	}
	log.Printf("Knowledge base loaded with %d entries", kb.Len())
	matcher := knowledge.NewMatcher(kb, knowledge.WithLogger(slog.Default()))

	// Optional analytics database
	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Migrations completed successfully")

		if err := metrics.Init(database); err != nil {
			log.Fatalf("Failed to initialize metrics: %v", err)
		}
		defer metrics.Shutdown()
	} else {
		log.Println("DATABASE_URL not set, query analytics disabled")
	}

	// Answer source
	if cfg.Source() == config.SourceRemote {
		if valid, msg := validation.ValidateURL(cfg.DBAPIBase); !valid {
			log.Fatalf("Invalid DB_API_BASE: %s", msg)
		}
	}
	source, err := answers.New(cfg, matcher)
	if err != nil {
		log.Fatalf("Failed to initialize answer source: %v", err)
	}
	log.Printf("Answering from %s source", source.Name())

	var upstream api.UpstreamStatusProvider
	if remote, ok := source.(*answers.RemoteSource); ok {
		checker := jobs.NewUpstreamChecker(remote, cfg.UpstreamCheckInterval)
		go checker.Start(ctx)
		upstream = checker
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(server.Deps{
		Matcher:  matcher,
		Source:   source,
		Upstream: upstream,
		DB:       database,
	})

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
