// Package main is the entry point for the sync agent.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/crewhub-app/sync-agent/internal/agent"
	"github.com/crewhub-app/sync-agent/internal/api"
	"github.com/crewhub-app/sync-agent/internal/config"
	"github.com/crewhub-app/sync-agent/internal/events"
	"github.com/crewhub-app/sync-agent/internal/handler"
	"github.com/crewhub-app/sync-agent/internal/middleware"
	"github.com/crewhub-app/sync-agent/internal/model"
	"github.com/crewhub-app/sync-agent/internal/outbox"
	"github.com/crewhub-app/sync-agent/internal/session"
	"github.com/crewhub-app/sync-agent/internal/state"
	"github.com/crewhub-app/sync-agent/pkg/logger"
	"github.com/crewhub-app/sync-agent/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting sync agent")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "crew-sync-agent", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Build the session and log in
	sess := session.New()
	sess.OnExpired(func() {
		log.Warn("session expired, re-authentication required")
	})

	client := api.New(api.Config{
		BaseURL:  cfg.UpstreamURL,
		CSRFPath: cfg.CSRFPath,
		Timeout:  cfg.UpstreamTimeout,
	}, sess, log)

	if cfg.Email == "" || cfg.Password == "" {
		log.Error("AGENT_EMAIL and AGENT_PASSWORD must be set")
		os.Exit(1)
	}
	if _, err := client.Login(ctx, model.Role(cfg.Role), cfg.Email, cfg.Password); err != nil {
		log.Error("login failed", zap.Error(err))
		os.Exit(1)
	}
	log.Info("logged in",
		zap.String("employee_id", sess.EmployeeID()),
		zap.String("role", string(sess.Role())))

	// Connect event fan-out when configured
	var pub events.Publisher = events.Noop{}
	var broker handler.Connectivity
	if cfg.NATSURL != "" {
		natsPub, err := events.Connect(events.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, sess.EmployeeID(), log)
		if err != nil {
			log.Warn("event fan-out disabled", zap.Error(err))
		} else {
			pub = natsPub
			broker = natsPub
		}
	}

	// Assemble the agent
	store := state.New()
	ob := outbox.New(outbox.PublisherFunc(client.CreateNotification),
		cfg.OutboxCapacity, cfg.OutboxMaxRetries, log)
	a := agent.New(cfg, client, store, ob, pub, log)

	agentCtx, stopAgent := context.WithCancel(ctx)
	a.Start(agentCtx)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(sess, broker)
	stateHandler := handler.NewStateHandler(store)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Read-only state snapshots
	r.Route("/api/v1/state", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Get("/profile", stateHandler.Profile)
		r.Get("/onboarding-pages", stateHandler.OnboardingPages)
		r.Get("/training-modules", stateHandler.TrainingModules)
		r.Get("/tickets", stateHandler.Tickets)
		r.Get("/time-off", stateHandler.TimeOff)
		r.Get("/conversations", stateHandler.Conversations)
		r.Get("/conversations/{id}/messages", stateHandler.Messages)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.AgentPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("local surface listening", zap.String("port", cfg.AgentPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down agent")

	// Stop timers first so no fetch lands after the server is gone
	stopAgent()
	a.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("agent stopped")
}
