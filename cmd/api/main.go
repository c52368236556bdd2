package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/adapter/handler"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/adapter/middleware"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/adapter/storage"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/config"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/engine"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/notifications"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/security"
	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/worker"
)

func main() {
	cfg := config.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Core stores. The ledger and directory are in-memory with demo data;
	// history and idempotency move to Postgres when DATABASE_URL is set.
	ledger := storage.NewLedger()
	directory := storage.NewDirectory()
	storage.Seed(ledger, directory)

	var history storage.HistoryStore = storage.NewMemoryHistory()
	var idemStore middleware.IdempotencyStore = storage.NewMemoryIdempotency()
	if cfg.DatabaseURL != "" {
		dbPool, err := storage.ConnectDB(cfg.DatabaseURL)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		history = storage.NewPostgresHistory(dbPool)
		idemStore = storage.NewPostgresIdempotency(dbPool)
		slog.Info("using postgres-backed history and idempotency stores")
	}

	drafts, err := storage.OpenDraftStore(cfg.DraftDBPath)
	if err != nil {
		slog.Error("failed to open draft store", "error", err, "path", cfg.DraftDBPath)
		os.Exit(1)
	}
	defer drafts.Close()

	keys := storage.NewKeyStore()

	// Webhook delivery runs in the background behind a circuit breaker.
	dispatcher := notifications.NewDispatcher(cfg.WebhookSecret)
	notifier := worker.StartNotifier(cfg.WebhookURL, dispatcher)
	defer notifier.Stop()

	faults := engine.FaultPolicy(engine.NoFaults{})
	if cfg.FaultRate > 0 {
		faults = engine.NewRateFaults(cfg.FaultRate)
		slog.Warn("fault injection enabled", "rate", cfg.FaultRate)
	}

	eng := engine.New(ledger, directory, security.Gate{}, history,
		engine.WithFaultPolicy(faults),
		engine.WithNotifier(notifier),
	)

	accountHandler := &handler.AccountHandler{Ledger: ledger, Keys: keys}
	transferHandler := &handler.TransferHandler{Engine: eng, History: history}
	recipientHandler := &handler.RecipientHandler{Dir: directory}
	draftHandler := &handler.DraftHandler{Store: drafts}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/v1")

	// Public
	api.Get("/accounts/:id", accountHandler.GetAccount)
	api.Get("/users/:id/accounts", accountHandler.ListForUser)
	api.Post("/accounts/:id/keys", accountHandler.GenerateKey)
	api.Get("/recipients", recipientHandler.ListSaved)
	api.Post("/recipients/resolve", recipientHandler.ResolveBank)
	api.Post("/recipients/resolve-mobile", recipientHandler.ResolveMobile)
	api.Get("/drafts/:session", draftHandler.Get)
	api.Put("/drafts/:session", draftHandler.Put)
	api.Delete("/drafts/:session", draftHandler.Clear)

	// Protected
	private := api.Use(middleware.Protected(keys))
	private.Post("/transfers", middleware.Idempotency(idemStore), transferHandler.Create)
	private.Post("/transfers/:id/confirm", middleware.Idempotency(idemStore), transferHandler.Confirm)
	private.Get("/transfers/:id/status", transferHandler.Status)
	private.Post("/transfers/:id/cancel", transferHandler.Cancel)
	private.Get("/transfers", transferHandler.List)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	slog.Info("server exited")
}
