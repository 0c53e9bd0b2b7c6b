package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"gatepass-service/internal/config"
	"gatepass-service/internal/middleware"
	"gatepass-service/internal/operators"
	"gatepass-service/internal/scoring"
	"gatepass-service/internal/tracking"
	"gatepass-service/internal/trips"
	"gatepass-service/migrations"
	"gatepass-service/pkg/auth"
	"gatepass-service/pkg/db"
	"gatepass-service/pkg/kafka"
	"gatepass-service/pkg/qr"
	rredis "gatepass-service/pkg/redis"
	"gatepass-service/pkg/token"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── 1. Configuration ──
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	// ── 2. PostgreSQL ──
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("postgres", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.RunMigrations(ctx, migrations.FS); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// ── 3. Redis ──
	redisClient, err := rredis.NewClient(cfg.RedisAddr)
	if err != nil {
		slog.Error("redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// ── 4. Kafka ──
	kafkaClient := kafka.NewClient(cfg.KafkaBrokers)
	if err := kafkaClient.EnsureTopics(ctx,
		kafka.TopicGatepassIssued,
		kafka.TopicGatepassVerified,
		kafka.TopicGatepassDenied,
	); err != nil {
		slog.Error("kafka", "error", err)
		os.Exit(1)
	}

	// ── 5. Auth and codec ──
	operatorAuth, err := auth.New([]byte(cfg.AuthSecret), 24*time.Hour)
	if err != nil {
		slog.Error("auth", "error", err)
		os.Exit(1)
	}
	codec := token.New([]byte(cfg.GatepassSecret), cfg.TokenTTL)

	// ── 6. WebSocket hub ──
	wsHub := tracking.NewHub()

	// ── 7. Services ──
	tripStore := trips.NewPostgresStore(database.Pool)
	tripSvc := trips.NewService(trips.ServiceConfig{
		Store:             tripStore,
		Codec:             codec,
		QR:                qr.Default(),
		Denylist:          redisClient,
		Locations:         redisClient,
		Events:            kafkaClient,
		Hub:               wsHub,
		PoliceAccessToken: cfg.PoliceAccessToken,
		StrictDocDates:    cfg.StrictDocDates,
	})
	operatorSvc := operators.NewService(operators.NewPostgresStore(database.Pool), operatorAuth)

	// ── 8. Background consumers ──
	scorer := scoring.NewScorer(kafkaClient, tripStore)
	scorer.Start(ctx)

	// ── 9. HTTP router ──
	tripHandler := trips.NewHandler(tripSvc, operatorAuth)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(operatorAuth.OptionalAuth)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"gatepass-service"}`))
	})

	r.Mount("/operators", operators.NewHandler(operatorSvc, operatorAuth).Routes())
	r.Mount("/trips", tripHandler.Routes())
	r.Post("/verify", tripHandler.Verify)
	r.Mount("/ws", wsHub.Routes())

	// ── 10. Start server ──
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		slog.Info("gatepass-service listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server", "error", err)
			os.Exit(1)
		}
	}()

	// ── 11. Graceful shutdown ──
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	srv.Shutdown(shutCtx)
	cancel() // stop consumers
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
