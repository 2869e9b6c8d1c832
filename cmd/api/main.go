package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ravikanth-ks/whiterabbit/backend/internal/config"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/handler"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/logging"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/model/persona"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/service/ai"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/service/chat"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/service/contact"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "whiterabbit: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if envErr != nil {
		logger.Warn("no .env file loaded, using process environment", zap.Error(envErr))
	}

	personaStore, err := loadPersonas(cfg.Profile)
	if err != nil {
		return err
	}

	generator := newGenerator(ctx, cfg.AI, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	chatService := chat.NewService(personaStore, generator, chat.Options{
		Timeout: cfg.AI.ExchangeTimeout,
		Logger:  logger,
		Metrics: chat.NewMetrics(registry),
	})

	router := handler.NewRouter(handler.Dependencies{
		Personas:       personaStore,
		Chat:           chatService,
		Contact:        contact.NewService(logger),
		Gatherer:       registry,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})

	return startServer(ctx, cfg.Server, router, logger)
}

func loadPersonas(cfg config.ProfileConfig) (persona.Store, error) {
	if cfg.File == "" {
		return persona.NewSeedStore(), nil
	}
	store, err := persona.LoadFile(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return store, nil
}

// newGenerator never fails: without usable credentials every exchange settles
// with the credential fallback instead of taking the server down.
func newGenerator(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) ai.Generator {
	if !cfg.Enabled() {
		logger.Warn("AI credentials not configured, chat replies will report the missing key", zap.String("provider", cfg.Provider))
		return ai.Unconfigured(cfg.Provider)
	}

	generator, err := ai.NewGenerator(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize AI generator", zap.String("provider", cfg.Provider), zap.Error(err))
		return ai.Unconfigured(cfg.Provider)
	}

	logger.Info("AI generator initialized", zap.String("provider", cfg.Provider))
	return generator
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("WhiteRabbit backend listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
