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

	"cennygrosz/internal/config"
	"cennygrosz/internal/database"
	"cennygrosz/internal/events"
	"cennygrosz/internal/llm"
	"cennygrosz/internal/logger"
	"cennygrosz/internal/middleware"
	"cennygrosz/internal/server"
	"cennygrosz/internal/validator"

	"github.com/gin-gonic/gin"
)

// @title           CennyGrosz API
// @version         1.0
// @description     CennyGrosz is a personal and shared budget tracker with wallets, savings goals and an AI assistant.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create database manager
	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	publisher := newPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warnf("event publisher close error: %v", err)
		}
	}()

	validator.Register()

	router := server.NewRouter(server.Deps{
		DB:        dbManager.DB(),
		Tokens:    middleware.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpirationDur),
		Publisher: publisher,
		Generator: newGenerator(cfg),
		AITimeout: cfg.AITimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting CennyGrosz server on port %s", cfg.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newPublisher connects to the broker when AMQP_URL is set. A broker that is
// unreachable at start-up disables events rather than the API.
func newPublisher(cfg *config.Config) events.Publisher {
	if cfg.AMQPURL == "" {
		return events.NewNopPublisher()
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.Get().Warnw("ledger events disabled", "error", err)
		return events.NewNopPublisher()
	}
	logger.Get().Infow("publishing ledger events", "exchange", cfg.AMQPExchange)
	return publisher
}

// newGenerator returns the Gemini client when an API key is configured.
func newGenerator(cfg *config.Config) llm.Generator {
	if cfg.AIAPIKey == "" {
		logger.Get().Warn("AI_API_KEY not set, assistant will answer with the fallback reply")
		return llm.NewUnavailable()
	}
	generator, err := llm.NewGemini(context.Background(), cfg.AIAPIKey, cfg.AIModel)
	if err != nil {
		logger.Get().Warnw("assistant disabled", "error", err)
		return llm.NewUnavailable()
	}
	return generator
}
