package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/reward_ledger/internal/core/services"
	"github.com/SscSPs/reward_ledger/internal/handlers"
	"github.com/SscSPs/reward_ledger/internal/jobs"
	"github.com/SscSPs/reward_ledger/internal/middleware"
	"github.com/SscSPs/reward_ledger/internal/notifier"
	"github.com/SscSPs/reward_ledger/internal/platform/config"
	"github.com/SscSPs/reward_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/reward_ledger/internal/utils"
	"github.com/SscSPs/reward_ledger/migrations"
	"github.com/SscSPs/reward_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Reward Ledger API
// @version 1.0
// @description Balances, earnings and withdrawals of the Telegram mini-app.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := middleware.RegisterValidators(); err != nil {
		return err
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, migrations.FS, logger); err != nil {
		return err
	}
	if err := jobs.Migrate(ctx, dbPool, logger); err != nil {
		return err
	}

	var sender jobs.Sender = notifier.NoopSender{Logger: logger}
	if cfg.TelegramBotToken != "" {
		tg, err := notifier.NewTelegramSender(cfg.TelegramBotToken, logger)
		if err != nil {
			return err
		}
		sender = tg
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN not set, withdrawal notifications are dropped")
	}

	riverClient, err := jobs.NewClient(dbPool, sender, cfg.CurrencyExponent, cfg.RiverMaxWorkers, logger)
	if err != nil {
		return err
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	container, err := services.NewServiceContainer(cfg, repos, jobs.NewEnqueuer(riverClient, logger))
	if err != nil {
		return err
	}
	if err := container.Auth.EnsureBootstrapAdmin(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
		return err
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", handlers.ReplayedHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.PosthogMiddleware(posthogClient),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}
	if err := handlers.RegisterRoutes(r, cfg, container); err != nil {
		return err
	}

	if err := riverClient.Start(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}
	if err := riverClient.Stop(shutdownCtx); err != nil {
		logger.Error("River client stop failed", slog.String("error", err.Error()))
	}
	logger.Info("Server stopped")
	return nil
}
