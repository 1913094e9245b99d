// Command server starts the back-office HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Kiretori/Affineur-des-Alpes/internal/config"
	"github.com/Kiretori/Affineur-des-Alpes/internal/limiter"
	"github.com/Kiretori/Affineur-des-Alpes/internal/migrate"
	"github.com/Kiretori/Affineur-des-Alpes/internal/repository/postgres"
	"github.com/Kiretori/Affineur-des-Alpes/internal/server/web"
	"github.com/Kiretori/Affineur-des-Alpes/internal/service"
	"github.com/Kiretori/Affineur-des-Alpes/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and starts the HTTP server.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("pgxpool.New", zap.Error(err))
	}
	defer pool.Close()

	// Repositories
	db := &postgres.DB{Pool: pool}
	userRepo := postgres.NewUserRepo(db)
	storeRepo := postgres.NewStoreRepo(db)
	productRepo := postgres.NewProductRepo(db)
	promotionRepo := postgres.NewPromotionRepo(db)
	clientRepo := postgres.NewClientRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	stockRepo := postgres.NewStockRepo(db)

	lim := limiter.NewPG(pool, 15*time.Minute, 5, 15*time.Minute)

	// Services
	issuer := token.NewIssuer(cfg.SecretKey, cfg.TokenTTL)
	authSvc := service.NewAuthService(userRepo, issuer, lim)

	app := web.New(web.Deps{
		Auth:       authSvc,
		Tokens:     issuer,
		Stores:     storeRepo,
		Products:   productRepo,
		Promotions: promotionRepo,
		Clients:    clientRepo,
		Orders:     orderRepo,
		Stock:      stockRepo,
		Pinger:     pool,
		Logger:     logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
