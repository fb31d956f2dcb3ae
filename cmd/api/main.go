package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nextday/internal/config"
	"nextday/internal/database"
	"nextday/internal/logging"
	"nextday/internal/metrics"
	"nextday/internal/repositories"
	"nextday/internal/routes"
	"nextday/internal/services"
)

// リセットトークンと期限切れセッションの掃除間隔
const cleanupInterval = time.Hour

func main() {
	cfg, err := config.LoadServer(".env")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mailer := services.NewSMTPMailer(cfg.SMTP, logger)
	r := routes.SetupRouter(db, cfg, logger, metrics.NewCollector("nextday"), mailer)

	go cleanupLoop(ctx, "reset tokens", repositories.NewSQLResetTokenRepo(db).CleanupExpired, logger)
	go cleanupLoop(ctx, "sessions", repositories.NewSessionRepository(db).CleanupExpired, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// cleanupLoop は期限切れの行を定期的に削除します。
func cleanupLoop(ctx context.Context, name string, cleanup func(context.Context) (int64, error), logger *zap.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := cleanup(ctx)
			if err != nil {
				logger.Warn("cleanup failed", zap.String("table", name), zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("expired rows cleaned up", zap.String("table", name), zap.Int64("deleted", n))
			}
		}
	}
}
