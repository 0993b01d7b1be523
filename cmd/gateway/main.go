// cmd/gateway/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"credx-gateway/internal/common/config"
	"credx-gateway/internal/common/logger"
	"credx-gateway/internal/common/observability"
	"credx-gateway/internal/intake"
	"credx-gateway/internal/scoring"
	"credx-gateway/internal/server"
	"credx-gateway/internal/session"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")
	bootLog.Info("Starting intake gateway...")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	jaegerEndpoint := ""
	if cfg.Tracing.Enabled {
		jaegerEndpoint = cfg.Tracing.JaegerEndpoint
	}
	obs := observability.New(cfg.App.Name, jaegerEndpoint)
	defer obs.Shutdown()

	// --- Session store with retry ---
	sessions := session.NewStore(cfg.Session)
	err = retryWithBackoff(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return sessions.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Session store connection")
	if err != nil {
		zapLog.Fatal("session store failed after retries", zap.Error(err))
	}
	defer sessions.Close()
	zapLog.Info("Session store connected successfully")

	// --- Scoring client ---
	scorer, err := scoring.NewClient(
		cfg.Scoring.BaseURL,
		time.Duration(cfg.Scoring.TimeoutMS)*time.Millisecond,
		log,
		obs,
	)
	if err != nil {
		zapLog.Fatal("scoring client init failed", zap.Error(err))
	}
	zapLog.Info("Scoring client ready", zap.String("baseUrl", cfg.Scoring.BaseURL))

	ctrl := intake.NewController(scorer, log)
	srv := server.New(cfg, ctrl, sessions, log)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		zapLog.Fatal("server failed", zap.Error(err))
	case sig := <-quit:
		zapLog.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
}
