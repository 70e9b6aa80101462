package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"tourism/internal/config"
	"tourism/internal/database"
	"tourism/internal/modules/booking"
	"tourism/internal/modules/payment"
	"tourism/internal/notification"
	"tourism/internal/pkg/idempotency"
	"tourism/internal/server"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := cfg.NewLogger()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("database migration failed")
	}

	if !cfg.Waafi.Configured() {
		log.Warn("WaafiPay credentials not set; bookings with payer details will fail to charge")
	}
	if cfg.TestChargeCap != nil {
		log.WithField("cap", cfg.TestChargeCap.String()).Warn("payment test charge cap active")
	}
	gateway := payment.NewWaafiGateway(payment.WaafiConfig{
		MerchantUID: cfg.Waafi.MerchantUID,
		APIUserID:   cfg.Waafi.APIUserID,
		APIKey:      cfg.Waafi.APIKey,
		BaseURL:     cfg.Waafi.BaseURL,
		Timeout:     cfg.Waafi.Timeout,
	}, log)

	idem := newIdempotencyStore(cfg, log)

	telegram, err := notification.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramAdminChatID, log)
	if err != nil {
		// notifications are optional
		log.WithError(err).Warn("telegram notifier unavailable")
		telegram = notification.NewNotifier(nil, 0, log)
	}
	defer telegram.Close()

	srv := server.New(server.Deps{
		Config:      cfg,
		DB:          db,
		Log:         log,
		Gateway:     gateway,
		Idempotency: idem,
		Publishers:  []booking.EventPublisher{telegram},
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": httpServer.Addr, "env": cfg.AppEnv}).Info("HTTP server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.WithError(err).Error("http server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	srv.Hub.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	if closer, ok := idem.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server stopped")
}

// newIdempotencyStore prefers Redis so keys survive restarts and are shared
// between instances.
func newIdempotencyStore(cfg *config.Config, log logrus.FieldLogger) idempotency.Store {
	if cfg.RedisURL == "" {
		log.Info("idempotency keys kept in memory")
		return idempotency.NewMemoryStore(cfg.IdempotencyTTL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store, err := idempotency.NewRedisStore(ctx, cfg.RedisURL, cfg.IdempotencyTTL)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, idempotency keys kept in memory")
		return idempotency.NewMemoryStore(cfg.IdempotencyTTL)
	}
	return store
}
