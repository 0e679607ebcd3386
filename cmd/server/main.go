package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"brandintel-backend-go/internal/config"
	"brandintel-backend-go/internal/db"
	httpapi "brandintel-backend-go/internal/http"
	"brandintel-backend-go/internal/logging"
	"brandintel-backend-go/internal/migrations"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, closeLogs, err := logging.Setup(logging.Options{
		Level:         cfg.LogLevel,
		Format:        cfg.LogFormat,
		Dir:           cfg.LogDir,
		RetentionDays: cfg.LogRetentionDays,
	})
	if err != nil {
		logger.WithError(err).Warn("file logging disabled")
	}
	defer closeLogs()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL, cfg.DatabaseKey)
	if err != nil {
		logger.WithError(err).Fatal("db")
	}
	defer database.Close()

	if err := migrations.Apply(ctx, database, cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migrations")
	}

	server, err := httpapi.NewServer(database, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("server config")
	}
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":        cfg.Addr(),
			"environment": cfg.Environment,
			"fanout_mode": server.Fanout,
		}).Info("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	logger.Info("shutdown complete")
}
