package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/room-reservation/internal/audit"
	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/logging"
)

// audit-worker drains the reservation audit queue into the audit log file.
func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	if cfg.AMQPURL == "" {
		log.Fatal("RABBITMQ_URL is required")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &audit.Consumer{
		URL:    cfg.AMQPURL,
		Queue:  cfg.AuditQueue,
		Sink:   &audit.FileSink{Path: cfg.AuditLogPath},
		Logger: logger,
	}
	logger.Info("audit worker started", "queue", cfg.AuditQueue, "path", cfg.AuditLogPath)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("audit worker: %v", err)
	}
}
