package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AnshRaj112/contact-manager/internal/app"
	"github.com/AnshRaj112/contact-manager/internal/config"
	"github.com/AnshRaj112/contact-manager/internal/database"
	"github.com/AnshRaj112/contact-manager/internal/logger"
	"github.com/AnshRaj112/contact-manager/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "contact manager:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.NewSlog(logger.SlogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	var sessions services.SessionStore
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		log.Info("connecting to redis")
		client, err := database.ConnectRedis(ctx, cfg.RedisURI)
		if err != nil {
			return err
		}
		defer client.Close()
		sessions = services.NewRedisSessionStore(client, cfg.SessionTTL)
	default:
		log.Warn("using in-memory session store; sessions are lost on restart")
		sessions = services.NewMemorySessionStore(cfg.SessionTTL)
	}

	a, err := app.New(cfg, db, sessions, log)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
