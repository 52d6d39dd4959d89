package main

import (
	"context"
	"fmt"

	"talent-marketplace-backend/config"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/internal/repository/postgres"
	"talent-marketplace-backend/internal/worker"
	"talent-marketplace-backend/pkg/database"
	"talent-marketplace-backend/pkg/email"
	"talent-marketplace-backend/pkg/logger"
	"talent-marketplace-backend/pkg/redis"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const sweepLockKey = "marketplace:mail-sweep"

// app holds what both subcommands need: config, logger, pool and the dispatcher.
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	db         *pgxpool.Pool
	mails      domain.MailRepository
	dispatcher *worker.MailDispatcher
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := logger.Init(cfg.LogJSON, cfg.LogDebug); err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}
	log := logger.Log
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	db, err := database.NewPostgresConnection(ctx, database.PoolConfig{
		URL:          cfg.DBUrl,
		MaxConns:     cfg.DBMaxConns,
		MinConns:     cfg.DBMinConns,
		ConnectRetry: cfg.DBConnectRetry,
	}, log)
	if err != nil {
		return nil, err
	}

	var lock worker.SweepLock
	if cfg.RedisURL != "" {
		client, err := redis.Initialize(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			log.Warn("redis unavailable, sweep lock disabled", zap.Error(err))
		} else {
			lock = redis.NewLock(client, sweepLockKey, cfg.MailSweepLockTTL)
		}
	}

	sender := email.NewSMTPSender(cfg)
	if !sender.IsConfigured() {
		log.Warn("SMTP not fully configured; queued mails will keep failing until it is")
	}

	mails := postgres.NewMailRepository(db)
	dispatcher := worker.NewMailDispatcher(mails, sender, cfg.MailRetryInterval, cfg.MailMaxAttempts, lock, log)

	return &app{cfg: cfg, log: log, db: db, mails: mails, dispatcher: dispatcher}, nil
}

func (a *app) Close() {
	a.db.Close()
	if err := redis.Close(); err != nil {
		a.log.Warn("closing redis", zap.Error(err))
	}
	_ = a.log.Sync()
}
