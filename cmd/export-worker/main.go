package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/loopcrm/loopcrm-api/internal/config"
	"github.com/loopcrm/loopcrm-api/internal/domain/authz"
	"github.com/loopcrm/loopcrm-api/internal/domain/export"
	"github.com/loopcrm/loopcrm-api/internal/domain/lead"
	"github.com/loopcrm/loopcrm-api/internal/domain/restriction"
	"github.com/loopcrm/loopcrm-api/internal/domain/user"
	"github.com/loopcrm/loopcrm-api/internal/pkg/database"
	"github.com/loopcrm/loopcrm-api/internal/pkg/logger"
	"github.com/loopcrm/loopcrm-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().Msg("Starting export-worker")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	exportStorage, err := storage.NewS3Storage(storage.Config{
		S3Endpoint:  cfg.S3Endpoint,
		S3Region:    cfg.S3Region,
		S3AccessKey: cfg.S3AccessKey,
		S3SecretKey: cfg.S3SecretKey,
		S3Bucket:    cfg.S3Bucket,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create export storage")
	}

	userRepo := user.NewRepository(db)
	restrictionRepo := restriction.NewRepository(db)
	restrictionService := restriction.NewService(restrictionRepo, userRepo, nil)
	resolver := authz.NewResolver(userRepo, restrictionService)

	leadRepo := lead.NewRepository(db)
	leadService := lead.NewService(leadRepo, resolver, nil)

	exportRepo := export.NewRepository(db)
	exportService := export.NewService(exportRepo, leadService, exportStorage, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wake := make(chan struct{}, 1)
	go subscribeWakeups(ctx, rdb, wake)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		log.Info().Msg("Shutdown signal received")
		cancel()
	}()

	ticker := time.NewTicker(cfg.ExportPollInterval)
	defer ticker.Stop()
	lastIdleLog := time.Time{}
	idleLogEvery := time.Minute

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("export-worker stopped")
			return
		case <-wake:
			// immediate poll
		case <-ticker.C:
		}

		// Drain the queue before going back to sleep.
		for {
			claimed, err := exportService.RunNext(ctx)
			if err != nil {
				log.Error().Err(err).Msg("DB error while claiming export job")
				break
			}
			if !claimed {
				now := time.Now()
				if lastIdleLog.IsZero() || now.Sub(lastIdleLog) >= idleLogEvery {
					log.Info().Msg("Idle: no pending export jobs")
					lastIdleLog = now
				}
				break
			}
		}
	}
}

func subscribeWakeups(ctx context.Context, rdb *redis.Client, wake chan<- struct{}) {
	sub := rdb.Subscribe(ctx, export.QueueChannel)
	defer func() { _ = sub.Close() }()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Channel():
			select {
			case wake <- struct{}{}:
			default:
			}
		}
	}
}
