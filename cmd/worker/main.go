package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/adapters/event"
	"github.com/khoahotran/portfolio-cms/adapters/persistence"
	noticeUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/notice"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

func main() {
	fmt.Println("Starting Portfolio CMS Worker...")

	// Configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic(fmt.Sprintf("FATAL: cannot load config: %v", err))
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()
	if err := persistence.RunMigrations(cfg.DB.DSN, cfg.DB.Migrations, appLogger); err != nil {
		appLogger.Fatal("Cannot prepare database schema", err)
	}

	// Repositories
	syncLogRepo := persistence.NewPostgresSyncLogRepo(dbPool, appLogger)

	// Worker Use Case
	recordSyncUC := noticeUC.NewRecordSyncUseCase(syncLogRepo, appLogger)

	// Kafka Consumer
	assetConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicAssetEvents,
		GroupID:  "asset-sync-log-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer assetConsumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicAssetEvents))

	for {
		msg, err := assetConsumer.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		l := appLogger.With(zap.String("topic", msg.Topic), zap.String("key", string(msg.Key)))

		payload, err := event.DecodeAssetEvent(msg.Value)
		if err != nil {
			l.Error("Failed to decode event, skipping", err)
			commitMessage(appLogger, assetConsumer, msg)
			continue
		}

		l.Debug("Processing event", zap.String("event_type", string(payload.EventType)))

		if err := recordSyncUC.Execute(ctx, payload.Notice); err != nil {
			l.Error("Failed to record asset event", err)
			continue
		}

		commitMessage(appLogger, assetConsumer, msg)
	}
}

func commitMessage(log logger.Logger, consumer *kafka.Reader, msg kafka.Message) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
