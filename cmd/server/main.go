package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/adapters/event"
	httpAdapter "github.com/khoahotran/portfolio-cms/adapters/http"
	"github.com/khoahotran/portfolio-cms/adapters/media_storage"
	"github.com/khoahotran/portfolio-cms/adapters/persistence"
	"github.com/khoahotran/portfolio-cms/internal/application/service"
	assetUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/asset"
	authUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/auth"
	backupUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/backup"
	"github.com/khoahotran/portfolio-cms/internal/application/usecase/content"
	feedUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/feed"
	noticeUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/notice"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/internal/domain/notice"
	"github.com/khoahotran/portfolio-cms/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-cms/internal/domain/session"
	"github.com/khoahotran/portfolio-cms/pkg/auth"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
	"github.com/khoahotran/portfolio-cms/pkg/metrics"
	"github.com/khoahotran/portfolio-cms/pkg/tracing"
)

func main() {
	fmt.Println("Start Portfolio CMS API Server...")

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic(fmt.Sprintf("FATAL: cannot load config: %v", err))
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	tp, err := tracing.NewTracerProvider(cfg, appLogger)
	if err != nil {
		appLogger.Warn("Tracing unavailable, continue without it", zap.Error(err))
	}
	if tp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				appLogger.Error("Failed to shutdown tracer provider", err)
			}
		}()
	}

	recorder, err := metrics.NewRecorder("portfolio", prometheus.DefaultRegisterer)
	if err != nil {
		appLogger.Fatal("Cannot register metrics", err)
	}

	ctx := context.Background()

	// Optional backends. Each one missing degrades to an in-memory equivalent.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		if redisClient, err = persistence.NewRedisClient(ctx, cfg, appLogger); err != nil {
			appLogger.Warn("Redis unavailable, use memory stores", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var dbPool *pgxpool.Pool
	if cfg.DB.DSN != "" {
		if dbPool, err = persistence.NewPostgresPool(ctx, cfg, appLogger); err != nil {
			appLogger.Warn("Postgres unavailable, sync log disabled", zap.Error(err))
			dbPool = nil
		} else {
			defer dbPool.Close()
			if err := persistence.RunMigrations(cfg.DB.DSN, cfg.DB.Migrations, appLogger); err != nil {
				appLogger.Fatal("Cannot prepare database schema", err)
			}
		}
	}

	var kafkaClient *event.KafkaProducerClient
	if len(cfg.Kafka.Brokers) > 0 {
		if kafkaClient, err = event.NewKafkaProducerClient(cfg, appLogger); err != nil {
			appLogger.Warn("Kafka unavailable, asset events stay local", zap.Error(err))
			kafkaClient = nil
		} else {
			defer kafkaClient.Close()
		}
	}

	// Repositories
	slot := newSnapshotStore(cfg, redisClient, dbPool, appLogger)
	markers := newMarkerStore(cfg, redisClient, appLogger)
	var syncLogRepo notice.Repository
	if dbPool != nil {
		syncLogRepo = persistence.NewPostgresSyncLogRepo(dbPool, appLogger)
	}

	// Services
	buckets := service.Buckets{
		Images:    cfg.Storage.ImageBucket,
		CV:        cfg.Storage.CVBucket,
		Documents: cfg.Storage.DocumentsBucket,
	}
	gateway := media_storage.Observe(media_storage.NewStorageGateway(cfg, appLogger), recorder)
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	creds, err := authUC.ResolveCredentials(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.PasswordHash)
	if err != nil {
		appLogger.Warn("Admin login disabled", zap.Error(err))
	}

	// Notices go to the in-process feed and, when available, to Kafka for the
	// worker. Without Kafka the sync log is written directly.
	feed := noticeUC.NewFeed(cfg.Assets.NoticeHistory)
	var publishers []notice.Publisher
	publishers = append(publishers, feed)
	switch {
	case kafkaClient != nil:
		publishers = append(publishers, kafkaClient)
	case syncLogRepo != nil:
		publishers = append(publishers, notice.PublisherFunc(noticeUC.NewRecordSyncUseCase(syncLogRepo, appLogger).Execute))
	}
	fanOut := noticeUC.NewFanOut(appLogger, publishers...)

	// Use Cases
	store := content.NewStore(content.Options{
		Slot:     slot,
		Gateway:  gateway,
		Buckets:  buckets,
		Recorder: recorder,
	}, appLogger)
	_, outcome := store.RestoreFromCache(ctx)
	appLogger.Info("Profile loaded", zap.String("outcome", string(outcome)))

	guard := authUC.NewGuard(creds, markers, jwtSvc, recorder, appLogger)
	state := guard.Restore(ctx)
	appLogger.Info("Admin session restored", zap.String("state", string(state)))

	ingestor := assetUC.NewIngestor(assetUC.IngestOptions{
		PublicBaseURL:     cfg.App.PublicBaseURL,
		MaxBytes:          cfg.Assets.MaxUploadBytes,
		TransientTTL:      cfg.Assets.TransientTTL,
		TransientCapacity: cfg.Assets.TransientCapacity,
	})
	syncer := assetUC.NewSyncer(gateway, fanOut, cfg.Storage.UploadTimeout, appLogger)
	deps := assetUC.Deps{Ingestor: ingestor, Store: store, Syncer: syncer, Buckets: buckets}

	// HTTP Handlers
	handlers := httpAdapter.Handlers{
		Auth:     httpAdapter.NewAuthHandler(guard, appLogger),
		Profile:  httpAdapter.NewProfileHandler(store, appLogger),
		Project:  httpAdapter.NewProjectHandler(store, appLogger),
		Document: httpAdapter.NewDocumentHandler(store, appLogger),
		Media: httpAdapter.NewMediaHandler(
			ingestor,
			assetUC.NewReplaceProfileImageUseCase(deps),
			assetUC.NewReplaceResumeUseCase(deps),
			assetUC.NewReplaceProjectImageUseCase(deps),
			assetUC.NewReplaceDocumentFileUseCase(deps),
			appLogger,
		),
		Notice: httpAdapter.NewNoticeHandler(feed, noticeUC.NewListSyncLogUseCase(syncLogRepo), gateway, buckets, appLogger),
		RSS:    httpAdapter.NewRSSHandler(feedUC.NewRSSUseCase(store, cfg.App.PublicBaseURL, appLogger), appLogger),
		Backup: httpAdapter.NewBackupHandler(backupUC.NewBackupUseCase(store, gateway, buckets.Documents, appLogger), appLogger),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(handlers, guard, httpAdapter.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Gatherer:       prometheus.DefaultGatherer,
	}, appLogger)

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	if err := syncer.Wait(shutdownCtx); err != nil {
		appLogger.Warn("Pending asset uploads cancelled", zap.Error(err))
	}
	appLogger.Info("Server exited")
}

func newSnapshotStore(cfg config.Config, rdb *redis.Client, db *pgxpool.Pool, log logger.Logger) portfolio.SnapshotStore {
	if !cfg.Content.Persist {
		log.Info("Profile persistence disabled, edits last for this process only")
		return nil
	}
	maxBytes := cfg.Content.MaxSnapshotBytes
	switch cfg.Content.Store {
	case "postgres":
		if db != nil {
			return persistence.NewPostgresSnapshotStore(db, cfg.Content.SnapshotKey, maxBytes)
		}
	case "redis":
		if rdb != nil {
			return persistence.NewRedisSnapshotStore(rdb, cfg.Content.SnapshotKey, maxBytes)
		}
	case "memory":
		return persistence.NewMemorySnapshotStore(maxBytes)
	}
	log.Warn("Configured snapshot store unavailable, use memory", zap.String("store", cfg.Content.Store))
	return persistence.NewMemorySnapshotStore(maxBytes)
}

func newMarkerStore(cfg config.Config, rdb *redis.Client, log logger.Logger) session.MarkerStore {
	if cfg.Admin.MarkerStore == "redis" && rdb != nil {
		return persistence.NewRedisMarkerStore(rdb)
	}
	if cfg.Admin.MarkerStore != "memory" {
		log.Warn("Configured marker store unavailable, use memory", zap.String("store", cfg.Admin.MarkerStore))
	}
	return persistence.NewMemoryMarkerStore()
}
