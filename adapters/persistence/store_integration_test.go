package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/portfolio-cms/internal/domain/notice"
	"github.com/khoahotran/portfolio-cms/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

// StoreIntegrationTestSuite runs against live services named by
// TEST_DB_DSN and TEST_REDIS_ADDR. Each half is skipped when its variable is
// unset.
type StoreIntegrationTestSuite struct {
	suite.Suite
	dbPool     *pgxpool.Pool
	rdb        *redis.Client
	testLogger logger.Logger
	slot       string
}

func (s *StoreIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	s.testLogger = logger.NewNopLogger()
	s.slot = "test-" + uuid.NewString()

	if dsn := os.Getenv("TEST_DB_DSN"); dsn != "" {
		if err := RunMigrations(dsn, "file://../../migrations", s.testLogger); err != nil {
			s.T().Fatalf("Failed to run migrations: %s", err)
		}
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			s.T().Fatalf("Failed to create pgxpool: %s", err)
		}
		s.dbPool = pool
	}

	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		s.rdb = redis.NewClient(&redis.Options{Addr: addr})
		if err := s.rdb.Ping(ctx).Err(); err != nil {
			s.T().Fatalf("Failed to reach redis: %s", err)
		}
	}
}

func (s *StoreIntegrationTestSuite) TearDownSuite() {
	ctx := context.Background()
	if s.dbPool != nil {
		s.dbPool.Exec(ctx, `DELETE FROM portfolio_snapshots WHERE slot = $1`, s.slot)
		s.dbPool.Close()
	}
	if s.rdb != nil {
		s.rdb.Del(ctx, s.slot)
		s.rdb.Close()
	}
}

func TestStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	if os.Getenv("TEST_DB_DSN") == "" && os.Getenv("TEST_REDIS_ADDR") == "" {
		t.Skip("Skipping integration test: TEST_DB_DSN and TEST_REDIS_ADDR not set.")
	}
	suite.Run(t, new(StoreIntegrationTestSuite))
}

func (s *StoreIntegrationTestSuite) roundTrip(store portfolio.SnapshotStore) {
	ctx := context.Background()

	s.NoError(store.Clear(ctx))
	data, err := store.Load(ctx)
	s.NoError(err)
	s.Nil(data)

	s.NoError(store.Save(ctx, []byte(`{"name":"Alex"}`)))
	s.NoError(store.Save(ctx, []byte(`{"name":"Sam"}`)))
	data, err = store.Load(ctx)
	s.NoError(err)
	s.JSONEq(`{"name":"Sam"}`, string(data))

	s.ErrorIs(store.Save(ctx, make([]byte, 1024)), portfolio.ErrQuotaExceeded)

	s.NoError(store.Clear(ctx))
	data, err = store.Load(ctx)
	s.NoError(err)
	s.Nil(data)
}

func (s *StoreIntegrationTestSuite) Test_PostgresSnapshotStore() {
	if s.dbPool == nil {
		s.T().Skip("TEST_DB_DSN not set")
	}
	s.roundTrip(NewPostgresSnapshotStore(s.dbPool, s.slot, 512))
}

func (s *StoreIntegrationTestSuite) Test_RedisSnapshotStore() {
	if s.rdb == nil {
		s.T().Skip("TEST_REDIS_ADDR not set")
	}
	s.roundTrip(NewRedisSnapshotStore(s.rdb, s.slot, 512))
}

func (s *StoreIntegrationTestSuite) Test_SyncLog_AppendIsIdempotent() {
	if s.dbPool == nil {
		s.T().Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	repo := NewPostgresSyncLogRepo(s.dbPool, s.testLogger)

	n := notice.New(notice.KindSuccess, "profile-image", "portfolio-images", "profile.jpg", "Image uploaded")
	n.CreatedAt = time.Now().UTC().Add(time.Hour)
	s.NoError(repo.Append(ctx, n))
	s.NoError(repo.Append(ctx, n))

	list, err := repo.List(ctx, 1, 0)
	s.NoError(err)
	s.Len(list, 1)
	s.Equal(n.ID, list[0].ID)
	s.Equal(n.Path, list[0].Path)
}
