package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/portfolio-cms/internal/domain/portfolio"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func checkQuota(data []byte, max int) error {
	if max > 0 && len(data) > max {
		return fmt.Errorf("%w: %d bytes, limit %d", portfolio.ErrQuotaExceeded, len(data), max)
	}
	return nil
}

type redisSnapshotStore struct {
	rdb      *redis.Client
	key      string
	maxBytes int
}

func NewRedisSnapshotStore(rdb *redis.Client, key string, maxBytes int) portfolio.SnapshotStore {
	return &redisSnapshotStore{rdb: rdb, key: key, maxBytes: maxBytes}
}

func (s *redisSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get snapshot: %w", err)
	}
	return data, nil
}

func (s *redisSnapshotStore) Save(ctx context.Context, data []byte) error {
	if err := checkQuota(data, s.maxBytes); err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	return nil
}

func (s *redisSnapshotStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del snapshot: %w", err)
	}
	return nil
}

type postgresSnapshotStore struct {
	db       *pgxpool.Pool
	slot     string
	maxBytes int
}

func NewPostgresSnapshotStore(db *pgxpool.Pool, slot string, maxBytes int) portfolio.SnapshotStore {
	return &postgresSnapshotStore{db: db, slot: slot, maxBytes: maxBytes}
}

func (s *postgresSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	query, args, err := psql.Select("data").
		From("portfolio_snapshots").
		Where(sq.Eq{"slot": s.slot}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load snapshot query: %w", err)
	}

	var data []byte
	if err := s.db.QueryRow(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	return data, nil
}

func (s *postgresSnapshotStore) Save(ctx context.Context, data []byte) error {
	if err := checkQuota(data, s.maxBytes); err != nil {
		return err
	}
	query, args, err := psql.Insert("portfolio_snapshots").
		Columns("slot", "data", "updated_at").
		Values(s.slot, string(data), sq.Expr("now()")).
		Suffix("ON CONFLICT (slot) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build save snapshot query: %w", err)
	}
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *postgresSnapshotStore) Clear(ctx context.Context) error {
	query, args, err := psql.Delete("portfolio_snapshots").
		Where(sq.Eq{"slot": s.slot}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear snapshot query: %w", err)
	}
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// memorySnapshotStore keeps the slot in process memory. It backs local-only
// mode and tests.
type memorySnapshotStore struct {
	mu       sync.Mutex
	data     []byte
	maxBytes int
}

func NewMemorySnapshotStore(maxBytes int) portfolio.SnapshotStore {
	return &memorySnapshotStore{maxBytes: maxBytes}
}

func (s *memorySnapshotStore) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, nil
	}
	return append([]byte(nil), s.data...), nil
}

func (s *memorySnapshotStore) Save(_ context.Context, data []byte) error {
	if err := checkQuota(data, s.maxBytes); err != nil {
		return err
	}
	s.mu.Lock()
	s.data = append([]byte(nil), data...)
	s.mu.Unlock()
	return nil
}

func (s *memorySnapshotStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}
