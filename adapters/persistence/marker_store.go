package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/portfolio-cms/internal/domain/session"
)

const MarkerKey = "admin_auth"

type redisMarkerStore struct {
	rdb *redis.Client
	key string
}

func NewRedisMarkerStore(rdb *redis.Client) session.MarkerStore {
	return &redisMarkerStore{rdb: rdb, key: MarkerKey}
}

func (s *redisMarkerStore) Get(ctx context.Context) (string, error) {
	v, err := s.rdb.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis get marker: %w", err)
	}
	return v, nil
}

func (s *redisMarkerStore) Set(ctx context.Context, value string) error {
	if err := s.rdb.Set(ctx, s.key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set marker: %w", err)
	}
	return nil
}

func (s *redisMarkerStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del marker: %w", err)
	}
	return nil
}

type memoryMarkerStore struct {
	mu    sync.Mutex
	value string
}

func NewMemoryMarkerStore() session.MarkerStore {
	return &memoryMarkerStore{}
}

func (s *memoryMarkerStore) Get(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, nil
}

func (s *memoryMarkerStore) Set(_ context.Context, value string) error {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
	return nil
}

func (s *memoryMarkerStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.value = ""
	s.mu.Unlock()
	return nil
}
