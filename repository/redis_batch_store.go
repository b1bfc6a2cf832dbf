package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"genai-news/domain"
)

// RedisBatchStore shares the batch between replicas. The batch is stored as
// one JSON value so a single SET replaces it atomically.
type RedisBatchStore struct {
	client  *redis.Client
	key     string
	timeout time.Duration
}

func NewRedisBatchStore(client *redis.Client, key string, timeout time.Duration) *RedisBatchStore {
	return &RedisBatchStore{client: client, key: key, timeout: timeout}
}

// NewRedisBatchStoreWithURL parses a redis:// URL and pings the server.
func NewRedisBatchStoreWithURL(ctx context.Context, url, key string, timeout time.Duration) (*RedisBatchStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	store := NewRedisBatchStore(redis.NewClient(opts), key, timeout)
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func (s *RedisBatchStore) Replace(ctx context.Context, batch *domain.Batch) error {
	if batch == nil {
		return errors.New("batch is nil")
	}

	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("store batch: %w", err)
	}
	return nil
}

func (s *RedisBatchStore) Latest(ctx context.Context) (*domain.Batch, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoBatch
	}
	if err != nil {
		return nil, fmt.Errorf("load batch: %w", err)
	}

	var batch domain.Batch
	if err := json.Unmarshal(payload, &batch); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	if batch.Articles == nil {
		batch.Articles = []domain.Article{}
	}
	return &batch, nil
}

func (s *RedisBatchStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

func (s *RedisBatchStore) Close() error {
	return s.client.Close()
}

func (s *RedisBatchStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
