package repository

import (
	"context"
	"errors"
	"sync"

	"genai-news/domain"
)

// ErrNoBatch is returned by Latest before the first refresh has completed.
var ErrNoBatch = errors.New("no batch stored yet")

// BatchStore holds the article list readers are served. Replace swaps the
// whole batch; readers never observe a partially written one.
type BatchStore interface {
	Replace(ctx context.Context, batch *domain.Batch) error
	Latest(ctx context.Context) (*domain.Batch, error)
}

// MemoryBatchStore keeps the batch in process memory.
type MemoryBatchStore struct {
	mu    sync.RWMutex
	batch *domain.Batch
}

func NewMemoryBatchStore() *MemoryBatchStore {
	return &MemoryBatchStore{}
}

func (s *MemoryBatchStore) Replace(_ context.Context, batch *domain.Batch) error {
	if batch == nil {
		return errors.New("batch is nil")
	}
	snapshot := cloneBatch(batch)

	s.mu.Lock()
	s.batch = snapshot
	s.mu.Unlock()
	return nil
}

func (s *MemoryBatchStore) Latest(_ context.Context) (*domain.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.batch == nil {
		return nil, ErrNoBatch
	}
	return cloneBatch(s.batch), nil
}

// cloneBatch copies the article slice so callers cannot mutate the stored batch.
func cloneBatch(b *domain.Batch) *domain.Batch {
	c := *b
	c.Articles = append([]domain.Article(nil), b.Articles...)
	if c.Articles == nil {
		c.Articles = []domain.Article{}
	}
	return &c
}
