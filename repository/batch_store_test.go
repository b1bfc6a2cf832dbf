package repository

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genai-news/domain"
)

func sampleBatch(fallback bool, ids ...string) *domain.Batch {
	articles := make([]domain.Article, 0, len(ids))
	for _, id := range ids {
		articles = append(articles, domain.Article{
			ID:                id,
			Title:             "title " + id,
			OriginalContent:   "original " + id,
			TranslatedContent: "翻訳 " + id,
			Summary:           "summary " + id,
			PublishedAt:       time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
			Source:            "Example",
			URL:               "https://news.example.com/" + id,
		})
	}
	return &domain.Batch{
		Articles:    articles,
		GeneratedAt: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		Fallback:    fallback,
	}
}

func newMiniredisStore(t *testing.T) (*RedisBatchStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisBatchStore(client, "genai-news:batch:test", time.Second)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestBatchStores(t *testing.T) {
	stores := map[string]func(t *testing.T) BatchStore{
		"memory": func(t *testing.T) BatchStore { return NewMemoryBatchStore() },
		"redis": func(t *testing.T) BatchStore {
			store, _ := newMiniredisStore(t)
			return store
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			_, err := store.Latest(ctx)
			assert.ErrorIs(t, err, ErrNoBatch)

			first := sampleBatch(false, "a1", "a2")
			require.NoError(t, store.Replace(ctx, first))

			got, err := store.Latest(ctx)
			require.NoError(t, err)
			assert.Equal(t, first, got)

			second := sampleBatch(true, "sample-1")
			second.Error = "no search queries configured"
			require.NoError(t, store.Replace(ctx, second))

			got, err = store.Latest(ctx)
			require.NoError(t, err)
			assert.Equal(t, second, got)
			assert.Len(t, got.Articles, 1, "replace swaps the whole batch")

			assert.Error(t, store.Replace(ctx, nil))
		})
	}
}

func TestMemoryBatchStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBatchStore()

	batch := sampleBatch(false, "a1")
	require.NoError(t, store.Replace(ctx, batch))

	batch.Articles[0].Title = "mutated by producer"
	got, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "title a1", got.Articles[0].Title)

	got.Articles[0].Title = "mutated by reader"
	again, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "title a1", again.Articles[0].Title)
}

func TestMemoryBatchStore_EmptyArticles(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBatchStore()

	require.NoError(t, store.Replace(ctx, &domain.Batch{}))
	got, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got.Articles)
	assert.Empty(t, got.Articles)
}

func TestMemoryBatchStore_ConcurrentReadersSeeWholeBatches(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBatchStore()
	require.NoError(t, store.Replace(ctx, sampleBatch(false, "a1", "a2", "a3")))

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_ = store.Replace(ctx, sampleBatch(true, "sample-1", "sample-2", "sample-3"))
			} else {
				_ = store.Replace(ctx, sampleBatch(false, "a1", "a2", "a3"))
			}
		}()
		go func() {
			defer wg.Done()
			got, err := store.Latest(ctx)
			if assert.NoError(t, err) {
				assert.Len(t, got.Articles, 3)
				for _, a := range got.Articles {
					assert.Equal(t, got.Fallback, strings.HasPrefix(a.ID, "sample-"), "articles from two batches were mixed")
				}
			}
		}()
	}
	wg.Wait()
}

func TestRedisBatchStore_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt payload", func(t *testing.T) {
		store, mr := newMiniredisStore(t)
		require.NoError(t, mr.Set("genai-news:batch:test", "{not json"))

		_, err := store.Latest(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoBatch)
	})

	t.Run("server down", func(t *testing.T) {
		store, mr := newMiniredisStore(t)
		mr.Close()

		assert.Error(t, store.Replace(ctx, sampleBatch(false, "a1")))
		_, err := store.Latest(ctx)
		assert.Error(t, err)
		assert.Error(t, store.Ping(ctx))
	})
}

func TestNewRedisBatchStoreWithURL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := NewRedisBatchStoreWithURL(context.Background(), "redis://"+mr.Addr()+"/0", "k", time.Second)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = NewRedisBatchStoreWithURL(context.Background(), "://bad", "k", time.Second)
	assert.Error(t, err)
}
