// ABOUTME: Runs one aggregation and publishes the resulting batch
// ABOUTME: Pipeline failures publish the fallback batch; concurrent calls share one run
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"genai-news/domain"
	"genai-news/metrics"
	"genai-news/repository"
)

// FallbackMessage is shown to readers when the sample articles are served.
const FallbackMessage = "最新ニュースの取得に失敗しました。サンプル記事を表示しています。"

// Reasons a refresh was started.
const (
	ReasonSchedule = "schedule"
	ReasonStartup  = "startup"
	ReasonAuth     = "auth"
	ReasonManual   = "manual"
	ReasonCLI      = "cli"
)

type Aggregator interface {
	Aggregate(ctx context.Context) ([]domain.Article, error)
}

type FallbackSource interface {
	Articles() []domain.Article
}

type Archiver interface {
	SaveBatch(ctx context.Context, batch *domain.Batch) error
}

type Recorder interface {
	RecordRefresh(reason, status string, articles int, duration float64)
}

type Option func(*Refresher)

func WithArchive(archive Archiver) Option {
	return func(r *Refresher) { r.archive = archive }
}

func WithRecorder(recorder Recorder) Option {
	return func(r *Refresher) { r.recorder = recorder }
}

func WithClock(now func() time.Time) Option {
	return func(r *Refresher) { r.now = now }
}

// WithLifetime bounds every run by ctx, usually the process or server
// lifetime. Callers that stop waiting do not cancel a run.
func WithLifetime(ctx context.Context) Option {
	return func(r *Refresher) { r.lifetime = ctx }
}

type Refresher struct {
	aggregator Aggregator
	fallback   FallbackSource
	store      repository.BatchStore
	archive    Archiver
	recorder   Recorder
	logger     *slog.Logger
	now        func() time.Time
	lifetime   context.Context
	group      singleflight.Group
}

func NewRefresher(aggregator Aggregator, fallback FallbackSource, store repository.BatchStore, logger *slog.Logger, opts ...Option) *Refresher {
	r := &Refresher{
		aggregator: aggregator,
		fallback:   fallback,
		store:      store,
		logger:     logger,
		now:        time.Now,
		lifetime:   context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh produces and stores a new batch. Callers arriving while a refresh
// is in flight wait for it and receive the same batch.
//
// The run keeps the first caller's context values but not its cancellation:
// it ends only when it finishes or the lifetime context is done. A caller
// whose ctx ends stops waiting and gets an error; the others still receive
// the batch.
//
// The returned error is non-nil only when nothing was published for this
// caller: the lifetime or caller context ended, or the store rejected the
// batch. A pipeline failure is not an error here, it yields the fallback batch.
func (r *Refresher) Refresh(ctx context.Context, reason string) (*domain.Batch, error) {
	ch := r.group.DoChan("refresh", func() (any, error) {
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()
		stop := context.AfterFunc(r.lifetime, cancel)
		defer stop()

		return r.run(runCtx, reason)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			r.logger.InfoContext(ctx, "refresh coalesced with in-flight run", "reason", reason)
		}
		return res.Val.(*domain.Batch), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("refresh cancelled: %w", ctx.Err())
	}
}

func (r *Refresher) run(ctx context.Context, reason string) (*domain.Batch, error) {
	start := r.now()
	r.logger.InfoContext(ctx, "refresh started", "reason", reason)

	articles, err := r.aggregator.Aggregate(ctx)
	if err != nil && ctx.Err() != nil {
		// shutting down; keep serving the previous batch
		r.record(reason, metrics.StatusError, 0, start)
		r.logger.WarnContext(ctx, "refresh cancelled", "reason", reason, "error", err)
		return nil, fmt.Errorf("refresh cancelled: %w", err)
	}

	batch := &domain.Batch{
		Articles:    articles,
		GeneratedAt: r.now(),
	}
	status := metrics.StatusSuccess

	if err != nil {
		r.logger.ErrorContext(ctx, "pipeline failed, serving fallback articles",
			"reason", reason,
			"error", err,
			"empty_query_list", errors.Is(err, domain.ErrEmptyQueryList),
			"panic", errors.Is(err, domain.ErrPipelinePanic))

		batch.Articles = r.fallback.Articles()
		batch.Fallback = true
		batch.Error = FallbackMessage
		status = metrics.StatusFallback
	}
	if batch.Articles == nil {
		batch.Articles = []domain.Article{}
	}

	if err := r.store.Replace(ctx, batch); err != nil {
		r.record(reason, metrics.StatusError, 0, start)
		r.logger.ErrorContext(ctx, "failed to store batch", "reason", reason, "error", err)
		return nil, fmt.Errorf("store batch: %w", err)
	}

	if r.archive != nil && !batch.Fallback {
		if err := r.archive.SaveBatch(ctx, batch); err != nil {
			// the batch is already served; archiving is best effort
			r.logger.ErrorContext(ctx, "failed to archive batch", "reason", reason, "error", err)
		}
	}

	r.record(reason, status, len(batch.Articles), start)
	r.logger.InfoContext(ctx, "refresh completed",
		"reason", reason,
		"status", status,
		"articles", len(batch.Articles),
		"duration_ms", r.now().Sub(start).Milliseconds())

	return batch, nil
}

func (r *Refresher) record(reason, status string, articles int, start time.Time) {
	if r.recorder == nil {
		return
	}
	r.recorder.RecordRefresh(reason, status, articles, r.now().Sub(start).Seconds())
}
