// ABOUTME: This file implements the rate-limited news aggregation pipeline
// ABOUTME: Sequential search, dedupe, cap, optional extraction, and Japanese translation with fixed pacing
package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"genai-news/config"
	"genai-news/domain"
	"genai-news/retry"
)

const translationPromptTemplate = `You are a professional news translator. Translate the following article into natural Japanese.

Rules:
- Translate the complete text. Do not summarize, shorten, or omit any part of it.
- If the text is already written in Japanese, return it exactly as it is.
- Output only the translated text, without any preface, notes, or explanation.

Article:
%s`

var tracer = otel.Tracer("genai-news/service")

type AggregatorOption func(*NewsAggregator)

// WithJournal records per-item failures in journal.
func WithJournal(journal FailureJournal) AggregatorOption {
	return func(a *NewsAggregator) {
		a.journal = journal
	}
}

func WithFailureRecorder(recorder FailureRecorder) AggregatorOption {
	return func(a *NewsAggregator) {
		a.failures = recorder
	}
}

// WithPacing overrides how the pipeline waits between calls.
func WithPacing(sleep retry.SleepFunc) AggregatorOption {
	return func(a *NewsAggregator) {
		a.sleep = sleep
	}
}

func WithAggregatorClock(now func() time.Time) AggregatorOption {
	return func(a *NewsAggregator) {
		a.now = now
	}
}

func WithIDGenerator(newID func() string) AggregatorOption {
	return func(a *NewsAggregator) {
		a.newID = newID
	}
}

// NewsAggregator turns the configured search queries into translated articles.
// Every external call goes through the retrier and all work is strictly sequential.
type NewsAggregator struct {
	cfg       config.PipelineConfig
	search    SearchClient
	extractor ContentExtractor
	generator TextGenerator
	retrier   *retry.Retrier
	journal   FailureJournal
	failures  FailureRecorder
	logger    *slog.Logger
	sleep     retry.SleepFunc
	now       func() time.Time
	newID     func() string
}

func NewNewsAggregator(
	cfg config.PipelineConfig,
	search SearchClient,
	extractor ContentExtractor,
	generator TextGenerator,
	retrier *retry.Retrier,
	logger *slog.Logger,
	opts ...AggregatorOption,
) *NewsAggregator {
	a := &NewsAggregator{
		cfg:       cfg,
		search:    search,
		extractor: extractor,
		generator: generator,
		retrier:   retrier,
		logger:    logger,
		sleep:     retry.SleepContext,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate runs the pipeline once. A returned error is a pipeline-level
// failure; per-item failures are logged, journaled and skipped.
func (a *NewsAggregator) Aggregate(ctx context.Context) (articles []domain.Article, err error) {
	ctx, span := tracer.Start(ctx, "NewsAggregator.Aggregate")
	defer span.End()

	start := a.now()
	defer func() {
		if r := recover(); r != nil {
			a.logger.ErrorContext(ctx, "pipeline panicked",
				"panic", r,
				"stack", string(debug.Stack()))
			articles = nil
			err = fmt.Errorf("%w: %v", domain.ErrPipelinePanic, r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if len(a.cfg.Queries) == 0 {
		return nil, domain.ErrEmptyQueryList
	}

	a.logger.InfoContext(ctx, "pipeline started", "queries", len(a.cfg.Queries))

	results, err := a.collect(ctx)
	if err != nil {
		return nil, err
	}

	unique := DedupeByLink(results)
	capped := CapResults(unique, a.cfg.MaxArticles)
	span.SetAttributes(
		attribute.Int("pipeline.results", len(results)),
		attribute.Int("pipeline.unique", len(unique)),
		attribute.Int("pipeline.processed", len(capped)),
	)

	a.logger.InfoContext(ctx, "search results merged",
		"total", len(results),
		"unique", len(unique),
		"processing", len(capped))

	articles = make([]domain.Article, 0, len(capped))
	for i, result := range capped {
		if i > 0 {
			if err := a.sleep(ctx, a.cfg.ArticleDelay); err != nil {
				return nil, fmt.Errorf("pipeline cancelled: %w", err)
			}
		}

		article, err := a.safeProcess(ctx, i, result)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("pipeline cancelled: %w", ctxErr)
			}
			a.reportFailure(ctx, domain.ItemFailure{
				Stage: domain.StageArticle,
				URL:   result.Link,
				Title: result.Title,
			}, err)
			continue
		}
		articles = append(articles, *article)
	}

	a.logger.InfoContext(ctx, "pipeline completed",
		"articles", len(articles),
		"duration_ms", a.now().Sub(start).Milliseconds())

	return articles, nil
}

// collect runs every query in order. A failed query is skipped.
func (a *NewsAggregator) collect(ctx context.Context) ([]domain.SearchResult, error) {
	var all []domain.SearchResult

	for i, query := range a.cfg.Queries {
		if i > 0 {
			if err := a.sleep(ctx, a.cfg.QueryDelay); err != nil {
				return nil, fmt.Errorf("pipeline cancelled: %w", err)
			}
		}

		results, err := retry.Run(ctx, a.retrier, "search", func(ctx context.Context) ([]domain.SearchResult, error) {
			return a.search.SearchNews(ctx, query, a.cfg.ResultsPerQuery)
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("pipeline cancelled: %w", ctxErr)
			}
			a.reportFailure(ctx, domain.ItemFailure{Stage: domain.StageQuery, Query: query}, err)
			continue
		}

		if len(results) > a.cfg.ResultsPerQuery {
			results = results[:a.cfg.ResultsPerQuery]
		}

		a.logger.DebugContext(ctx, "query returned results", "query", query, "count", len(results))

		for _, result := range results {
			if strings.TrimSpace(result.Link) == "" {
				a.reportFailure(ctx, domain.ItemFailure{
					Stage: domain.StageQuery,
					Query: query,
					Title: result.Title,
				}, domain.ErrSearchResultMissingLink)
				continue
			}
			all = append(all, result)
		}
	}

	return all, nil
}

func (a *NewsAggregator) safeProcess(ctx context.Context, index int, result domain.SearchResult) (article *domain.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.ErrorContext(ctx, "article processing panicked",
				"url", result.Link,
				"panic", r,
				"stack", string(debug.Stack()))
			article = nil
			err = fmt.Errorf("article processing panicked: %v", r)
		}
	}()

	return a.processResult(ctx, index, result)
}

func (a *NewsAggregator) processResult(ctx context.Context, index int, result domain.SearchResult) (*domain.Article, error) {
	ctx, span := tracer.Start(ctx, "NewsAggregator.processResult")
	defer span.End()
	span.SetAttributes(attribute.Int("article.index", index), attribute.String("article.url", result.Link))

	body := strings.TrimSpace(result.Snippet)

	if utf8.RuneCountInString(body) < a.cfg.ShortBodyThreshold && index < a.cfg.ExtractionEligible {
		extracted, err := retry.Run(ctx, a.retrier, "extract", func(ctx context.Context) (string, error) {
			return a.extractor.ExtractFromURL(ctx, result.Link)
		})
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, err
			}
			a.reportFailure(ctx, domain.ItemFailure{
				Stage: domain.StageExtraction,
				URL:   result.Link,
				Title: result.Title,
			}, err)
		case utf8.RuneCountInString(extracted) > a.cfg.ExtractedMinLength:
			body = TruncateRunes(extracted, a.cfg.ExtractedMaxLength)
		default:
			a.logger.DebugContext(ctx, "extracted content too short, keeping snippet",
				"url", result.Link,
				"length", utf8.RuneCountInString(extracted))
		}
	}

	translated := ""
	if utf8.RuneCountInString(body) > a.cfg.TranslateMinLength {
		if err := a.sleep(ctx, a.cfg.TranslationDelay); err != nil {
			return nil, err
		}

		text, err := a.translate(ctx, body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			a.reportFailure(ctx, domain.ItemFailure{
				Stage: domain.StageTranslation,
				URL:   result.Link,
				Title: result.Title,
			}, err)
			text = a.cfg.TranslationFailureMarker
		}
		translated = text
	}

	source := strings.TrimSpace(result.Source)
	if source == "" {
		source = domain.UnknownSource
	}

	return &domain.Article{
		ID:                a.newID(),
		Title:             strings.TrimSpace(result.Title),
		OriginalContent:   body,
		TranslatedContent: translated,
		Summary:           "",
		PublishedAt:       a.publishedAt(result.Date),
		Source:            source,
		URL:               result.Link,
		ImageURL:          result.Thumbnail,
	}, nil
}

func (a *NewsAggregator) translate(ctx context.Context, body string) (string, error) {
	resp, err := retry.Run(ctx, a.retrier, "translate", func(ctx context.Context) (*domain.GenerationResponse, error) {
		return a.generator.GenerateText(ctx, domain.GenerationRequest{
			Prompt:    fmt.Sprintf(translationPromptTemplate, body),
			MaxTokens: a.cfg.TranslationMaxTokens,
		})
	})
	if err != nil {
		return "", err
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return "", domain.ErrEmptyTranslation
	}
	return strings.TrimSpace(resp.Text), nil
}

func (a *NewsAggregator) publishedAt(raw string) time.Time {
	if t, ok := ParsePublishedDate(raw); ok {
		return t
	}
	return a.now()
}

func (a *NewsAggregator) reportFailure(ctx context.Context, failure domain.ItemFailure, err error) {
	failure.ID = a.newID()
	failure.Error = err.Error()
	failure.RateLimited = domain.IsRateLimited(err)
	failure.OccurredAt = a.now()

	a.logger.WarnContext(ctx, "pipeline item failed",
		"stage", failure.Stage,
		"query", failure.Query,
		"url", failure.URL,
		"rate_limited", failure.RateLimited,
		"error", err)

	if a.failures != nil {
		a.failures.RecordItemFailure(string(failure.Stage))
	}

	if a.journal != nil {
		// the journal write must not be lost because the pipeline is winding down
		if jerr := a.journal.Record(context.WithoutCancel(ctx), failure); jerr != nil {
			a.logger.ErrorContext(ctx, "failed to journal item failure",
				"stage", failure.Stage,
				"error", jerr)
		}
	}
}

// DedupeByLink keeps the first result for every link, preserving order.
func DedupeByLink(results []domain.SearchResult) []domain.SearchResult {
	seen := make(map[string]struct{}, len(results))
	unique := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if _, ok := seen[r.Link]; ok {
			continue
		}
		seen[r.Link] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}

// CapResults drops everything after the first limit results.
func CapResults(results []domain.SearchResult, limit int) []domain.SearchResult {
	if limit < 0 {
		limit = 0
	}
	if len(results) <= limit {
		return results
	}
	return results[:limit]
}

// TruncateRunes returns at most n runes of s without splitting a rune.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

var publishedDateLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"01/02/2006, 03:04 PM, -0700 MST",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParsePublishedDate understands the date formats the search providers emit.
func ParsePublishedDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
