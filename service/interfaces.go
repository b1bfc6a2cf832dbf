package service

import (
	"context"

	"genai-news/domain"
)

//go:generate mockgen -source=interfaces.go -destination=../test/mocks/service_mocks.go -package=mocks

// SearchClient runs a news search for a single query.
type SearchClient interface {
	SearchNews(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}

// ContentExtractor fetches a page and returns its readable text.
type ContentExtractor interface {
	ExtractFromURL(ctx context.Context, url string) (string, error)
}

// TextGenerator calls the hosted text-generation model.
type TextGenerator interface {
	GenerateText(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResponse, error)
}

// FailureJournal persists per-item failures for later inspection.
type FailureJournal interface {
	Record(ctx context.Context, failure domain.ItemFailure) error
}

// FailureRecorder counts per-item failures.
type FailureRecorder interface {
	RecordItemFailure(stage string)
}
