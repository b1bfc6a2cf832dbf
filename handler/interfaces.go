package handler

//go:generate mockgen -source=interfaces.go -destination=../test/mocks/handler_mocks.go -package=mocks

import (
	"context"

	"genai-news/auth"
	"genai-news/domain"
)

// BatchReader serves the most recently stored batch.
type BatchReader interface {
	Latest(ctx context.Context) (*domain.Batch, error)
}

// BatchRefresher runs the pipeline and stores the resulting batch.
type BatchRefresher interface {
	Refresh(ctx context.Context, reason string) (*domain.Batch, error)
}

// SessionPublisher announces authentication state changes.
type SessionPublisher interface {
	Publish(state auth.AuthState)
}
