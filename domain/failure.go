package domain

import (
	"time"
)

// FailureStage names the pipeline step where a per-item failure happened.
type FailureStage string

const (
	StageQuery       FailureStage = "query"
	StageExtraction  FailureStage = "extraction"
	StageTranslation FailureStage = "translation"
	StageArticle     FailureStage = "article"
)

// ItemFailure describes one skipped or degraded pipeline item.
type ItemFailure struct {
	ID          string       `json:"id"`
	Stage       FailureStage `json:"stage"`
	Query       string       `json:"query,omitempty"`
	URL         string       `json:"url,omitempty"`
	Title       string       `json:"title,omitempty"`
	Error       string       `json:"error"`
	RateLimited bool         `json:"rate_limited"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

// GenerationRequest is a single text generation call.
type GenerationRequest struct {
	Prompt    string
	MaxTokens int
}

type GenerationResponse struct {
	Text string
}
