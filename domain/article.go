package domain

import (
	"time"
)

// Article is a translated news article served to readers.
type Article struct {
	ID                string    `json:"id" db:"id"`
	Title             string    `json:"title" db:"title"`
	OriginalContent   string    `json:"original_content" db:"original_content"`
	TranslatedContent string    `json:"translated_content" db:"translated_content"`
	Summary           string    `json:"summary" db:"summary"`
	PublishedAt       time.Time `json:"published_at" db:"published_at"`
	Source            string    `json:"source" db:"source"`
	URL               string    `json:"url" db:"url"`
	ImageURL          string    `json:"image_url,omitempty" db:"image_url"`
}

// SearchResult is a single news hit returned by the search service.
// Source, Date and Thumbnail may be empty.
type SearchResult struct {
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
	Link      string `json:"link"`
	Source    string `json:"source,omitempty"`
	Date      string `json:"date,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Batch is the complete set of articles produced by one refresh.
// A new batch always replaces the previous one as a whole.
type Batch struct {
	Articles    []Article `json:"articles"`
	GeneratedAt time.Time `json:"generated_at"`
	Fallback    bool      `json:"fallback"`
	Error       string    `json:"error,omitempty"`
}

// UnknownSource labels articles whose search result carried no source.
const UnknownSource = "Unknown"
