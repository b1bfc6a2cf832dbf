// ABOUTME: Postgres archive of every non-fallback batch
// ABOUTME: Each batch is upserted by article URL inside one transaction
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"genai-news/domain"
)

// PgxIface is the subset of *pgxpool.Pool the archive uses.
type PgxIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Close()
}

const createArchiveTable = `CREATE TABLE IF NOT EXISTS genai_news_articles (
	url                TEXT PRIMARY KEY,
	id                 TEXT NOT NULL,
	title              TEXT NOT NULL,
	original_content   TEXT NOT NULL,
	translated_content TEXT NOT NULL,
	summary            TEXT NOT NULL,
	published_at       TIMESTAMPTZ NOT NULL,
	source             TEXT NOT NULL,
	image_url          TEXT NOT NULL DEFAULT '',
	generated_at       TIMESTAMPTZ NOT NULL
)`

const upsertArchivedArticle = `INSERT INTO genai_news_articles
	(url, id, title, original_content, translated_content, summary, published_at, source, image_url, generated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (url) DO UPDATE SET
	id = EXCLUDED.id,
	title = EXCLUDED.title,
	original_content = EXCLUDED.original_content,
	translated_content = EXCLUDED.translated_content,
	summary = EXCLUDED.summary,
	published_at = EXCLUDED.published_at,
	source = EXCLUDED.source,
	image_url = EXCLUDED.image_url,
	generated_at = EXCLUDED.generated_at`

type ArchiveRepository struct {
	pool   PgxIface
	logger *slog.Logger
}

func NewArchiveRepository(pool PgxIface, logger *slog.Logger) *ArchiveRepository {
	return &ArchiveRepository{pool: pool, logger: logger}
}

// ConnectArchive opens a pgx pool and makes sure the archive table exists.
func ConnectArchive(ctx context.Context, databaseURL string, logger *slog.Logger) (*ArchiveRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open archive pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping archive database: %w", err)
	}

	repo := NewArchiveRepository(pool, logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

func (r *ArchiveRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createArchiveTable); err != nil {
		return fmt.Errorf("create archive table: %w", err)
	}
	return nil
}

// SaveBatch upserts all articles of the batch. Fallback batches are not archived.
func (r *ArchiveRepository) SaveBatch(ctx context.Context, batch *domain.Batch) (err error) {
	if batch == nil || batch.Fallback || len(batch.Articles) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.ErrorContext(ctx, "failed to rollback transaction", "error", rbErr, "original_error", err)
			}
		}
	}()

	for _, a := range batch.Articles {
		if _, err = tx.Exec(ctx, upsertArchivedArticle,
			a.URL, a.ID, a.Title, a.OriginalContent, a.TranslatedContent, a.Summary,
			a.PublishedAt, a.Source, a.ImageURL, batch.GeneratedAt,
		); err != nil {
			return fmt.Errorf("upsert article %s: %w", a.URL, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "batch archived", "articles", len(batch.Articles))
	return nil
}

func (r *ArchiveRepository) Close() {
	r.pool.Close()
}
