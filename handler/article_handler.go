package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"genai-news/repository"
	"genai-news/usecase/refresh"
	apperrors "genai-news/utils/errors"
)

// ArticleHandler serves the shared article batch.
type ArticleHandler struct {
	store     BatchReader
	refresher BatchRefresher
	logger    *slog.Logger
}

func NewArticleHandler(store BatchReader, refresher BatchRefresher, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{
		store:     store,
		refresher: refresher,
		logger:    logger,
	}
}

// HandleLatest handles GET /api/v1/articles. It never runs the pipeline.
func (h *ArticleHandler) HandleLatest(c echo.Context) error {
	ctx := c.Request().Context()

	batch, err := h.store.Latest(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoBatch) {
			return apperrors.NewUnavailableContextError(
				"articles are not ready yet", "handler", "ArticleHandler", "HandleLatest", err)
		}
		return apperrors.NewInternalContextError(
			"failed to load articles", "handler", "ArticleHandler", "HandleLatest", err, nil)
	}

	return c.JSON(http.StatusOK, batch)
}

// HandleRefresh handles POST /api/v1/articles/refresh. A pipeline failure still
// answers 200 with the fallback batch; only store or cancellation errors fail.
func (h *ArticleHandler) HandleRefresh(c echo.Context) error {
	ctx := c.Request().Context()

	batch, err := h.refresher.Refresh(ctx, refresh.ReasonManual)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return apperrors.NewTimeoutContextError(
				"refresh did not complete", "handler", "ArticleHandler", "HandleRefresh", err)
		}
		return apperrors.NewUnavailableContextError(
			"refresh failed", "handler", "ArticleHandler", "HandleRefresh", err)
	}

	h.logger.InfoContext(ctx, "manual refresh completed",
		"articles", len(batch.Articles),
		"fallback", batch.Fallback)

	return c.JSON(http.StatusOK, batch)
}
