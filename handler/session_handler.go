package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"genai-news/auth"
	"genai-news/middleware"
	apperrors "genai-news/utils/errors"
)

// SessionResponse acknowledges a published session change.
type SessionResponse struct {
	Status string `json:"status"`
	UserID string `json:"user_id,omitempty"`
}

// SessionHandler turns authenticated API calls into auth state changes.
type SessionHandler struct {
	publisher SessionPublisher
	logger    *slog.Logger
}

func NewSessionHandler(publisher SessionPublisher, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{publisher: publisher, logger: logger}
}

// HandleSignIn handles POST /api/v1/session. The route must sit behind RequireJWT.
func (h *SessionHandler) HandleSignIn(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return apperrors.NewUnauthorizedContextError(
			"no authenticated user", "handler", "SessionHandler", "HandleSignIn", nil)
	}

	h.publisher.Publish(auth.AuthState{User: user})
	h.logger.InfoContext(ctx, "session published", "user_id", user.ID)

	return c.JSON(http.StatusAccepted, SessionResponse{Status: "signed_in", UserID: user.ID})
}

// HandleSignOut handles DELETE /api/v1/session.
func (h *SessionHandler) HandleSignOut(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return apperrors.NewUnauthorizedContextError(
			"no authenticated user", "handler", "SessionHandler", "HandleSignOut", nil)
	}

	h.publisher.Publish(auth.AuthState{})
	h.logger.InfoContext(ctx, "session cleared", "user_id", user.ID)

	return c.JSON(http.StatusAccepted, SessionResponse{Status: "signed_out"})
}
