package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	"genai-news/auth"
	apperrors "genai-news/utils/errors"
)

type userContextKey struct{}

type TokenVerifier interface {
	Verify(token string) (*auth.User, error)
}

// RequireJWT rejects requests without a valid bearer token and stores the
// verified user in the request context.
func RequireJWT(verifier TokenVerifier, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := verifier.Verify(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				msg := "invalid token"
				switch {
				case errors.Is(err, auth.ErrMissingToken):
					msg = "missing token"
				case errors.Is(err, auth.ErrInvalidIssuer), errors.Is(err, auth.ErrInvalidAudience):
					msg = "invalid token issuer or audience"
				case errors.Is(err, auth.ErrSecretNotConfigured):
					logger.ErrorContext(c.Request().Context(), "token secret not configured, denying request")
					msg = "authentication unavailable"
				}
				return apperrors.NewUnauthorizedContextError(msg, "middleware", "RequireJWT", "Verify", err)
			}

			ctx := context.WithValue(c.Request().Context(), userContextKey{}, user)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// UserFromContext returns the user stored by RequireJWT.
func UserFromContext(ctx context.Context) (*auth.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*auth.User)
	return user, ok && user != nil
}
