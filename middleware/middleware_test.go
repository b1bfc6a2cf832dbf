package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genai-news/auth"
	apperrors "genai-news/utils/errors"
	"genai-news/utils/logger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestCustomHTTPErrorHandler(t *testing.T) {
	tests := map[string]struct {
		err           error
		method        string
		wantStatus    int
		wantCode      string
		wantMessage   string
		wantRetryable bool
	}{
		"app context error keeps code": {
			err:           apperrors.NewUnavailableContextError("articles are not ready yet", "handler", "ArticleHandler", "HandleLatest", errors.New("no batch")),
			wantStatus:    http.StatusServiceUnavailable,
			wantCode:      apperrors.CodeUnavailable,
			wantRetryable: true,
		},
		"wrapped app context error": {
			err:        errors.Join(errors.New("outer"), apperrors.NewUnauthorizedContextError("missing token", "middleware", "RequireJWT", "Verify", nil)),
			wantStatus: http.StatusUnauthorized,
			wantCode:   apperrors.CodeUnauthorized,
		},
		"echo not found": {
			err:         echo.ErrNotFound,
			wantStatus:  http.StatusNotFound,
			wantCode:    "HTTP_ERROR",
			wantMessage: "Not Found",
		},
		"echo 5xx message hidden": {
			err:           echo.NewHTTPError(http.StatusBadGateway, "dial tcp 10.0.0.3:5432: refused"),
			wantStatus:    http.StatusBadGateway,
			wantCode:      "HTTP_ERROR",
			wantMessage:   genericErrorMessage,
			wantRetryable: true,
		},
		"unknown error is internal": {
			err:         errors.New("pq: password authentication failed"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    apperrors.CodeInternal,
			wantMessage: genericErrorMessage,
		},
		"head request has no body": {
			err:        echo.ErrNotFound,
			method:     http.MethodHead,
			wantStatus: http.StatusNotFound,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			method := tc.method
			if method == "" {
				method = http.MethodGet
			}

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(method, "/api/v1/articles", nil), rec)

			CustomHTTPErrorHandler(testLogger())(tc.err, c)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if method == http.MethodHead {
				assert.Empty(t, rec.Body.String())
				return
			}

			var resp apperrors.SecureHTTPResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantCode, resp.Error.Code)
			assert.Equal(t, tc.wantRetryable, resp.Error.Retryable)
			if tc.wantMessage != "" {
				assert.Equal(t, tc.wantMessage, resp.Error.Message)
			}
			assert.NotContains(t, rec.Body.String(), "10.0.0.3")
			assert.NotContains(t, rec.Body.String(), "password")
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	tests := map[string]struct {
		incoming string
		wantSame bool
	}{
		"propagates caller id":   {incoming: "req-123", wantSame: true},
		"generates when missing": {},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.incoming != "" {
				req.Header.Set(RequestIDHeader, tc.incoming)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seen string
			err := RequestIDMiddleware()(func(c echo.Context) error {
				seen = logger.RequestIDFrom(c.Request().Context())
				return nil
			})(c)
			require.NoError(t, err)

			header := rec.Header().Get(RequestIDHeader)
			assert.NotEmpty(t, header)
			assert.Equal(t, header, seen)
			if tc.wantSame {
				assert.Equal(t, tc.incoming, header)
			}
		})
	}
}

type fakeVerifier struct {
	user *auth.User
	err  error
}

func (f fakeVerifier) Verify(string) (*auth.User, error) { return f.user, f.err }

func TestRequireJWT(t *testing.T) {
	tests := map[string]struct {
		verifier    fakeVerifier
		wantErr     bool
		wantMessage string
	}{
		"valid token stores user": {
			verifier: fakeVerifier{user: &auth.User{ID: "u1"}},
		},
		"missing token": {
			verifier:    fakeVerifier{err: auth.ErrMissingToken},
			wantErr:     true,
			wantMessage: "missing token",
		},
		"wrong audience": {
			verifier:    fakeVerifier{err: auth.ErrInvalidAudience},
			wantErr:     true,
			wantMessage: "invalid token issuer or audience",
		},
		"no secret configured": {
			verifier:    fakeVerifier{err: auth.ErrSecretNotConfigured},
			wantErr:     true,
			wantMessage: "authentication unavailable",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/session", nil), httptest.NewRecorder())

			called := false
			err := RequireJWT(tc.verifier, testLogger())(func(c echo.Context) error {
				called = true
				user, ok := UserFromContext(c.Request().Context())
				require.True(t, ok)
				assert.Equal(t, "u1", user.ID)
				return nil
			})(c)

			if tc.wantErr {
				var appErr *apperrors.AppContextError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
				assert.Equal(t, tc.wantMessage, appErr.Message)
				assert.False(t, called)
				return
			}
			require.NoError(t, err)
			assert.True(t, called)
		})
	}
}
