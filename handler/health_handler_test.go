package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genai-news/handler"
)

func TestHealthHandler(t *testing.T) {
	tests := map[string]struct {
		query      string
		checks     map[string]handler.DependencyCheck
		wantStatus int
		wantBody   string
	}{
		"shallow probe skips checks": {
			checks: map[string]handler.DependencyCheck{
				"store": func(context.Context) error { return errors.New("down") },
			},
			wantStatus: http.StatusOK,
			wantBody:   `"status":"healthy"`,
		},
		"deep probe healthy": {
			query: "?deep=true",
			checks: map[string]handler.DependencyCheck{
				"store": func(context.Context) error { return nil },
			},
			wantStatus: http.StatusOK,
			wantBody:   `"store":"healthy"`,
		},
		"deep probe degraded": {
			query: "?deep=true",
			checks: map[string]handler.DependencyCheck{
				"store": func(context.Context) error { return errors.New("down") },
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `"status":"degraded"`,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			h := handler.NewHealthHandler("genai-news", tc.checks, testLogger())

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health"+tc.query, nil), rec)

			require.NoError(t, h.HandleHealth(c))
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
		})
	}
}
