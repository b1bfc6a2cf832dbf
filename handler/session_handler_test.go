package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"genai-news/auth"
	"genai-news/handler"
	"genai-news/middleware"
	"genai-news/test/mocks"
	apperrors "genai-news/utils/errors"
)

type stubVerifier struct {
	user *auth.User
}

func (s stubVerifier) Verify(token string) (*auth.User, error) {
	if token == "" {
		return nil, auth.ErrMissingToken
	}
	return s.user, nil
}

func TestSessionHandler(t *testing.T) {
	user := &auth.User{ID: "user-1", Email: "reader@example.com"}

	tests := map[string]struct {
		method     string
		token      string
		setupMock  func(m *mocks.MockSessionPublisher)
		wantStatus int
		wantErr    bool
	}{
		"sign in publishes authenticated state": {
			method: http.MethodPost,
			token:  "Bearer ok",
			setupMock: func(m *mocks.MockSessionPublisher) {
				m.EXPECT().Publish(auth.AuthState{User: user})
			},
			wantStatus: http.StatusAccepted,
		},
		"sign out publishes empty state": {
			method: http.MethodDelete,
			token:  "Bearer ok",
			setupMock: func(m *mocks.MockSessionPublisher) {
				m.EXPECT().Publish(auth.AuthState{})
			},
			wantStatus: http.StatusAccepted,
		},
		"missing token never publishes": {
			method:    http.MethodPost,
			setupMock: func(m *mocks.MockSessionPublisher) {},
			wantErr:   true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			publisher := mocks.NewMockSessionPublisher(ctrl)
			tc.setupMock(publisher)

			h := handler.NewSessionHandler(publisher, testLogger())
			guard := middleware.RequireJWT(stubVerifier{user: user}, testLogger())

			e := echo.New()
			req := httptest.NewRequest(tc.method, "/api/v1/session", nil)
			if tc.token != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.token)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			next := h.HandleSignIn
			if tc.method == http.MethodDelete {
				next = h.HandleSignOut
			}
			err := guard(next)(c)

			if tc.wantErr {
				var appErr *apperrors.AppContextError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, http.StatusUnauthorized, appErr.HTTPStatusCode())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestSessionHandler_WithoutGuard(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := handler.NewSessionHandler(mocks.NewMockSessionPublisher(ctrl), testLogger())

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/session", nil), httptest.NewRecorder())

	err := h.HandleSignIn(c)
	var appErr *apperrors.AppContextError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
}
