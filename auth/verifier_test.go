package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genai-news/config"
)

const testSecret = "test-secret-for-genai-news"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{TokenSecret: testSecret, Issuer: "auth-hub", Audience: "genai-news"}
}

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() Claims {
	now := time.Now()
	return Claims{
		Email: "reader@example.com",
		Role:  "user",
		Sid:   "session-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "auth-hub",
			Audience:  jwt.ClaimStrings{"genai-news"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestVerifier_Verify(t *testing.T) {
	tests := map[string]struct {
		token   func(t *testing.T) string
		cfg     config.AuthConfig
		want    *User
		wantErr error
	}{
		"valid token": {
			token: func(t *testing.T) string { return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims()) },
			want:  &User{ID: "user-1", Email: "reader@example.com", Role: "user", SessionID: "session-1"},
		},
		"bearer prefix": {
			token: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())
			},
			want: &User{ID: "user-1", Email: "reader@example.com", Role: "user", SessionID: "session-1"},
		},
		"missing": {
			token:   func(t *testing.T) string { return "" },
			wantErr: ErrMissingToken,
		},
		"bearer without token": {
			token:   func(t *testing.T) string { return "Bearer " },
			wantErr: ErrMissingToken,
		},
		"bare scheme": {
			token:   func(t *testing.T) string { return "  Bearer" },
			wantErr: ErrMissingToken,
		},
		"scheme glued to garbage": {
			token:   func(t *testing.T) string { return "Bearerxyz" },
			wantErr: ErrInvalidToken,
		},
		"wrong secret": {
			token:   func(t *testing.T) string { return signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims()) },
			wantErr: ErrInvalidToken,
		},
		"other hmac size rejected": {
			token:   func(t *testing.T) string { return signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims()) },
			wantErr: ErrInvalidToken,
		},
		"expired": {
			token: func(t *testing.T) string {
				c := validClaims()
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
				return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrInvalidToken,
		},
		"garbage": {
			token:   func(t *testing.T) string { return "not.a.jwt" },
			wantErr: ErrInvalidToken,
		},
		"missing subject": {
			token: func(t *testing.T) string {
				c := validClaims()
				c.Subject = ""
				return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrInvalidClaims,
		},
		"wrong issuer": {
			token: func(t *testing.T) string {
				c := validClaims()
				c.Issuer = "someone-else"
				return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrInvalidIssuer,
		},
		"wrong audience": {
			token: func(t *testing.T) string {
				c := validClaims()
				c.Audience = jwt.ClaimStrings{"alt-backend"}
				return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrInvalidAudience,
		},
		"secret not configured": {
			token:   func(t *testing.T) string { return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims()) },
			cfg:     config.AuthConfig{Issuer: "auth-hub", Audience: "genai-news"},
			wantErr: ErrSecretNotConfigured,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := tc.cfg
			if cfg == (config.AuthConfig{}) {
				cfg = testAuthConfig()
			}

			user, err := NewVerifier(cfg).Verify(tc.token(t))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, user)
		})
	}
}

func TestVerifier_Enabled(t *testing.T) {
	assert.True(t, NewVerifier(testAuthConfig()).Enabled())
	assert.False(t, NewVerifier(config.AuthConfig{}).Enabled())
}
