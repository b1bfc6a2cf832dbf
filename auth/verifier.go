// ABOUTME: Validates HS256 bearer tokens issued by the auth hub
// ABOUTME: Issuer and audience must match the configured values
package auth

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"genai-news/config"
)

var (
	ErrMissingToken        = errors.New("missing token")
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidClaims       = errors.New("invalid claims")
	ErrInvalidIssuer       = errors.New("invalid issuer")
	ErrInvalidAudience     = errors.New("invalid audience")
	ErrSecretNotConfigured = errors.New("token secret not configured")
)

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Sid   string `json:"sid"`
	jwt.RegisteredClaims
}

// User is the authenticated principal carried by a verified token.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

type Verifier struct {
	secret   []byte
	issuer   string
	audience string
}

func NewVerifier(cfg config.AuthConfig) *Verifier {
	return &Verifier{
		secret:   []byte(cfg.TokenSecret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}
}

// Enabled reports whether a secret is configured. Without one every token is rejected.
func (v *Verifier) Enabled() bool {
	return len(v.secret) > 0
}

// Verify parses tokenStr, accepting an optional "Bearer " prefix.
func (v *Verifier) Verify(tokenStr string) (*User, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	// the header may arrive as "Bearer" once surrounding whitespace is gone
	if after, ok := strings.CutPrefix(tokenStr, "Bearer"); ok && (after == "" || after[0] == ' ') {
		tokenStr = strings.TrimSpace(after)
	}
	if tokenStr == "" {
		return nil, ErrMissingToken
	}
	if !v.Enabled() {
		return nil, ErrSecretNotConfigured
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidClaims
	}
	if claims.Issuer != v.issuer {
		return nil, ErrInvalidIssuer
	}
	if !slices.Contains(claims.Audience, v.audience) {
		return nil, ErrInvalidAudience
	}

	return &User{
		ID:        claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
		SessionID: claims.Sid,
	}, nil
}
