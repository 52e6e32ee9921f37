package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/desertthunder/sinewave/internal/shared"
)

// TokenSource exposes the current access token as an [oauth2.TokenSource].
//
// It never renews: an absent session yields [shared.ErrNotAuthenticated].
type TokenSource struct {
	ctx     context.Context
	manager Manager
}

var _ oauth2.TokenSource = (*TokenSource)(nil)

func NewTokenSource(ctx context.Context, m Manager) *TokenSource {
	return &TokenSource{ctx: ctx, manager: m}
}

func (ts *TokenSource) Token() (*oauth2.Token, error) {
	s, ok, err := ts.manager.Get(ts.ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.ErrNotAuthenticated
	}

	tok := &oauth2.Token{AccessToken: s.Token, TokenType: "Bearer"}
	if c, err := ParseClaims(s.Token); err == nil && c.ExpiresAt != nil {
		tok.Expiry = *c.ExpiresAt
	}
	return tok, nil
}

// Claims are the registered claims read from an access token.
type Claims struct {
	Subject   string
	Issuer    string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// Expired reports whether the token's expiry is before now. Tokens without expiry never expire.
func (c Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// ParseClaims decodes the claims of a JWT access token without verifying its signature.
//
// The result is informational only; the server remains the authority on validity.
func ParseClaims(token string) (Claims, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return Claims{}, fmt.Errorf("%w: token is not a JWT: %v", shared.ErrInvalidInput, err)
	}

	c := Claims{Subject: rc.Subject, Issuer: rc.Issuer}
	if rc.IssuedAt != nil {
		t := rc.IssuedAt.Time
		c.IssuedAt = &t
	}
	if rc.ExpiresAt != nil {
		t := rc.ExpiresAt.Time
		c.ExpiresAt = &t
	}
	return c, nil
}
