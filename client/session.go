package client

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/bookclub/auth"
	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	"github.com/dev-mohitbeniwal/bookclub/model"
)

// TokenKey is the storage key of the session token.
const TokenKey = "id_token"

// Session keeps the token issued at login. The client cannot verify the
// signature, so it only decodes the claims and checks the expiry against
// its own clock. The server still verifies every request.
type Session struct {
	storage Storage
	now     func() time.Time
}

func NewSession(storage Storage, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{storage: storage, now: now}
}

func (s *Session) Save(ctx context.Context, token string) error {
	return s.storage.Set(ctx, TokenKey, token)
}

// Token returns the stored token, or "" when there is none or it has
// expired. An expired or undecodable token is discarded.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, ok, err := s.storage.Get(ctx, TokenKey)
	if err != nil || !ok {
		return "", err
	}

	claims, err := decodeClaims(token)
	if err == nil && claims.ExpiresAt != nil && s.now().Before(claims.ExpiresAt.Time) {
		return token, nil
	}

	logger.Debug("Discarding stored session token", zap.Error(err))
	return "", s.storage.Remove(ctx, TokenKey)
}

// Identity returns the identity embedded in a live token.
func (s *Session) Identity(ctx context.Context) (*model.Identity, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, bookclub_errors.ErrNotLoggedIn
	}
	claims, err := decodeClaims(token)
	if err != nil {
		return nil, err
	}
	return &model.Identity{ID: claims.ID, Username: claims.Username, Email: claims.Email}, nil
}

// Logout discards the token. Nothing is sent to the server; the token stays
// valid there until it expires.
func (s *Session) Logout(ctx context.Context) error {
	return s.storage.Remove(ctx, TokenKey)
}

func decodeClaims(token string) (*auth.SessionClaims, error) {
	var claims auth.SessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", bookclub_errors.ErrTokenMalformed, err)
	}
	return &claims, nil
}
