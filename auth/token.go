// Package auth signs and verifies session tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	"github.com/dev-mohitbeniwal/bookclub/model"
)

// DefaultTokenTTL is how long a session token stays valid after issuance.
const DefaultTokenTTL = 2 * time.Hour

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	ID       string `json:"id"`
	jwt.RegisteredClaims
}

// TokenCodec issues and checks HS256 session tokens with a shared secret.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type CodecOption func(*TokenCodec)

// WithTTL overrides DefaultTokenTTL.
func WithTTL(ttl time.Duration) CodecOption {
	return func(c *TokenCodec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

func NewTokenCodec(secret string, opts ...CodecOption) *TokenCodec {
	c := &TokenCodec{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Sign returns a token for identity that expires TTL after now.
func (c *TokenCodec) Sign(identity model.Identity) (string, error) {
	issuedAt := c.now()
	claims := SessionClaims{
		Email:    identity.Email,
		Username: identity.Username,
		ID:       identity.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, the expiry claim and the token age, and
// returns the embedded identity.
func (c *TokenCodec) Verify(tokenString string) (*model.Identity, error) {
	if tokenString == "" {
		return nil, bookclub_errors.ErrTokenMalformed
	}

	var claims SessionClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}

	if claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing issued-at", bookclub_errors.ErrTokenInvalid)
	}
	if c.now().Sub(claims.IssuedAt.Time) >= c.ttl {
		return nil, bookclub_errors.ErrTokenExpired
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing user id", bookclub_errors.ErrTokenInvalid)
	}

	return &model.Identity{
		ID:       claims.ID,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", bookclub_errors.ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return bookclub_errors.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", bookclub_errors.ErrTokenSignature, err)
	default:
		return fmt.Errorf("%w: %v", bookclub_errors.ErrTokenInvalid, err)
	}
}
