package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/bookclub/auth"
	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	"github.com/dev-mohitbeniwal/bookclub/model"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

var reader = model.Identity{ID: "u-1", Username: "reader", Email: "reader@example.com"}

func TestTokenCodec(t *testing.T) {
	t.Run("RoundTrip_WithinWindow", func(t *testing.T) {
		clock := newClock()
		codec := auth.NewTokenCodec("secret", auth.WithClock(clock.Now))

		token, err := codec.Sign(reader)
		require.NoError(t, err)

		clock.Advance(time.Hour + 59*time.Minute)
		identity, err := codec.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, reader, *identity)
	})

	t.Run("Expired_AfterTwoHours", func(t *testing.T) {
		clock := newClock()
		codec := auth.NewTokenCodec("secret", auth.WithClock(clock.Now))

		token, err := codec.Sign(reader)
		require.NoError(t, err)

		clock.Advance(2*time.Hour + time.Second)
		_, err = codec.Verify(token)
		assert.ErrorIs(t, err, bookclub_errors.ErrTokenExpired)
	})

	t.Run("Expired_ExactlyAtLifetime", func(t *testing.T) {
		clock := newClock()
		codec := auth.NewTokenCodec("secret", auth.WithClock(clock.Now))

		token, err := codec.Sign(reader)
		require.NoError(t, err)

		clock.Advance(2 * time.Hour)
		_, err = codec.Verify(token)
		assert.ErrorIs(t, err, bookclub_errors.ErrTokenExpired)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		clock := newClock()
		signer := auth.NewTokenCodec("secret", auth.WithClock(clock.Now))
		verifier := auth.NewTokenCodec("other-secret", auth.WithClock(clock.Now))

		token, err := signer.Sign(reader)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, bookclub_errors.ErrTokenSignature)
	})

	t.Run("Malformed", func(t *testing.T) {
		codec := auth.NewTokenCodec("secret")
		for _, token := range []string{"", "not-a-token", "a.b.c", strings.Repeat("x", 300)} {
			_, err := codec.Verify(token)
			assert.Error(t, err, token)
		}
	})

	t.Run("Unsigned", func(t *testing.T) {
		codec := auth.NewTokenCodec("secret")
		// alg "none" with an empty signature
		token := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." +
			"eyJpZCI6InUtMSIsImVtYWlsIjoicmVhZGVyQGV4YW1wbGUuY29tIiwidXNlcm5hbWUiOiJyZWFkZXIifQ."
		_, err := codec.Verify(token)
		assert.Error(t, err)
	})

	t.Run("CustomTTL", func(t *testing.T) {
		clock := newClock()
		codec := auth.NewTokenCodec("secret", auth.WithClock(clock.Now), auth.WithTTL(time.Minute))
		assert.Equal(t, time.Minute, codec.TTL())

		token, err := codec.Sign(reader)
		require.NoError(t, err)

		clock.Advance(61 * time.Second)
		_, err = codec.Verify(token)
		assert.ErrorIs(t, err, bookclub_errors.ErrTokenExpired)
	})
}

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, auth.CheckPassword(hash, "hunter22"))
	assert.ErrorIs(t, auth.CheckPassword(hash, "wrong"), bookclub_errors.ErrInvalidCredentials)
}
