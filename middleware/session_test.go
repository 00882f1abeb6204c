package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/bookclub/auth"
	"github.com/dev-mohitbeniwal/bookclub/middleware"
	"github.com/dev-mohitbeniwal/bookclub/model"
)

type observed struct {
	identity    *model.Identity
	ctxIdentity *model.Identity
	body        string
	called      bool
}

func newSessionRouter(codec *auth.TokenCodec, seen *observed) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Session(codec))
	handler := func(c *gin.Context) {
		seen.called = true
		seen.identity = middleware.GetIdentity(c)
		seen.ctxIdentity = auth.IdentityFromContext(c.Request.Context())
		if body, ok := c.Get(gin.BodyBytesKey); ok {
			seen.body = string(body.([]byte))
		} else if c.Request.Body != nil {
			raw, _ := io.ReadAll(c.Request.Body)
			seen.body = string(raw)
		}
		c.Status(http.StatusNoContent)
	}
	router.GET("/whoami", handler)
	router.POST("/whoami", handler)
	return router
}

func TestSession(t *testing.T) {
	codec := auth.NewTokenCodec("session-secret")
	alice := model.Identity{ID: "u-1", Username: "alice", Email: "alice@example.com"}
	bob := model.Identity{ID: "u-2", Username: "bob", Email: "bob@example.com"}
	aliceToken, err := codec.Sign(alice)
	require.NoError(t, err)
	bobToken, err := codec.Sign(bob)
	require.NoError(t, err)

	t.Run("NoToken_Anonymous", func(t *testing.T) {
		seen := &observed{}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		newSessionRouter(codec, seen).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.True(t, seen.called)
		assert.Nil(t, seen.identity)
		assert.Nil(t, seen.ctxIdentity)
	})

	t.Run("BearerHeader", func(t *testing.T) {
		seen := &observed{}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+aliceToken)
		newSessionRouter(codec, seen).ServeHTTP(w, req)

		require.NotNil(t, seen.identity)
		assert.Equal(t, alice, *seen.identity)
		assert.Equal(t, alice, *seen.ctxIdentity)
	})

	t.Run("BareHeader", func(t *testing.T) {
		seen := &observed{}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", aliceToken)
		newSessionRouter(codec, seen).ServeHTTP(w, req)

		require.NotNil(t, seen.identity)
		assert.Equal(t, "u-1", seen.identity.ID)
	})

	t.Run("ExtraHeaderFields_Anonymous", func(t *testing.T) {
		seen := &observed{}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer junk "+aliceToken)
		newSessionRouter(codec, seen).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.True(t, seen.called)
		assert.Nil(t, seen.identity)
	})

	t.Run("QueryParamBeatsHeader", func(t *testing.T) {
		seen := &observed{}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami?token="+bobToken, nil)
		req.Header.Set("Authorization", "Bearer "+aliceToken)
		newSessionRouter(codec, seen).ServeHTTP(w, req)

		require.NotNil(t, seen.identity)
		assert.Equal(t, bob, *seen.identity)
	})

	t.Run("BodyBeatsQueryParam_BodyStillReadable", func(t *testing.T) {
		seen := &observed{}
		body := `{"query":"{ me { id } }","token":"` + aliceToken + `"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/whoami?token="+bobToken, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		newSessionRouter(codec, seen).ServeHTTP(w, req)

		require.NotNil(t, seen.identity)
		assert.Equal(t, alice, *seen.identity)
		assert.Equal(t, body, seen.body)
	})

	t.Run("NonJSONBodyIgnored", func(t *testing.T) {
		seen := &observed{}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/whoami", strings.NewReader("token="+aliceToken))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		newSessionRouter(codec, seen).ServeHTTP(w, req)

		assert.Nil(t, seen.identity)
		assert.Equal(t, "token="+aliceToken, seen.body)
	})

	t.Run("InvalidToken_PassesThroughAnonymous", func(t *testing.T) {
		for _, token := range []string{"garbage", "a.b.c", aliceToken + "x"} {
			seen := &observed{}
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			newSessionRouter(codec, seen).ServeHTTP(w, req)

			assert.Equal(t, http.StatusNoContent, w.Code, token)
			assert.True(t, seen.called, token)
			assert.Nil(t, seen.identity, token)
		}
	})

	t.Run("WrongSecret_PassesThroughAnonymous", func(t *testing.T) {
		foreign, err := auth.NewTokenCodec("other-secret").Sign(alice)
		require.NoError(t, err)

		seen := &observed{}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+foreign)
		newSessionRouter(codec, seen).ServeHTTP(w, req)

		assert.True(t, seen.called)
		assert.Nil(t, seen.identity)
	})

	t.Run("ExpiredToken_PassesThroughAnonymous", func(t *testing.T) {
		issued := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
		old, err := auth.NewTokenCodec("session-secret", auth.WithClock(func() time.Time { return issued })).Sign(alice)
		require.NoError(t, err)
		later := auth.NewTokenCodec("session-secret", auth.WithClock(func() time.Time { return issued.Add(3 * time.Hour) }))

		seen := &observed{}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+old)
		newSessionRouter(later, seen).ServeHTTP(w, req)

		assert.True(t, seen.called)
		assert.Nil(t, seen.identity)
	})
}
