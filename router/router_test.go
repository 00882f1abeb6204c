package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/bookclub/auth"
	"github.com/dev-mohitbeniwal/bookclub/controller"
	"github.com/dev-mohitbeniwal/bookclub/metrics"
	"github.com/dev-mohitbeniwal/bookclub/model"
	"github.com/dev-mohitbeniwal/bookclub/router"
	mock_util "github.com/dev-mohitbeniwal/bookclub/test/mock"
)

// countingLimiter allows the first limit requests per key.
type countingLimiter struct {
	mu   sync.Mutex
	seen map[string]int
	keys []string
}

func (l *countingLimiter) RateLimit(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seen == nil {
		l.seen = make(map[string]int)
	}
	l.seen[key]++
	l.keys = append(l.keys, key)
	return l.seen[key] <= limit, nil
}

func emptySchema(t *testing.T) graphql.Schema {
	t.Helper()
	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				"ping": &graphql.Field{
					Type:    graphql.String,
					Resolve: func(graphql.ResolveParams) (interface{}, error) { return "pong", nil },
				},
			},
		}),
	})
	require.NoError(t, err)
	return schema
}

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	codec := auth.NewTokenCodec("router-secret")
	token, err := codec.Sign(model.Identity{ID: "u-1", Username: "reader"})
	require.NoError(t, err)

	svc := new(mock_util.MockBestsellerService)
	svc.On("GetList", mock.Anything, "science").Return(json.RawMessage(`[]`), nil)

	m := metrics.New()
	limiter := &countingLimiter{}
	controllers := controller.InitializeControllers(svc, emptySchema(t), map[string]controller.Checker{})
	engine := router.SetupRouter(controllers, router.Options{
		Metrics:           m,
		Verifier:          codec,
		Limiter:           limiter,
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
	})

	serve := func(method, path, body string, header http.Header) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(method, path, strings.NewReader(body))
		for k, v := range header {
			req.Header[k] = v
		}
		engine.ServeHTTP(w, req)
		return w
	}

	t.Run("Bestsellers", func(t *testing.T) {
		w := serve(http.MethodGet, "/api/bestsellers/science", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("GraphQL_LimitedPerUser", func(t *testing.T) {
		headers := http.Header{"Authorization": []string{"Bearer " + token}, "Content-Type": []string{"application/json"}}
		for i := 0; i < 2; i++ {
			w := serve(http.MethodPost, "/graphql", `{"query":"{ ping }"}`, headers)
			assert.Equal(t, http.StatusOK, w.Code)
		}
		w := serve(http.MethodPost, "/graphql", `{"query":"{ ping }"}`, headers)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, limiter.keys, "user:u-1")
	})

	t.Run("HealthNotLimited", func(t *testing.T) {
		before := len(limiter.keys)
		w := serve(http.MethodGet, "/healthz", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, limiter.keys, before)
	})

	t.Run("MetricsExposed", func(t *testing.T) {
		w := serve(http.MethodGet, "/metrics", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "bookclub_http_requests_total")
	})
}
