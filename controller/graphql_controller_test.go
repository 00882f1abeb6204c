// controller/graphql_controller_test.go
package controller_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/bookclub/auth"
	"github.com/dev-mohitbeniwal/bookclub/controller"
	"github.com/dev-mohitbeniwal/bookclub/middleware"
	"github.com/dev-mohitbeniwal/bookclub/model"
)

// whoamiSchema echoes the caller identity so tests can observe what the
// session middleware attached to the request context.
func whoamiSchema(t *testing.T) graphql.Schema {
	t.Helper()
	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				"whoami": &graphql.Field{
					Type: graphql.String,
					Args: graphql.FieldConfigArgument{
						"greeting": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "hello"},
					},
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						name := "anonymous"
						if identity := auth.IdentityFromContext(p.Context); identity != nil {
							name = identity.Username
						}
						return p.Args["greeting"].(string) + " " + name, nil
					},
				},
			},
		}),
	})
	require.NoError(t, err)
	return schema
}

func newGraphQLRouter(t *testing.T, codec *auth.TokenCodec) *gin.Engine {
	router := setupRouter()
	router.Use(middleware.Session(codec))
	controller.NewGraphQLController(whoamiSchema(t)).RegisterRoutes(router)
	return router
}

func post(router *gin.Engine, body string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	router.ServeHTTP(w, req)
	return w
}

func TestGraphQLController(t *testing.T) {
	codec := auth.NewTokenCodec("controller-secret")
	token, err := codec.Sign(model.Identity{ID: "u-1", Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)

	t.Run("Post_Anonymous", func(t *testing.T) {
		w := post(newGraphQLRouter(t, codec), `{"query":"{ whoami }"}`, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"whoami":"hello anonymous"}}`, w.Body.String())
	})

	t.Run("Post_TokenInBody", func(t *testing.T) {
		body := `{"query":"query Q($g: String) { whoami(greeting: $g) }","variables":{"g":"hi"},"operationName":"Q","token":"` + token + `"}`
		w := post(newGraphQLRouter(t, codec), body, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"whoami":"hi reader"}}`, w.Body.String())
	})

	t.Run("Post_BearerHeader", func(t *testing.T) {
		w := post(newGraphQLRouter(t, codec), `{"query":"{ whoami }"}`,
			http.Header{"Authorization": []string{"Bearer " + token}})

		assert.JSONEq(t, `{"data":{"whoami":"hello reader"}}`, w.Body.String())
	})

	t.Run("Post_InvalidToken_StaysAnonymous", func(t *testing.T) {
		w := post(newGraphQLRouter(t, codec), `{"query":"{ whoami }"}`,
			http.Header{"Authorization": []string{"Bearer not-a-token"}})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"whoami":"hello anonymous"}}`, w.Body.String())
	})

	t.Run("Get_QueryParams", func(t *testing.T) {
		params := url.Values{
			"query":     []string{"query Q($g: String) { whoami(greeting: $g) }"},
			"variables": []string{`{"g":"hey"}`},
			"token":     []string{token},
		}
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/graphql?"+params.Encode(), nil)
		newGraphQLRouter(t, codec).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"whoami":"hey reader"}}`, w.Body.String())
	})

	t.Run("EmptyQuery", func(t *testing.T) {
		w := post(newGraphQLRouter(t, codec), `{"query":""}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		w := post(newGraphQLRouter(t, codec), `{"query":`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("SyntaxError_ReportedInBody", func(t *testing.T) {
		w := post(newGraphQLRouter(t, codec), `{"query":"{ whoami "}`, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"errors"`)
	})
}

func TestHealthController(t *testing.T) {
	t.Run("AllHealthy", func(t *testing.T) {
		router := setupRouter()
		controller.NewHealthController(map[string]controller.Checker{
			"neo4j": func(context.Context) error { return nil },
		}).RegisterRoutes(router)

		w := get(router, "/healthz")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"OK","checks":{"neo4j":"ok"}}`, w.Body.String())
	})

	t.Run("DependencyDown", func(t *testing.T) {
		router := setupRouter()
		controller.NewHealthController(map[string]controller.Checker{
			"neo4j": func(context.Context) error { return nil },
			"redis": func(context.Context) error { return errors.New("connection refused") },
		}).RegisterRoutes(router)

		w := get(router, "/healthz")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		body := decode(t, w)
		checks := body["checks"].(map[string]interface{})
		assert.Equal(t, "ok", checks["neo4j"])
		assert.Equal(t, "connection refused", checks["redis"])
	})
}
