// controller/graphql_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	"github.com/dev-mohitbeniwal/bookclub/util"
)

type graphQLRequest struct {
	Query         string                 `json:"query" form:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName" form:"operationName"`
}

type GraphQLController struct {
	schema graphql.Schema
}

func NewGraphQLController(schema graphql.Schema) *GraphQLController {
	return &GraphQLController{schema: schema}
}

// RegisterRoutes registers the API routes
func (gc *GraphQLController) RegisterRoutes(r gin.IRoutes) {
	r.POST("/graphql", gc.Execute)
	r.GET("/graphql", gc.Execute)
}

// Execute runs a GraphQL request. Field errors are reported in the result
// body with status 200, as GraphQL clients expect.
func (gc *GraphQLController) Execute(c *gin.Context) {
	var req graphQLRequest
	if c.Request.Method == http.MethodPost {
		// The session middleware may already have read the body.
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid GraphQL request", err)
			return
		}
	} else {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if raw := c.Query("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				util.RespondWithError(c, http.StatusBadRequest, "Invalid GraphQL variables", err)
				return
			}
		}
	}

	if req.Query == "" {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid GraphQL request", bookclub_errors.ErrEmptyQuery)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         gc.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request.Context(),
	})
	if result.HasErrors() {
		logger.Debug("GraphQL request returned errors",
			zap.String("operationName", req.OperationName),
			zap.Int("errors", len(result.Errors)))
	}

	c.JSON(http.StatusOK, result)
}
