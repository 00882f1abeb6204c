// controller/controllers.go
package controller

import (
	"github.com/graphql-go/graphql"

	"github.com/dev-mohitbeniwal/bookclub/service"
)

type Controllers struct {
	Bestseller *BestsellerController
	GraphQL    *GraphQLController
	Health     *HealthController
}

func InitializeControllers(bestsellers service.IBestsellerService, schema graphql.Schema, checks map[string]Checker) *Controllers {
	return &Controllers{
		Bestseller: NewBestsellerController(bestsellers),
		GraphQL:    NewGraphQLController(schema),
		Health:     NewHealthController(checks),
	}
}
