// router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/bookclub/controller"
	"github.com/dev-mohitbeniwal/bookclub/metrics"
	"github.com/dev-mohitbeniwal/bookclub/middleware"
)

// Options holds the cross-cutting pieces the router wires around controllers.
type Options struct {
	Metrics           *metrics.Metrics
	Verifier          middleware.TokenVerifier
	Limiter           middleware.Limiter
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func SetupRouter(controllers *controller.Controllers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	controllers.Health.RegisterRoutes(router)

	// Session runs before the limiter so signed-in callers are limited per user.
	traffic := router.Group("")
	traffic.Use(middleware.Session(opts.Verifier))
	if opts.Limiter != nil {
		traffic.Use(middleware.RateLimiter(opts.Limiter, opts.RateLimitRequests, opts.RateLimitWindow))
	}

	controllers.Bestseller.RegisterRoutes(traffic.Group("/api"))
	controllers.GraphQL.RegisterRoutes(traffic)

	return router
}
