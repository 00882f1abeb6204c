package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/bookclub/audit"
	"github.com/dev-mohitbeniwal/bookclub/auth"
	"github.com/dev-mohitbeniwal/bookclub/cache"
	"github.com/dev-mohitbeniwal/bookclub/config"
	"github.com/dev-mohitbeniwal/bookclub/controller"
	"github.com/dev-mohitbeniwal/bookclub/db"
	"github.com/dev-mohitbeniwal/bookclub/graph"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	"github.com/dev-mohitbeniwal/bookclub/metrics"
	"github.com/dev-mohitbeniwal/bookclub/nyt"
	"github.com/dev-mohitbeniwal/bookclub/pdp/engine"
	"github.com/dev-mohitbeniwal/bookclub/router"
	"github.com/dev-mohitbeniwal/bookclub/service"
	"github.com/dev-mohitbeniwal/bookclub/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	cfg := config.GetConfig()

	// Initialize logger
	logger.InitLogger(cfg.Log.Dir)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Neo4j
	if err := db.InitNeo4j(ctx, cfg.Neo4j); err != nil {
		logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
	}
	defer db.CloseNeo4j(context.Background())

	// Initialize Redis
	if err := db.InitRedis(cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	eventBus.Start(ctx)

	auditService := audit.NewService(newAuditRepository(ctx, cfg.Elasticsearch.URL))
	codec := newTokenCodec(cfg)
	m := metrics.New()

	// Initialize services and utilities
	services, err := service.InitializeServices(
		ctx,
		db.Neo4jDriver,
		codec,
		auditService,
		util.NewValidationUtil(),
		util.NewCacheService(),
		util.NewNotificationService(),
		eventBus,
	)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	if cfg.Bestsellers.APIKey == "" {
		logger.Warn("bestsellers.apiKey not set, upstream list requests will be rejected")
	}
	listClient := nyt.NewClient(
		cfg.Bestsellers.BaseURL,
		cfg.Bestsellers.APIKey,
		nyt.WithHTTPClient(&http.Client{Timeout: cfg.Bestsellers.RequestTimeout}),
		nyt.WithRequestsPerMinute(cfg.Bestsellers.RequestsPerMinute),
	)
	bestsellers := service.NewBestsellerService(
		listClient,
		newListStore(cfg.Bestsellers.CacheBackend),
		service.WithListTTL(cfg.Bestsellers.CacheTTL),
		service.WithCategories(cfg.Bestsellers.Categories),
		service.WithMetrics(m),
	)

	evaluator, err := engine.NewOperationEvaluator(engine.DefaultPolicies)
	if err != nil {
		logger.Fatal("Invalid operation policies", zap.Error(err))
	}
	resolver := &graph.Resolver{
		Services:  services,
		Evaluator: evaluator,
		Audit:     auditService,
		Metrics:   m,
	}
	schema, err := resolver.Schema()
	if err != nil {
		logger.Fatal("Failed to build GraphQL schema", zap.Error(err))
	}

	// Initialize controllers
	controllers := controller.InitializeControllers(bestsellers, schema, map[string]controller.Checker{
		"neo4j": db.Neo4jDriver.VerifyConnectivity,
		"redis": func(ctx context.Context) error { return db.RedisClient.Ping(ctx).Err() },
	})

	// Set up Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := router.SetupRouter(controllers, router.Options{
		Metrics:           m,
		Verifier:          codec,
		Limiter:           db.RedisLimiter{Client: db.RedisClient},
		RateLimitRequests: cfg.RateLimit.Requests,
		RateLimitWindow:   cfg.RateLimit.Window,
	})

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: handler,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	eventBus.Wait()

	logger.Info("Server exiting")
}

// newAuditRepository falls back to a no-op repository when Elasticsearch is
// unreachable, so auditing never blocks startup.
func newAuditRepository(ctx context.Context, url string) audit.Repository {
	repo, err := audit.NewElasticsearchRepository(url)
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		err = repo.Ping(pingCtx)
	}
	if err != nil {
		logger.Warn("Elasticsearch unavailable, audit records will be dropped",
			zap.String("url", url), zap.Error(err))
		return audit.NoopRepository{}
	}
	return repo
}

func newTokenCodec(cfg *config.Configuration) *auth.TokenCodec {
	secret, configured := cfg.SigningSecret()
	if !configured {
		logger.Warn("auth.secret not set, signing sessions with the public development secret")
	}
	return auth.NewTokenCodec(secret, auth.WithTTL(cfg.Auth.TokenTTL))
}

func newListStore(backend string) cache.Store {
	if backend == "redis" {
		logger.Info("Using Redis for the bestseller cache")
		return db.NewRedisListStore(db.RedisClient)
	}
	return cache.NewMemoryStore()
}
