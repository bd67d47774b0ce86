package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"photoshare/api_gateway/graph"
	"photoshare/api_gateway/internal/clients"
	"photoshare/api_gateway/internal/handlers"
	"photoshare/api_gateway/internal/middleware"
	"photoshare/api_gateway/internal/resolvers"
	"photoshare/api_gateway/internal/session"
	"photoshare/api_gateway/internal/store"
	pkgclients "photoshare/pkg/clients"
	"photoshare/pkg/config"
	"photoshare/pkg/database"
	"photoshare/pkg/logging"
	"photoshare/pkg/monitoring"
	pkgredis "photoshare/pkg/redis"
	"photoshare/pkg/server"
	"photoshare/pkg/version"
)

const serviceName = "photoshare-api"

func main() {
	logger := logging.NewLoggerWithService(serviceName)
	config.LoadEnv(logger)
	logger.SetLevel(config.GetLogLevel())

	logger.WithField("version", version.GetInfo(serviceName).String()).Info("Starting PhotoShare API")

	ctx := context.Background()

	dbCfg := database.DefaultConfig()
	dbCfg.URI = config.RequireEnv("DB_HOST")
	dbCfg.Database = config.GetEnv("DB_NAME", dbCfg.Database)
	db, err := database.Connect(ctx, dbCfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	st := store.NewMongoStore(db)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.WithError(err).Warn("Error closing MongoDB client")
		}
	}()

	if config.GetEnvBool("SEED_FIXTURES", false) {
		seeded, err := store.SeedIfEmpty(ctx, st, store.DefaultFixtures())
		if err != nil {
			logger.WithError(err).Fatal("Failed to seed fixtures")
		}
		logger.WithField("seeded", seeded).Info("Fixture seeding checked")
	}

	healthChecker := monitoring.NewHealthChecker(serviceName, version.Version)
	metricsCollector := monitoring.NewMetricsCollector(serviceName, version.Version, version.GitCommit)

	healthChecker.AddCheck("mongodb", monitoring.PingHealthCheck("mongodb", st, false))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"DB_HOST":          dbCfg.URI,
		"GITHUB_CLIENT_ID": config.GetEnv("GITHUB_CLIENT_ID", ""),
	}))

	resolverSession, redisClient, err := newSessionResolver(ctx, config.GetEnv("REDIS_URL", ""), st,
		config.GetEnvDuration("SESSION_CACHE_TTL", 30*time.Second), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to set up session cache")
	}
	if redisClient != nil {
		defer redisClient.Close()
		healthChecker.AddCheck("redis", monitoring.PingHealthCheck("redis", pkgredis.Pinger{Client: redisClient}, true))
	}

	graphqlMetrics, upstreamMetrics := newMetrics(metricsCollector)
	serviceClients := clients.NewServiceClients(clients.Config{
		Logger:  logger,
		Metrics: upstreamMetrics,
	})
	healthChecker.AddCheck("upstreams", breakerHealthCheck(serviceClients.Breakers()))

	res := resolvers.NewResolver(st, serviceClients.GitHub, serviceClients.RandomUser, logger, graphqlMetrics)
	schema, err := graph.NewSchema(graph.NewResolver(res), graph.Options{
		MaxParallelism: config.GetEnvInt("GRAPHQL_MAX_PARALLELISM", 10),
		Logger:         logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to parse GraphQL schema")
	}

	maxDepth := config.GetEnvInt("GRAPHQL_MAX_DEPTH", 10)
	if maxDepth > 0 {
		logger.WithField("max_depth", maxDepth).Info("GraphQL depth limit enabled")
	}
	playgroundEnabled := config.GetEnvBool("GRAPHQL_PLAYGROUND_ENABLED", config.GetEnv("GIN_MODE", "debug") != "release")

	app := server.SetupServiceRouter(logger, serviceName, healthChecker, metricsCollector)
	handlers.Register(app, handlers.Routes{
		GraphQL:           handlers.NewGraphQLHandler(schema, logger, maxDepth),
		AuthCodeURL:       serviceClients.GitHub.AuthCodeURL,
		PlaygroundEnabled: playgroundEnabled,
		Middleware:        graphQLMiddleware(resolverSession, st, logger),
	})
	if playgroundEnabled {
		logger.Info("GraphQL Playground enabled at /playground")
	}

	serverConfig := server.DefaultConfig(serviceName, "4000")
	if err := server.Start(serverConfig, app, logger); err != nil {
		logger.WithError(err).Error("Server stopped with error")
	}
}

// newSessionResolver returns the token lookup used by the session
// middleware. With a Redis URL the store lookup is fronted by a TTL cache and
// the client is returned for health checks and shutdown.
func newSessionResolver(ctx context.Context, redisURL string, st store.Store, ttl time.Duration, logger logging.Logger) (session.Resolver, *goredis.Client, error) {
	if redisURL == "" {
		logger.Info("REDIS_URL not set; session lookups go straight to the store")
		return session.StoreLookup{Store: st}, nil, nil
	}
	client, err := pkgredis.NewClientFromURL(ctx, redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	logger.WithField("ttl", ttl.String()).Info("Redis session cache enabled")
	return session.NewRedisCache(client, st, ttl, logger), client, nil
}

func newMetrics(mc *monitoring.MetricsCollector) (*resolvers.GraphQLMetrics, *pkgclients.UpstreamMetrics) {
	gm := &resolvers.GraphQLMetrics{
		Operations: mc.NewCounter("graphql_operations_total", "Total GraphQL operations", []string{"operation", "status"}),
		Duration:   mc.NewHistogram("graphql_operation_duration_seconds", "GraphQL operation duration", []string{"operation"}, nil),
	}
	um := &pkgclients.UpstreamMetrics{
		Calls:    mc.NewCounter("upstream_calls_total", "Calls to external collaborators", []string{"service", "outcome"}),
		Duration: mc.NewHistogram("upstream_call_duration_seconds", "External collaborator call duration", []string{"service"}, nil),
		Open:     mc.NewGauge("upstream_circuit_open", "1 while the collaborator's circuit breaker rejects calls", []string{"service"}),
	}
	return gm, um
}

// breakerHealthCheck degrades the service while any collaborator's breaker
// is not closed. Upstream outages never make the API unhealthy.
func breakerHealthCheck(breakers []*pkgclients.CircuitBreaker) monitoring.HealthCheck {
	return func() monitoring.CheckResult {
		var tripped []string
		for _, cb := range breakers {
			if state := cb.State(); state != pkgclients.StateClosed {
				tripped = append(tripped, fmt.Sprintf("%s=%s", cb.Name(), state))
			}
		}
		if len(tripped) > 0 {
			return monitoring.CheckResult{
				Status:  monitoring.StatusDegraded,
				Message: "circuit breakers not closed: " + strings.Join(tripped, ", "),
			}
		}
		return monitoring.CheckResult{Status: monitoring.StatusHealthy, Message: "all circuit breakers closed"}
	}
}

func graphQLMiddleware(resolver session.Resolver, st store.Store, logger logging.Logger) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		middleware.SessionMiddleware(resolver, logger),
		middleware.LoadersMiddleware(st),
	}
}
