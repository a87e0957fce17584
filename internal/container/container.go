package container

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/avelar/linkshort/internal/cachewarm"
	"github.com/avelar/linkshort/internal/handlers"
	"github.com/avelar/linkshort/internal/health"
	"github.com/avelar/linkshort/internal/middleware"
	"github.com/avelar/linkshort/internal/ratelimit"
	"github.com/avelar/linkshort/internal/shortener"
	"github.com/avelar/linkshort/internal/store"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// Options is the shared configuration surface for all binaries.
type Options struct {
	Port        int    `default:"8080"                              help:"Port to listen on"                      short:"p"`
	BaseURL     string `default:""                                  help:"Public base URL for short links (defaults to http://localhost:<port>)"`
	RedisAddr   string `default:"localhost:6379"                    help:"Redis server address"                   short:"r"`
	PostgresDSN string `default:"postgres://localhost:5432/linkshort" help:"PostgreSQL connection string"`
	LogFormat   string `default:"console"                           enum:"console,json"                           help:"Log format"`
}

// LoggerPackage provides the process-wide zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)
		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the shared Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the shared connection pool.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		return pgxpool.New(context.Background(), options.PostgresDSN)
	})
}

// ShortenerPackage provides the durable store, the cache, and the resolution
// service over them.
func ShortenerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Store, error) {
		return store.NewPostgresStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (shortener.Cache, error) {
		return store.NewRedisCache(do.MustInvoke[*redis.Client](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		return shortener.NewService(
			do.MustInvoke[shortener.Store](i),
			do.MustInvoke[shortener.Cache](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// RateLimitPackage provides the policy limiter backed by Redis, so every
// front end enforces one shared budget per client.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Store, error) {
		return store.NewRateLimitRedisStore(do.MustInvoke[*redis.Client](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		return ratelimit.NewPolicyLimiter(
			do.MustInvoke[ratelimit.Store](i),
			ratelimit.DefaultPolicy(),
		), nil
	})
	do.Provide(injector, func(_ *do.Injector) (ratelimit.ScopeResolver, error) {
		return ratelimit.NewOperationScopeResolver(), nil
	})
}

// PublisherPackage provides the Redis Streams publisher for cache warming
// events.
func PublisherPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*cachewarm.Publisher, error) {
		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: do.MustInvoke[*redis.Client](i),
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		return cachewarm.NewPublisher(publisher), nil
	})
}

// ListenerPackage provides the cache warming listener for the warmer binary.
func ListenerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*cachewarm.Listener, error) {
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client,
			ConsumerGroup: "cachewarm",
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		warmer := cachewarm.NewWarmer(store.NewRedisCache(client), logger)

		return cachewarm.NewListener(subscriber, warmer, logger), nil
	})
}

// HTTPPackage provides the router and the huma API with middleware and routes
// registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, huma.DefaultConfig("linkshort", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))
		api.UseMiddleware(middleware.PolicyRateLimiter(
			api,
			do.MustInvoke[*ratelimit.PolicyLimiter](i),
			do.MustInvoke[ratelimit.ScopeResolver](i),
			logger,
		))

		baseURL := options.BaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://localhost:%d", options.Port)
		}

		urlHandler := handlers.NewURLHandler(
			do.MustInvoke[*shortener.Service](i),
			baseURL,
			do.MustInvoke[*cachewarm.Publisher](i).MappingCreated,
			logger,
		)
		handlers.RegisterRoutes(api, urlHandler)

		healthHandler := health.NewHandler(
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
			health.NewPostgresChecker(do.MustInvoke[*pgxpool.Pool](i)),
		)
		health.RegisterRoutes(api, healthHandler)

		return api, nil
	})
}
