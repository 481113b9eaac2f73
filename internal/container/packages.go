package container

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/burnnote-go/internal/handlers"
	"github.com/serroba/burnnote-go/internal/health"
	"github.com/serroba/burnnote-go/internal/messaging"
	"github.com/serroba/burnnote-go/internal/middleware"
	"github.com/serroba/burnnote-go/internal/note"
	"github.com/serroba/burnnote-go/internal/ratelimit"
	"github.com/serroba/burnnote-go/internal/stats"
	statsstore "github.com/serroba/burnnote-go/internal/stats/store"
	"github.com/serroba/burnnote-go/internal/store"
	"github.com/serroba/burnnote-go/internal/sweeper"
	"go.uber.org/zap"
)

// consumerGroupName identifies the stats consumer group on the Redis streams.
const consumerGroupName = "burnnote-stats"

// LoggerPackage provides the zap logger used across the application.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the Redis client shared by the rate limit counters
// and the event streams.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// VaultPackage provides the note vault on top of the in-memory store.
func VaultPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*note.Vault, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		generate, err := note.NewGenerator(options.IDLength)
		if err != nil {
			return nil, err
		}

		return note.NewVault(store.NewNoteMemoryStore(), generate, logger), nil
	})
}

// AdmissionPackage provides the admission control pipeline. The memory
// backend keeps counters per process; redis shares them across replicas.
func AdmissionPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ratelimit.Admission, error) {
		options := do.MustInvoke[*Options](i)

		var counters ratelimit.Store
		if options.RateLimitBackend == "redis" {
			counters = store.NewRateLimitRedisStore(do.MustInvoke[*redis.Client](i))
		} else {
			counters = store.NewRateLimitMemoryStore()
		}

		builder := ratelimit.NewPolicyBuilder().
			AddLimit(ratelimit.ScopeGlobal, int64(options.GlobalLimit), options.GlobalWindow).
			AddLimit(ratelimit.ScopeWrite, int64(options.WriteLimit), options.WriteWindow)

		if options.SlowdownThreshold > 0 && options.SlowdownUnit > 0 {
			builder = builder.WithSlowdown(ratelimit.SlowdownConfig{
				Window:    options.SlowdownWindow,
				Threshold: int64(options.SlowdownThreshold),
				UnitDelay: options.SlowdownUnit,
				MaxDelay:  options.SlowdownMax,
			})
		}

		return ratelimit.NewAdmissionFromPolicy(counters, builder.Build()), nil
	})
}

// PublisherGroupPackage provides the event publisher and a typed publish
// function per usage event topic.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: client,
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[stats.NoteStoredEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[stats.NoteStoredEvent](group.Publisher(), stats.TopicNoteStored), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[stats.NoteConsumedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[stats.NoteConsumedEvent](group.Publisher(), stats.TopicNoteConsumed), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[stats.SweepCompletedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[stats.SweepCompletedEvent](group.Publisher(), stats.TopicSweepCompleted), nil
	})
}

// SweeperPackage provides the background sweeper that evicts expired notes.
func SweeperPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*sweeper.Sweeper, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		vault := do.MustInvoke[*note.Vault](i)
		publish := do.MustInvoke[messaging.Publish[stats.SweepCompletedEvent]](i)

		return sweeper.New(vault, options.NoteTTL, options.SweepInterval, publish, logger), nil
	})
}

// HTTPPackage provides the router and the API with all routes registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Handle("/metrics", promhttp.Handler())

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)
		vault := do.MustInvoke[*note.Vault](i)
		admission := do.MustInvoke[*ratelimit.Admission](i)
		publishStored := do.MustInvoke[messaging.Publish[stats.NoteStoredEvent]](i)
		publishConsumed := do.MustInvoke[messaging.Publish[stats.NoteConsumedEvent]](i)
		redisClient := do.MustInvoke[*redis.Client](i)

		api := humachi.New(router, huma.DefaultConfig("Burnnote", "1.0.0"))
		api.UseMiddleware(middleware.Admission(api, admission, ratelimit.NewOperationScopeResolver(), logger))

		noteTTL := options.NoteTTL
		if options.SweepInterval <= 0 {
			// Without sweeping nothing expires, so responses carry no expiry.
			noteTTL = 0
		}

		noteHandler := handlers.NewNoteHandler(
			vault,
			options.MaxNoteBytes,
			noteTTL,
			publishStored,
			publishConsumed,
			logger,
		)
		handlers.RegisterRoutes(api, noteHandler)

		health.RegisterRoutes(api, health.NewHandler(health.NewRedisChecker(redisClient), vault))

		return api, nil
	})
}

// StatsStorePackage provides the stats store. Without a PostgreSQL DSN the
// consumer falls back to a noop store that only logs events.
func StatsStorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (stats.Store, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if options.PostgresDSN == "" {
			logger.Info("no postgres dsn configured, events will not be persisted")

			return statsstore.NewNoop(logger), nil
		}

		pool, err := pgxpool.New(context.Background(), options.PostgresDSN)
		if err != nil {
			return nil, err
		}

		s := statsstore.NewPostgres(pool)
		if err := s.EnsureSchema(context.Background()); err != nil {
			pool.Close()

			return nil, err
		}

		return s, nil
	})
}

// ConsumerGroupPackage provides the consumer group with one consumer per
// usage event topic.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)
		statsStore := do.MustInvoke[stats.Store](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client,
			ConsumerGroup: consumerGroupName,
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		for _, consumer := range stats.NewConsumers(subscriber, statsStore, logger) {
			group.Add(consumer)
		}

		return group, nil
	})
}
