// Package app wires the service together: configuration, storage, the
// domain aggregate, permissions, events, and the HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/addressbook/internal/auth"
	"github.com/utafrali/addressbook/internal/config"
	"github.com/utafrali/addressbook/internal/domain"
	"github.com/utafrali/addressbook/internal/event"
	"github.com/utafrali/addressbook/internal/field"
	handler "github.com/utafrali/addressbook/internal/handler/http"
	"github.com/utafrali/addressbook/internal/hook"
	"github.com/utafrali/addressbook/internal/permission"
	"github.com/utafrali/addressbook/internal/repository/postgres"
	"github.com/utafrali/addressbook/internal/service"
	"github.com/utafrali/addressbook/migrations"
	"github.com/utafrali/addressbook/pkg/database"
	"github.com/utafrali/addressbook/pkg/health"
	"github.com/utafrali/addressbook/pkg/kafka"
)

// App holds the service's long-lived components.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool     *pgxpool.Pool
	redis    *redis.Client
	producer *kafka.Producer
	server   *http.Server
}

// New builds the service. Failing to reach PostgreSQL is fatal; Kafka and
// Redis being down degrade (events dropped with errors logged, role grants
// uncached) but do not prevent startup.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pgCfg := cfg.PostgresConfig()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	producer := kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)

	var redisClient *redis.Client
	if cfg.RedisEnabled {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisConfig())
		if err != nil {
			logger.Warn("redis unavailable, role grants will not be cached",
				slog.String("error", err.Error()),
			)
			redisClient = nil
		}
	}

	hooks := hook.NewRegistry()
	fields := field.DefaultRegistry()

	publisher := event.NewPublisher(producer, logger)
	publisher.Register(hooks)

	store := postgres.NewAddressRepository(pool)
	books := domain.NewManager(store, hooks, fields, domain.NewIDSequence(), logger)

	var roles permission.RoleSource = permission.DefaultRoleGrants()
	if redisClient != nil {
		roles = permission.NewCachedRoleSource(redisClient, roles, cfg.GrantsCacheTTL, logger)
	}
	evaluator := permission.NewEvaluator(hooks, cfg.SuperUserID)

	addressService := service.NewAddressService(books, evaluator, roles, logger)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("kafka", producer.Ping)
	if redisClient != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	router := handler.NewRouter(
		handler.NewAddressHandler(addressService, logger),
		jwtManager.MiddlewareValidator(),
		healthHandler,
		logger,
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
		server:   server,
	}, nil
}

// Run starts the HTTP server and blocks until it stops.
func (a *App) Run() error {
	a.logger.Info("starting http server", slog.String("addr", a.server.Addr))
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops the server and closes connections in dependency order.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down")

	var firstErr error
	if err := a.server.Shutdown(ctx); err != nil {
		firstErr = fmt.Errorf("shutdown http server: %w", err)
	}
	if err := a.producer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close kafka producer: %w", err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close redis client: %w", err)
		}
	}
	a.pool.Close()

	return firstErr
}
