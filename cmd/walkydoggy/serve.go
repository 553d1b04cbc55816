package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"walkydoggy/internal/auth/adapters/email"
	"walkydoggy/internal/auth/adapters/postgres"
	authservices "walkydoggy/internal/auth/adapters/services"
	authapp "walkydoggy/internal/auth/app"
	"walkydoggy/internal/auth/db"
	"walkydoggy/internal/auth/domain/services"
	authapi "walkydoggy/internal/auth/ports/api"
	"walkydoggy/internal/config"
	"walkydoggy/internal/gateway/adapters/cache"
	"walkydoggy/internal/gateway/adapters/grpc/health"
	httpServer "walkydoggy/internal/gateway/adapters/http"
	"walkydoggy/internal/gateway/adapters/http/auth"
	"walkydoggy/internal/gateway/adapters/http/businesses"
	"walkydoggy/internal/gateway/adapters/http/catalog"
	"walkydoggy/internal/gateway/adapters/http/pets"
	"walkydoggy/internal/gateway/adapters/http/users"
	"walkydoggy/internal/gateway/adapters/http/workers"
	"walkydoggy/internal/gateway/app/http/middleware"
	cachedservices "walkydoggy/internal/gateway/app/services"
	"walkydoggy/internal/marketplace/adapters/accounts"
	"walkydoggy/internal/marketplace/adapters/mongo"
	"walkydoggy/internal/marketplace/adapters/storage"
	mpapp "walkydoggy/internal/marketplace/app"
	mpapi "walkydoggy/internal/marketplace/ports/api"
	mongodb "walkydoggy/pkg/db/mongo"
	redisdb "walkydoggy/pkg/db/redis"
	"walkydoggy/pkg/logger"
	"walkydoggy/pkg/metrics"
	"walkydoggy/pkg/resilience"
	"walkydoggy/pkg/shutdown"
)

// Константы для сообщений об ошибках.
const (
	ErrInitDB          = "failed to initialize accounts database"
	ErrInitMongo       = "failed to initialize marketplace database"
	ErrEnsureIndexes   = "failed to ensure marketplace indexes"
	ErrInitRedis       = "failed to initialize Redis"
	ErrInitStorage     = "failed to initialize photo storage"
	ErrInitNotifier    = "failed to initialize email notifier"
	ErrStartGRPC       = "failed to start gRPC health server"
	ErrStartHTTPServer = "failed to start HTTP server"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "walkydoggy service started"
	LogServiceShutdownDone = "walkydoggy service shutdown complete"
	LogInitStores          = "initializing stores"
	LogInitCache           = "initializing cache"
	LogCacheDisabled       = "redis is disabled, caches and shared rate limit are off"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogStoppingGRPC        = "stopping gRPC health server"
	LogClosingDB           = "closing database connections"
)

const (
	profileCachePrefix  = "walkydoggy:profile:"
	featuredCachePrefix = "walkydoggy:featured:"
	limiterPrefix       = "walkydoggy:limiter:"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API and gRPC health server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

// serve собирает зависимости и блокируется до сигнала завершения.
func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Log(ctx)

	log.Info(ctx, LogServiceStarted,
		zap.String("environment", cfg.App.Environment),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("startup_time", time.Now().Format(time.RFC3339)))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	log.Info(ctx, LogInitStores)
	accountsDB, err := db.New(ctx, &cfg.Postgres)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrInitDB, err)
	}

	marketDB, err := mongodb.New(ctx, mongodb.Options{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
		MaxPoolSize:    cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		accountsDB.Close(ctx)
		return fmt.Errorf("%s: %w", ErrInitMongo, err)
	}
	if err := mongo.EnsureIndexes(ctx, marketDB.DB()); err != nil {
		accountsDB.Close(ctx)
		_ = marketDB.Close(ctx)
		return fmt.Errorf("%s: %w", ErrEnsureIndexes, err)
	}

	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		log.Info(ctx, LogInitCache)
		redisClient, err = redisdb.NewClient(ctx, redisdb.Options{
			Addr:            cfg.Redis.GetAddress(),
			Password:        cfg.Redis.Password,
			DB:              cfg.Redis.DB,
			PoolSize:        cfg.Redis.PoolSize,
			MinIdle:         cfg.Redis.MinIdle,
			ConnectTimeout:  cfg.Redis.ConnectTimeout,
			ReadTimeout:     cfg.Redis.ReadTimeout,
			WriteTimeout:    cfg.Redis.WriteTimeout,
			IdleTimeout:     cfg.Redis.IdleTimeout,
			MaxConnLifetime: cfg.Redis.MaxConnLifetime,
		})
		if err != nil {
			accountsDB.Close(ctx)
			_ = marketDB.Close(ctx)
			return fmt.Errorf("%s: %w", ErrInitRedis, err)
		}
	} else {
		log.Warn(ctx, LogCacheDisabled)
	}

	closeStores := func(ctx context.Context) error {
		log.Info(ctx, LogClosingDB)
		accountsDB.Close(ctx)
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return marketDB.Close(ctx)
	}

	log.Info(ctx, LogInitServices)
	serviceFactory := authservices.NewServiceFactory(services.JWTConfig{
		AccessSecret:    []byte(cfg.JWT.AccessSecret),
		RefreshSecret:   []byte(cfg.JWT.RefreshSecret),
		AccessTokenTTL:  cfg.JWT.GetAccessTokenTTL(),
		RefreshTokenTTL: cfg.JWT.GetRefreshTokenTTL(),
	}, cfg.JWT.BCryptCost)

	notifier, err := email.New(cfg.Email, cfg.App,
		email.WithResilience(resilience.NewServiceResilience("smtp")),
		email.WithMetrics(m))
	if err != nil {
		_ = closeStores(ctx)
		return fmt.Errorf("%s: %w", ErrInitNotifier, err)
	}

	photos, err := storage.NewS3Storage(ctx, cfg.Storage)
	if err != nil {
		_ = closeStores(ctx)
		return fmt.Errorf("%s: %w", ErrInitStorage, err)
	}

	log.Info(ctx, LogInitUseCases)
	accountRepo := postgres.NewRepositoryFactory(accountsDB.Pool()).AccountRepository()
	repos := mongo.NewRepositoryFactory(marketDB.DB())
	directory := accounts.NewDirectory(accountRepo)

	sessions := authapp.NewSessionUseCase(
		accountRepo,
		serviceFactory.PasswordService(),
		serviceFactory.TokenService(),
		serviceFactory.SecretService(),
		notifier,
		authapp.WithMetrics(m),
	)
	var accountUseCase authapi.AccountUseCase = authapp.NewAccountUseCase(accountRepo, serviceFactory.PasswordService())
	var businessUseCase mpapi.BusinessUseCase = mpapp.NewBusinessUseCase(repos.BusinessRepository(), directory)
	petUseCase := mpapp.NewPetUseCase(repos.PetRepository(), directory, photos)
	catalogUseCase := mpapp.NewCatalogUseCase(repos.ServiceRepository(), repos.BusinessRepository())
	workerUseCase := mpapp.NewWorkerUseCase(repos.WorkerRepository(), repos.BusinessRepository(), repos.ServiceRepository(), directory)

	var limiterStorage fiber.Storage
	if redisClient != nil {
		accountUseCase = cachedservices.NewProfileCache(accountUseCase,
			cache.NewRedisCache(redisClient, profileCachePrefix, cfg.Redis.ProfileTTL), cfg.Redis.ProfileTTL, m)
		businessUseCase = cachedservices.NewFeaturedCache(businessUseCase,
			cache.NewRedisCache(redisClient, featuredCachePrefix, cfg.Redis.FeaturedTTL), cfg.Redis.FeaturedTTL, m)
		limiterStorage = cache.NewLimiterStorage(redisClient, limiterPrefix)
	}

	log.Info(ctx, LogInitHTTPServer)
	app := httpServer.NewApp(cfg.HTTP)
	httpServer.SetupRouter(app, httpServer.Handlers{
		Auth: auth.NewHandler(sessions, auth.CookieConfig{
			Secure: cfg.App.IsProduction(),
			TTL:    cfg.JWT.GetRefreshTokenTTL(),
		}),
		Users:      users.NewHandler(accountUseCase, sessions),
		Pets:       pets.NewHandler(petUseCase),
		Businesses: businesses.NewHandler(businessUseCase),
		Catalog:    catalog.NewHandler(catalogUseCase),
		Workers:    workers.NewHandler(workerUseCase),
	}, httpServer.RouterConfig{
		Guard:          middleware.NewGuard(sessions),
		Metrics:        m,
		CORSOrigins:    cfg.HTTP.GetCORSOrigins(cfg.App.ClientURL),
		RateLimit:      cfg.RateLimit,
		LimiterStorage: limiterStorage,
		Environment:    cfg.App.Environment,
	})

	probes := map[string]health.Probe{
		"postgres": accountsDB.Ping,
		"mongo":    marketDB.Ping,
	}
	if redisClient != nil {
		probes["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	grpcServer := health.New(&cfg.GRPC, probes)
	if err := grpcServer.Start(runCtx); err != nil {
		_ = closeStores(ctx)
		return fmt.Errorf("%s: %w", ErrStartGRPC, err)
	}

	log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
	go func() {
		if err := app.Listen(cfg.HTTP.GetAddress(), fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			stop()
		}
	}()

	err = shutdown.Wait(runCtx, cfg.Shutdown.GetTimeout(),
		// Остановка HTTP сервера.
		func(ctx context.Context) error {
			log.Info(ctx, LogStoppingHTTP)
			return app.ShutdownWithContext(ctx)
		},
		// Остановка gRPC сервера здоровья.
		func(ctx context.Context) error {
			log.Info(ctx, LogStoppingGRPC)
			stop()
			grpcServer.Stop(ctx)
			return nil
		},
	)
	if closeErr := closeStores(context.WithoutCancel(ctx)); closeErr != nil && err == nil {
		err = closeErr
	}

	log.Info(ctx, LogServiceShutdownDone)
	return err
}
