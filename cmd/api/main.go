package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-profile-backend/config"
	_ "go-profile-backend/docs" // Important for Swagger
	"go-profile-backend/internal/delivery/http/middleware"
	v1 "go-profile-backend/internal/delivery/http/v1"
	"go-profile-backend/internal/domain"
	"go-profile-backend/internal/repository/memory"
	"go-profile-backend/internal/repository/mongodb"
	"go-profile-backend/internal/repository/postgres"
	"go-profile-backend/internal/usecase"
	"go-profile-backend/pkg/auth"
	"go-profile-backend/pkg/database"
	"go-profile-backend/pkg/logger"
	"go-profile-backend/pkg/redis"
	"go-profile-backend/pkg/security"
	"go-profile-backend/pkg/telemetry"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// @title           Profile Backend API
// @version         1.0
// @description     User accounts and developer profiles with experience and education.
// @host            localhost:5000
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// 2. Setup Logger
	log := logger.New(cfg.AppEnv)
	defer func() { _ = log.Sync() }()
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info("Starting profile backend", zap.String("port", cfg.Port), zap.String("storage", cfg.StorageDriver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Telemetry
	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
		ServiceName: cfg.ServiceName,
		Environment: cfg.AppEnv,
	})
	if err != nil {
		log.Error("Failed to init telemetry", err)
		os.Exit(1)
	}

	// 4. Setup Storage
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to open storage", err)
		os.Exit(1)
	}
	defer store.close()

	// 5. Redis (optional)
	redisClient, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	if err != nil {
		if !errors.Is(err, redis.ErrNotConfigured) {
			log.Warn("Redis unavailable, rate limiting uses in-memory counters", zap.Error(err))
		}
	} else {
		defer redisClient.Close()
		store.health["redis"] = usecase.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// 6. Setup UseCases
	var jwks *auth.Provider
	if cfg.JWKSUrl != "" {
		jwks = auth.NewProvider(cfg.JWKSUrl)
	}
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL, jwks)
	loginTracker := security.NewLoginTracker(security.DefaultLoginTrackerConfig(), redisClient)
	authUC := usecase.NewAuthUsecase(store.users, jwtService, loginTracker, log)
	profileUC := usecase.NewProfileUsecase(store.profiles, store.users, log)
	healthUC := usecase.NewHealthUsecase(store.health)

	limiter := middleware.NewRateLimiter(redisClient, log)
	go limiter.Cleanup(ctx, 5*time.Minute)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:      authUC,
		ProfileUC:   profileUC,
		HealthUC:    healthUC,
		JWTService:  jwtService,
		RateLimiter: limiter,
		Logger:      log,
		Config:      cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, cfg.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Listen failed", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exiting")
}

type store struct {
	users    domain.UserRepository
	profiles domain.ProfileRepository
	health   map[string]usecase.Pinger
	close    func()
}

// openStore wires Postgres users and Mongo profiles, or in-process maps for
// STORAGE_DRIVER=memory.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (*store, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn("Using in-memory storage; data is lost on restart")
		return &store{
			users:    memory.NewUserRepository(),
			profiles: memory.NewProfileRepository(),
			health:   map[string]usecase.Pinger{},
			close:    func() {},
		}, nil
	}

	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, err
	}

	mongoClient, err := database.NewMongoConnection(ctx, cfg.MongoURI)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	db := mongoClient.Database(cfg.MongoDatabase)
	if err := mongodb.EnsureProfileIndexes(ctx, db); err != nil {
		dbPool.Close()
		_ = mongoClient.Disconnect(context.Background())
		return nil, err
	}

	return &store{
		users:    postgres.NewUserRepository(dbPool),
		profiles: mongodb.NewProfileRepository(db),
		health: map[string]usecase.Pinger{
			"postgres": usecase.PingFunc(dbPool.Ping),
			"mongo": usecase.PingFunc(func(ctx context.Context) error {
				return mongoClient.Ping(ctx, readpref.Primary())
			}),
		},
		close: func() {
			dbPool.Close()
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.Warn("Mongo disconnect failed", zap.Error(err))
			}
		},
	}, nil
}
