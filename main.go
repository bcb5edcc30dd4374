package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/veekshithcb/Qkartbackend/auth"
	"github.com/veekshithcb/Qkartbackend/config"
	"github.com/veekshithcb/Qkartbackend/controllers"
	"github.com/veekshithcb/Qkartbackend/database"
	"github.com/veekshithcb/Qkartbackend/events"
	"github.com/veekshithcb/Qkartbackend/logger"
	"github.com/veekshithcb/Qkartbackend/middleware"
	aws_pkg "github.com/veekshithcb/Qkartbackend/pkg/aws"
	"github.com/veekshithcb/Qkartbackend/repository"
	"github.com/veekshithcb/Qkartbackend/routes"
	"github.com/veekshithcb/Qkartbackend/services"
	"go.uber.org/zap"
)

func main() {
	decimal.MarshalJSONWithoutQuotes = true
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic("config load failed: " + err.Error())
	}

	log, err := logger.Initialize(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err.Error())
	}
	defer log.Sync()

	// --- Database ---
	mongoClient, db, err := database.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		log.Fatal("MongoDB connection failed", zap.Error(err))
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("MongoDB index setup failed", zap.Error(err))
	}
	log.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	var redisClient *redis.Client
	var idem repository.IdempotencyStore
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("Redis connection failed", zap.Error(err))
		}
		idem = repository.NewRedisIdempotencyStore(redisClient)
		log.Info("Connected to Redis, checkout idempotency enabled")
	}

	// --- Events ---
	publisher, closePublisher, err := newPublisher(ctx, cfg)
	if err != nil {
		log.Fatal("Event publisher setup failed", zap.Error(err))
	}

	// --- Dependency injection ---
	tokenService, err := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatal("Token service setup failed", zap.Error(err))
	}

	accountRepo := repository.NewMongoAccountRepository(db)
	accountService := services.NewAccountService(accountRepo, tokenService, services.AccountServiceConfig{
		DefaultAddress:     cfg.DefaultAddress,
		DefaultWalletMoney: cfg.DefaultWalletMoney,
	}, log)
	cartService := services.NewCartService(
		repository.NewMongoProductCatalog(db),
		repository.NewMongoCartRepository(db),
		accountRepo,
		repository.NewMongoTransactor(mongoClient),
		idem,
		publisher,
		services.CartServiceConfig{
			DefaultAddress:       cfg.DefaultAddress,
			DefaultPaymentOption: cfg.DefaultPaymentOption,
			IdempotencyTTL:       cfg.IdempotencyTTL,
			IdempotencyLockTTL:   cfg.IdempotencyLockTTL,
		},
		log,
	)

	// --- HTTP router ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewServerMetrics(registry, "cart_service")

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log, middleware.UserContextKey))
	r.Use(metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", logger.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst))

	routes.RegisterRoutes(r,
		middleware.Authenticate(tokenService, accountService),
		controllers.NewAuthController(accountService),
		controllers.NewUserController(accountService),
		controllers.NewCartController(cartService),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "cart-service"})
	})
	r.GET("/metrics", gin.WrapH(middleware.Handler(registry)))

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("Cart Service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if err := closePublisher(); err != nil {
		log.Error("Event publisher close error", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Redis close error", zap.Error(err))
		}
	}
	if err := database.Close(mongoClient); err != nil {
		log.Error("Database close error", zap.Error(err))
	}
	log.Info("Cart Service stopped gracefully")
}

func newPublisher(ctx context.Context, cfg *config.Config) (events.Publisher, func() error, error) {
	noClose := func() error { return nil }

	switch cfg.EventSink {
	case "kafka":
		producer, err := events.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, nil, err
		}
		return producer, producer.Close, nil
	case "sns":
		awsCfg, err := aws_pkg.LoadAWSConfig(ctx, cfg.AWSRegion, cfg.AWSEndpoint)
		if err != nil {
			return nil, nil, err
		}
		return events.NewSNSPublisher(aws_pkg.NewSNSClient(awsCfg), cfg.CheckoutSNSTopicARN), noClose, nil
	default:
		return events.NopPublisher{}, noClose, nil
	}
}
