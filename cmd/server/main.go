package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Baaaki/backyard-marquee/internal/catalog"
	"github.com/Baaaki/backyard-marquee/internal/config"
	"github.com/Baaaki/backyard-marquee/internal/database"
	"github.com/Baaaki/backyard-marquee/internal/handler"
	"github.com/Baaaki/backyard-marquee/internal/middleware"
	"github.com/Baaaki/backyard-marquee/internal/repository"
	"github.com/Baaaki/backyard-marquee/internal/security"
	"github.com/Baaaki/backyard-marquee/internal/server"
	"github.com/Baaaki/backyard-marquee/internal/service"
	"github.com/Baaaki/backyard-marquee/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Redis is optional. Without it there is no rate limiting and no artist cache.
	var (
		rdb         *redis.Client
		rateLimiter *middleware.RateLimiter
		artistCache *catalog.Cache
	)
	if cfg.RedisURL != "" {
		rdb, err = database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer rdb.Close()

		rateLimiter = middleware.NewRateLimiter(rdb, middleware.RateLimiterConfig{
			MaxRequests: cfg.RateLimitMaxRequests,
			Window:      cfg.RateLimitWindow,
		})
		artistCache = catalog.NewCache(rdb, cfg.ArtistCacheTTL)
	} else {
		logger.Log.Warn("REDIS_URL not set: rate limiting and artist cache disabled")
	}

	tokens, err := security.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		logger.Log.Fatal("Failed to create token manager", zap.Error(err))
	}
	hasher := security.NewPasswordHasher(security.DefaultParams)

	catalogClient := catalog.NewClient(catalog.Options{
		APIKey:    cfg.LastFMAPIKey,
		BaseURL:   cfg.LastFMBaseURL,
		Timeout:   cfg.LastFMTimeout,
		RateLimit: cfg.LastFMRateLimit,
	}, nil, logger.Named("catalog"))
	if !catalogClient.Configured() {
		logger.Log.Warn("LASTFM_API_KEY not set: artist search returns placeholders")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	lineupRepo := repository.NewLineupRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, hasher, tokens)
	lineupService := service.NewLineupService(lineupRepo)
	statsService := service.NewStatsService(statsRepo, lineupRepo)
	artistService := service.NewArtistService(catalogClient, artistCache)

	router := server.NewRouter(server.Deps{
		Tokens:         tokens,
		RateLimiter:    rateLimiter,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Production:     cfg.IsProduction(),
		StaticDir:      cfg.StaticDir,
		Auth:           handler.NewAuthHandler(authService),
		Lineups:        handler.NewLineupHandler(lineupService),
		Artists:        handler.NewArtistHandler(artistService),
		Stats:          handler.NewStatsHandler(statsService),
		Health:         handler.NewHealthHandler(db),
	})

	logger.Log.Info("Starting server",
		zap.String("port", cfg.ServerPort),
		zap.String("environment", cfg.Environment),
		zap.String("database_driver", cfg.DatabaseDriver),
	)
	if err := server.New(cfg.ServerPort, router).Run(ctx); err != nil {
		logger.Log.Error("Server stopped with error", zap.Error(err))
	}
}
