package main

import (
	"github.com/Zayan93/yatube/internal/cache"
	"github.com/Zayan93/yatube/internal/router"
	"github.com/Zayan93/yatube/pkg/config"
	"github.com/Zayan93/yatube/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger := config.InitLogger(cfg)

	// Initialize database connection
	db, err := config.InitDB(cfg.PostgresURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer config.CloseDB(db)

	// The feed page cache: Redis when configured, in-process otherwise
	var pageCache cache.PageCache
	if cfg.RedisAddr != "" {
		client, err := config.InitRedis(cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize redis")
		}
		defer client.Close()
		pageCache = cache.NewRedisCache(client, "yatube:")
		logger.Info().Str("addr", cfg.RedisAddr).Msg("feed cache backed by redis")
	} else {
		pageCache = cache.NewMemoryCache()
		logger.Info().Msg("feed cache held in process memory")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, db, pageCache, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to set up routes")
	}

	// Start server
	logger.Fatal().Err(e.Start(":" + cfg.Port)).Msg("server stopped")
}
