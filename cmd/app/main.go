package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"broadcast-tool-backend/docs"
	"broadcast-tool-backend/internal/common/config"
	"broadcast-tool-backend/internal/common/logger"
	"broadcast-tool-backend/internal/common/middleware"
	authhttp "broadcast-tool-backend/internal/features/auth/delivery/http"
	authservice "broadcast-tool-backend/internal/features/auth/service"
	playlisthttp "broadcast-tool-backend/internal/features/playlist/delivery/http"
	playlistfile "broadcast-tool-backend/internal/features/playlist/repository/file"
	playlistservice "broadcast-tool-backend/internal/features/playlist/service"
	streamhttp "broadcast-tool-backend/internal/features/stream/delivery/http"
	streamws "broadcast-tool-backend/internal/features/stream/delivery/ws"
	streamredis "broadcast-tool-backend/internal/features/stream/repository/redis"
	streamservice "broadcast-tool-backend/internal/features/stream/service"
	userhttp "broadcast-tool-backend/internal/features/user/delivery/http"
	userpostgres "broadcast-tool-backend/internal/features/user/repository/postgres"
	userrediscache "broadcast-tool-backend/internal/features/user/repository/rediscache"
	userservice "broadcast-tool-backend/internal/features/user/service"
	"broadcast-tool-backend/internal/platform/postgres"
	"broadcast-tool-backend/internal/platform/redis"
	"broadcast-tool-backend/internal/workers"
)

// @title           Broadcast Tool API
// @version         1.0
// @description     Management API for a 24/7 Telegram video broadcast: accounts and roles, the shared playlist, and control of the companion streamer process.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token, prefixed with "Bearer "

// @tag.name auth
// @tag.description Login, token refresh, current account, Telegram linking

// @tag.name users
// @tag.description Account administration (admin only)

// @tag.name playlist
// @tag.description Shared playlist file management

// @tag.name stream
// @tag.description Broadcast control and observability

func main() {
	cfg := config.Load()

	logger.Init("broadcast-tool-backend", cfg.Debug)

	logger.Info().
		Bool("debug", cfg.Debug).
		Msg("Starting Broadcast Tool Backend")

	// Root context cancelled on SIGINT/SIGTERM; workers hang off it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	postgresClient, err := postgres.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer postgresClient.Close()

	if err := postgresClient.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to prepare database schema")
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Repositories. Account lookups sit behind a short Redis cache because
	// the status check runs on every authenticated request.
	userRepository := userrediscache.NewCachingRepository(
		userpostgres.NewPostgresRepository(postgresClient.GetDB()),
		redisClient, 30*time.Second,
	)
	playlistRepository := playlistfile.NewFileRepository(cfg.Playlist.Path)
	streamRepository := streamredis.NewStreamRepository(redisClient)

	// Services
	userSvc := userservice.NewUserService(userRepository)
	authSvc := authservice.NewAuthService(
		userRepository, redisClient,
		cfg.Auth.JWTSecret, cfg.Telegram.BotToken,
		cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL,
	)
	playlistSvc := playlistservice.NewPlaylistService(playlistRepository, redisClient, cfg.Playlist.MaxTracks)
	streamSvc := streamservice.NewStreamService(streamRepository, streamservice.Options{
		CommandTimeout: cfg.Stream.CommandTimeout,
		PollInterval:   cfg.Stream.PollInterval,
	})

	logger.Info().Msg("Repositories and services initialized")

	// Background workers
	logHub := streamws.NewLogHub(streamRepository)
	go logHub.Run(ctx)

	collector := workers.NewMetricsCollector(streamRepository, postgresClient.GetDB(), 5*time.Second)
	go collector.Start(ctx)

	if cfg.Recovery.Enabled {
		recovery := workers.NewRecoveryWorker(streamRepository, workers.RecoveryConfig{
			CheckInterval:  cfg.Recovery.CheckInterval,
			HeartbeatGrace: cfg.Recovery.HeartbeatGrace,
			BackoffBase:    cfg.Recovery.BackoffBase,
			BackoffMax:     cfg.Recovery.BackoffMax,
			MaxRetries:     cfg.Recovery.MaxRetries,
		})
		go recovery.Start(ctx)
	}

	// HTTP router
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	setupRoutes(router, cfg, authSvc, userSvc, playlistSvc, streamSvc, logHub, postgresClient, redisClient)

	logger.Info().Msg("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authSvc authservice.AuthService,
	userSvc userservice.UserService,
	playlistSvc playlistservice.PlaylistService,
	streamSvc streamservice.StreamService,
	logHub *streamws.LogHub,
	postgresClient *postgres.Client,
	redisClient *goredis.Client,
) {
	api := router.Group("/api")

	// Login and refresh are the only unauthenticated API routes.
	authhttp.NewAuthHandler(authSvc, userSvc).RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.Authenticate(authSvc))
	protected.Use(middleware.CheckAccountStatus(userSvc))
	{
		userhttp.NewUserHandler(userSvc).RegisterRoutes(protected)
		playlisthttp.NewPlaylistHandler(playlistSvc).RegisterRoutes(protected)
		streamhttp.NewStreamHandler(streamSvc, logHub).RegisterRoutes(protected)
	}

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API docs
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "broadcast-tool-backend",
		})
	})

	// Liveness probe
	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Readiness probe
	router.GET("/ready", func(c *gin.Context) {
		probeCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := postgresClient.HealthCheck(probeCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "postgres unavailable",
				"details": err.Error(),
			})
			return
		}

		if err := redisClient.Ping(probeCtx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "redis unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   "broadcast-tool-backend",
		})
	})
}
