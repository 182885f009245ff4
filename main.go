package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ideaforge-be/internal/cache"
	"ideaforge-be/internal/config"
	"ideaforge-be/internal/controllers"
	"ideaforge-be/internal/database"
	"ideaforge-be/internal/jwt"
	"ideaforge-be/internal/llm"
	"ideaforge-be/internal/logging"
	"ideaforge-be/internal/middleware"
	"ideaforge-be/internal/repository"
	"ideaforge-be/internal/search"
	"ideaforge-be/internal/service"
	"ideaforge-be/internal/workflow"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func main() {
	logger := logging.NewJSON(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		logger.Error(ctx, "JWT_SECRET is required")
		os.Exit(1)
	}
	if cfg.OpenAIAPIKey == "" {
		logger.Warn(ctx, "OPENAI_API_KEY is not set, idea generation will fail")
	}

	// Connect to database
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		logger.Error(ctx, "failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Redis is optional: without it search results are not cached and logout only clears the cookie
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Warn(ctx, "redis unavailable, continuing without cache", "error", err)
			cacheClient = nil
		} else {
			logger.Info(ctx, "connected to redis cache")
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	ideaRepo := repository.NewIdeaRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTTTL)*time.Hour)

	// Generation pipeline
	searchClient := search.NewClient(cfg.TavilyAPIKey, cfg.TavilyBaseURL, logger,
		search.WithCache(cacheClient, time.Duration(cfg.SearchCacheTTL)*time.Minute))
	if !searchClient.Enabled() {
		logger.Warn(ctx, "TAVILY_API_KEY is not set, web search disabled")
	}
	generator := llm.NewGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenAITemperature)
	pipeline := workflow.New(searchClient, generator, logger.With("component", "workflow"))

	// Services
	authService := service.NewAuthService(userRepo, jwtService, cacheClient, logger.With("component", "auth"))
	ideaService := service.NewIdeaService(ideaRepo, pipeline, logger.With("component", "ideas"))

	// Controllers
	secureCookie := cfg.GinMode == gin.ReleaseMode
	authController := controllers.NewAuthController(authService, secureCookie)
	ideaController := controllers.NewIdeaController(ideaService)
	qrcodeController := controllers.NewQRCodeController(ideaService, cfg.FrontendURL)

	// Rate limiters
	generalRateLimiter := middleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, middleware.ByIP)
	authRateLimiter := middleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitAuthRPS), cfg.RateLimitAuthBurst, middleware.ByIP)
	generateRateLimiter := middleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitGenerateRPS), cfg.RateLimitGenerateBurst, middleware.ByUser)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Health check endpoint (no rate limiting)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := router.Group("/api/v1")
	api.Use(generalRateLimiter.LimitMiddleware())
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authRateLimiter.LimitMiddleware(), authController.Register)
			auth.POST("/login", authRateLimiter.LimitMiddleware(), authController.Login)
			auth.POST("/logout", authController.Logout)
		}

		// Protected routes - require a session
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService, authService))
		{
			protected.GET("/dashboard", ideaController.Dashboard)

			protected.POST("/ideas/generate",
				generateRateLimiter.LimitMiddleware(),
				middleware.RequestTimeout(time.Duration(cfg.GenerateTimeout)*time.Second),
				ideaController.Generate,
			)
			protected.GET("/ideas/history", ideaController.History)
			protected.GET("/ideas/:id", ideaController.View)
			protected.GET("/ideas/:id/qrcode", qrcodeController.GenerateQRCode)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "graceful shutdown failed", "error", err)
	}
	logger.Info(shutdownCtx, "server stopped")
}
