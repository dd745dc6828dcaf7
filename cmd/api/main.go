package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/config"
	"github.com/dafibh/fortuna/famfin-backend/internal/handler"
	"github.com/dafibh/fortuna/famfin-backend/internal/middleware"
	"github.com/dafibh/fortuna/famfin-backend/internal/repository/postgres"
	"github.com/dafibh/fortuna/famfin-backend/internal/service"
	"github.com/dafibh/fortuna/famfin-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	transactionRepo := postgres.NewTransactionRepository(pool)
	creditCardRepo := postgres.NewCreditCardRepository(pool)
	familyRepo := postgres.NewFamilyRepository(pool)
	goalRepo := postgres.NewGoalRepository(pool)

	// Initialize WebSocket hub; it doubles as the event publisher
	hub := websocket.NewHub()

	// Initialize services
	familyService := service.NewFamilyService(familyRepo)
	creditCardService := service.NewCreditCardService(creditCardRepo, transactionRepo, familyService)
	creditCardService.SetEventPublisher(hub)
	transactionService := service.NewTransactionService(transactionRepo, creditCardRepo, familyService)
	transactionService.SetEventPublisher(hub)
	commitmentService := service.NewCommitmentService(transactionRepo, familyService)
	dashboardService := service.NewDashboardService(transactionRepo, creditCardRepo, goalRepo, familyService)
	goalService := service.NewGoalService(goalRepo, familyService)

	// Start the daily card status sweep
	cardStatusWorker := service.NewCardStatusWorker(creditCardRepo, transactionRepo, familyService, hub, log.Logger,
		service.CardStatusWorkerConfig{
			Schedule: cfg.CardStatusSchedule,
			Location: cfg.Location,
		})
	if err := cardStatusWorker.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start card status worker")
	}

	// Initialize auth middleware and rate limiter
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, middleware.DefaultBurstSize)
	defer rateLimiter.Stop()

	jwtValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket token validator")
	}

	// Initialize handlers
	handlers := handler.Handlers{
		CreditCard:  handler.NewCreditCardHandler(creditCardService, time.Now, cfg.Location),
		Transaction: handler.NewTransactionHandler(transactionService),
		Commitment:  handler.NewCommitmentHandler(commitmentService, time.Now, cfg.Location),
		Dashboard:   handler.NewDashboardHandler(dashboardService, time.Now, cfg.Location),
		Family:      handler.NewFamilyHandler(familyService),
		Goal:        handler.NewGoalHandler(goalService),
	}
	websocketHandler := handler.NewWebSocketHandler(hub, jwtValidator, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// WebSocket endpoint authenticates through the token query param
	e.GET("/ws", websocketHandler.HandleWS)

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cardStatusWorker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
