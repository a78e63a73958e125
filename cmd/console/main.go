package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/coursecraft/instructor-console/docs"
	"github.com/coursecraft/instructor-console/internal/apiclient"
	"github.com/coursecraft/instructor-console/internal/config"
	"github.com/coursecraft/instructor-console/internal/handlers"
	"github.com/coursecraft/instructor-console/internal/logger"
	"github.com/coursecraft/instructor-console/internal/middleware"
	"github.com/coursecraft/instructor-console/internal/services"
)

// @title CourseCraft Instructor Console API
// @version 1.0
// @description Session-scoped editing console for course content: course tree, undo/redo history and entity CRUD proxied to the course backend.

// @host localhost:8080
// @BasePath /api/console/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting CourseCraft Instructor Console")

	// Session manager with a per-session API client bound to that
	// session's bearer token
	factory := func(tokenSource func() string, onUnauthorized func()) services.EntityAPI {
		return apiclient.New(cfg.Backend.BaseURL,
			apiclient.WithAuthBaseURL(cfg.Backend.AuthBaseURL),
			apiclient.WithTimeout(cfg.Backend.Timeout),
			apiclient.WithTokenSource(tokenSource),
			apiclient.WithOnUnauthorized(onUnauthorized),
			apiclient.WithLogger(logger.Logger),
		)
	}
	sessionManager := services.NewSessionManager(cfg.Session.TTL, cfg.Session.MaxHistory, factory, logger.Logger)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sessionManager.Run(sweepCtx)

	// Anonymous client for the login proxy; sessions get their own clients
	loginClient := apiclient.New(cfg.Backend.BaseURL,
		apiclient.WithAuthBaseURL(cfg.Backend.AuthBaseURL),
		apiclient.WithTimeout(cfg.Backend.Timeout),
		apiclient.WithLogger(logger.Logger),
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(loginClient, sessionManager, logger.Logger)
	consoleHandler := handlers.NewConsoleHandler(sessionManager, logger.Logger)

	instructorAuth := middleware.InstructorAuth(cfg.JWT.Secret)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger.Logger))
	r.Use(middleware.Recovery(logger.Logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimit(cfg.MaxRequestSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Scope router to /api/console/v1
	r.Route("/api/console/v1", func(r chi.Router) {
		// Login is the only unauthenticated route
		authHandler.RegisterRoutes(r)
		// Everything session-scoped requires an instructor token
		r.Group(func(r chi.Router) {
			r.Use(instructorAuth)
			consoleHandler.RegisterRoutes(r)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server stopped")
}
