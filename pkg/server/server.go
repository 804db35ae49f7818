// Package server exposes the daily image generator over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"dailyimage/pkg/handlers"
	"dailyimage/pkg/logger"
	"dailyimage/pkg/middleware"
	"dailyimage/pkg/tasks"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Server constants
const (
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 60 * time.Second
	DefaultIdleTimeout  = 120 * time.Second
)

// Config holds HTTP server configuration
type Config struct {
	Address         string
	Port            int
	RenderRateLimit float64 // renders per second
	RenderBurst     int
	JPEGQuality     int
	Development     bool
}

// HTTPServer represents the HTTP server component
type HTTPServer struct {
	server     *http.Server
	router     *gin.Engine
	config     *Config
	handlerSvc *handlers.HandlerService
	limiter    *rate.Limiter
}

// NewHTTPServer creates a new HTTP server instance
func NewHTTPServer(ctx context.Context, config *Config, renderer handlers.Renderer, taskMgr tasks.TaskManager) *HTTPServer {
	logger.Info("Initializing HTTP server",
		zap.String("address", config.Address),
		zap.Int("port", config.Port))

	if config.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	burst := config.RenderBurst
	if burst <= 0 {
		burst = 1
	}
	s := &HTTPServer{
		router:     gin.New(),
		config:     config,
		handlerSvc: handlers.NewHandlerService(ctx, renderer, taskMgr, config.JPEGQuality),
		limiter:    rate.NewLimiter(rate.Limit(config.RenderRateLimit), burst),
	}

	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", config.Address, config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	logger.Info("HTTP server initialized", zap.String("listen_addr", addr))
	return s
}

// SetScheduler sets the scheduler reference in the handler service
func (s *HTTPServer) SetScheduler(scheduler handlers.Scheduler) {
	s.handlerSvc.SetScheduler(scheduler)
}

// Handler returns the router, mainly for tests
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address
func (s *HTTPServer) Addr() string {
	return s.server.Addr
}

// setupRoutes configures all HTTP routes
func (s *HTTPServer) setupRoutes() {
	s.addMiddleware()

	s.router.GET("/health", s.handlerSvc.Health)

	api := s.router.Group("/api/v1")
	s.setupSystemRoutes(api)
	s.setupImageRoutes(api)
	s.setupTaskRoutes(api)
	s.setupSchedulerRoutes(api)

	logger.Info("HTTP routes configured", zap.Int("routes", len(s.router.Routes())))
}

// addMiddleware adds all middleware to the router
func (s *HTTPServer) addMiddleware() {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, middleware.HeaderRequestID)
	corsConfig.ExposeHeaders = []string{middleware.HeaderRequestID, "X-Poem-Source"}

	s.router.Use(
		middleware.RequestID(),
		middleware.GinZapLogger(),
		middleware.Recovery(),
		middleware.ErrorHandler(),
		cors.New(corsConfig),
	)
}

// setupSystemRoutes configures system endpoints
func (s *HTTPServer) setupSystemRoutes(api *gin.RouterGroup) {
	api.GET("/status", s.handlerSvc.GetStatus)
}

// setupImageRoutes configures render and generate endpoints
func (s *HTTPServer) setupImageRoutes(api *gin.RouterGroup) {
	api.GET("/image", middleware.RateLimit(s.limiter), s.handlerSvc.GetImage)
	api.POST("/generate", middleware.RateLimit(s.limiter), s.handlerSvc.Generate)
}

// setupTaskRoutes configures task history endpoints
func (s *HTTPServer) setupTaskRoutes(api *gin.RouterGroup) {
	api.GET("/tasks", s.handlerSvc.GetTasks)
	api.GET("/tasks/:id", s.handlerSvc.GetTask)
}

// setupSchedulerRoutes configures scheduler endpoints
func (s *HTTPServer) setupSchedulerRoutes(api *gin.RouterGroup) {
	api.GET("/scheduler/status", s.handlerSvc.GetSchedulerStatus)
	api.POST("/scheduler/run", s.handlerSvc.RunScheduledJob)
}

// Start starts the HTTP server and blocks until it stops
func (s *HTTPServer) Start() error {
	logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	return nil
}
