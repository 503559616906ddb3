package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gridforge/tabular/internal/config"
	apihttp "github.com/gridforge/tabular/internal/http"
	"github.com/gridforge/tabular/internal/logging"
	"github.com/gridforge/tabular/internal/middleware"
	"github.com/gridforge/tabular/internal/monitoring"
	"github.com/gridforge/tabular/internal/providers/clean"
	"github.com/gridforge/tabular/internal/providers/ml"
	"github.com/gridforge/tabular/internal/providers/stats"
	"github.com/gridforge/tabular/internal/providers/table"
	"github.com/gridforge/tabular/internal/providers/validate"
	"github.com/gridforge/tabular/internal/service"
)

// Server wraps the HTTP server and its dependencies
type Server struct {
	router   *gin.Engine
	registry *service.Registry
	logger   *logging.Logger
	srv      *http.Server
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := service.NewRegistry()
	registerProviders(registry, cfg.Limits, logger)

	metrics := monitoring.NewMetrics()
	handlers := apihttp.NewHandlers(registry, metrics, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/services", handlers.ListServices)
	router.POST("/services/discover", handlers.DiscoverServices)
	router.POST("/services/execute", handlers.ExecuteService)

	return &Server{
		router:   router,
		registry: registry,
		logger:   logger,
	}, nil
}

// Run starts the server and blocks until it stops
func (s *Server) Run(addr string) error {
	s.logger.Info("starting server", zap.String("addr", addr))

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func registerProviders(registry *service.Registry, limits config.LimitsConfig, logger *logging.Logger) {
	providers := []service.Provider{
		table.NewProvider(limits),
		stats.NewProvider(limits),
		clean.NewProvider(limits),
		validate.NewProvider(limits),
		ml.NewProvider(limits),
	}

	for _, p := range providers {
		def := p.Definition()
		if err := registry.Register(p); err != nil {
			logger.Warn("failed to register provider",
				zap.String("service", def.ID),
				zap.Error(err))
			continue
		}
		logger.Info("registered provider",
			zap.String("service", def.ID),
			zap.Int("tools", len(def.Tools)))
	}

	summary := registry.Stats()
	logger.Info("service registry ready",
		zap.Any("services", summary["total_services"]),
		zap.Any("tools", summary["total_tools"]))
}
