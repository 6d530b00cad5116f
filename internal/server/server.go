// Package server exposes the tracing service over HTTP and WebSocket: one
// traced session per submission, events streamed in emission order.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/config"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/logging"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/middleware"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/monitoring"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	config  *config.Config
	logger  *logging.Logger
	metrics *monitoring.Metrics
	router  *gin.Engine
	http    *http.Server
}

// New assembles the router and handlers.
func New(cfg *config.Config, logger *logging.Logger) *Server {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:  cfg,
		logger:  logger,
		metrics: monitoring.NewMetrics(),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	router.GET("/", s.root)
	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	router.POST("/trace", s.traceOnce)
	router.GET("/ws", s.handleWS)

	s.router = router
	return s
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine { return s.router }

// Run blocks serving until Close or a listener error.
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port)
	s.http = &http.Server{Addr: addr, Handler: s.router}
	s.logger.Info("server listening", zap.String("addr", addr))

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close drains in-flight requests and stops the listener.
func (s *Server) Close() error {
	if s.http == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
