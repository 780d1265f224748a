package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"postreach/internal/metrics"
)

const (
	defaultReadTimeout     = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 15 * time.Second

	// Covers two sequential upstream calls at their default timeout.
	defaultWriteTimeout = 90 * time.Second
)

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(h *Handler, m *metrics.Metrics, logger logrus.FieldLogger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		LoggerMiddleware(logger.WithField("component", "http")),
		CORSMiddleware([]string{"*"}),
		MetricsMiddleware(m),
	)
	SetupRoutes(router, h, m)
	return router
}

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, h *Handler, m *metrics.Metrics) {
	router.GET("/metrics", gin.WrapH(m.Handler()))

	v := router.Group("/api")
	{
		v.GET("/health", h.Health)
		v.POST("/validate", h.Validate)
		v.POST("/extract", h.Extract)
		v.POST("/calculate-roas", h.CalculateROAS)
		v.POST("/report", h.Report)

		download := v.Group("/download")
		download.POST("/csv", h.DownloadCSV)
		download.POST("/xlsx", h.DownloadXLSX)
	}
}

// Server wraps an http.Server with context-driven shutdown.
type Server struct {
	srv *http.Server
	log logrus.FieldLogger
}

// NewServer creates a server listening on :port.
func NewServer(port string, handler http.Handler, logger logrus.FieldLogger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         net.JoinHostPort("", port),
			Handler:      handler,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
			IdleTimeout:  defaultIdleTimeout,
		},
		log: logger.WithField("component", "http_server"),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.srv.Addr).Info("HTTP server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.log.Info("HTTP server stopped")
	return nil
}
