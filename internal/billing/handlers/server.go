package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server hosts the gin engine behind an http.Server so it can be shut
// down gracefully.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer constructs a Server listening on the given port with the
// standard middleware chain installed.
func NewServer(port int, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger), gin.Recovery())

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		},
		logger: logger,
	}
}

// RegisterRoutes wires the company and invoice handlers onto the router.
func (s *Server) RegisterRoutes(companies *CompanyHandler, invoices *InvoiceHandler) {
	s.router.GET("/companies", companies.List)
	s.router.GET("/companies/:code", companies.Get)
	s.router.POST("/companies", companies.Create)
	s.router.PUT("/companies/:code", companies.Update)
	s.router.DELETE("/companies/:code", companies.Delete)

	s.router.GET("/invoices", invoices.List)
	s.router.GET("/invoices/:id", invoices.Get)
	s.router.POST("/invoices", invoices.Create)
	s.router.PUT("/invoices/:id", invoices.Update)
	s.router.DELETE("/invoices/:id", invoices.Delete)
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server, blocking until it stops.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("endpoint", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP serve error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	s.logger.Info("Server stopped")
}
