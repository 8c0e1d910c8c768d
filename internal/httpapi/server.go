// Package httpapi exposes search and indexing over HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/txtsearch/txtsearch/internal/errors"
	"github.com/txtsearch/txtsearch/internal/index"
	"github.com/txtsearch/txtsearch/internal/search"
	"github.com/txtsearch/txtsearch/pkg/version"
)

// Server wraps an echo instance over a search orchestrator.
type Server struct {
	echo         *echo.Echo
	orchestrator *search.Orchestrator
	logger       *slog.Logger
	addr         string
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(orchestrator *search.Orchestrator, logger *slog.Logger, addr string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("http request",
				slog.String("method", c.Request().Method),
				slog.String("uri", c.Request().RequestURI),
				slog.Int("status", c.Response().Status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))
			return err
		}
	})

	s := &Server{
		echo:         e,
		orchestrator: orchestrator,
		logger:       logger,
		addr:         addr,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/v1")
	v1.POST("/search", s.handleSearch)
	v1.POST("/index", s.handleIndex)
	v1.GET("/status", s.handleStatus)
}

// IndexRequest is the request body for POST /v1/index.
type IndexRequest struct {
	IncludePatterns []string `json:"include_patterns,omitempty"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty"`
}

// HealthResponse is the response body for GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the body sent for failed requests.
type ErrorResponse struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: version.Version})
}

func (s *Server) handleSearch(c echo.Context) error {
	var req search.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    errors.ErrCodeInvalidInput,
			Message: "invalid request body",
		})
	}

	resp, err := s.orchestrator.Search(c.Request().Context(), req)
	if err != nil {
		return s.writeError(c, err)
	}
	if resp.Hits == nil {
		resp.Hits = []search.Hit{}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleIndex(c echo.Context) error {
	var req IndexRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    errors.ErrCodeInvalidInput,
			Message: "invalid request body",
		})
	}

	stats, err := s.orchestrator.BuildIndex(c.Request().Context(), index.BuildOptions{
		IncludePatterns: req.IncludePatterns,
		ExcludePatterns: req.ExcludePatterns,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleStatus(c echo.Context) error {
	meta, err := s.orchestrator.Status(c.Request().Context())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, meta)
}

// writeError maps application error codes onto HTTP statuses. Missing
// dependencies surface as 424 so clients can tell "try another
// strategy" apart from a server fault.
func (s *Server) writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)

	switch {
	case errors.IsInvalidInput(err):
		status = http.StatusBadRequest
	case errors.IsUnavailable(err):
		status = http.StatusFailedDependency
	case code == errors.ErrCodeNoIndex:
		status = http.StatusNotFound
	case code == errors.ErrCodeBuildInProgress:
		status = http.StatusConflict
	}

	resp := ErrorResponse{Code: code, Message: err.Error()}
	if appErr, ok := err.(*errors.Error); ok {
		resp.Message = appErr.Message
		resp.Suggestion = appErr.Suggestion
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("error", err.Error()))
	}
	return c.JSON(status, resp)
}

// Start begins serving on the configured address.
func (s *Server) Start() error {
	s.logger.Info("starting http server", slog.String("addr", s.addr))
	return s.echo.Start(s.addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
