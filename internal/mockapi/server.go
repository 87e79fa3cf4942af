// Package mockapi serves the remote catalog HTTP contract (paged products,
// product search, carts) from embedded fixtures, for local development and
// tests.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/storefront/api/openapi"
	mw "github.com/donaldgifford/storefront/internal/api/middleware"
)

// Server is the mock catalog API.
type Server struct {
	echo     *echo.Echo
	log      *slog.Logger
	fixtures *Fixtures
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithFixtures serves f instead of the embedded fixtures.
func WithFixtures(f *Fixtures) Option {
	return func(s *Server) {
		s.fixtures = f
	}
}

// New builds the server and registers its routes.
func New(opts ...Option) (*Server, error) {
	s := &Server{log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	if s.fixtures == nil {
		f, err := LoadFixtures()
		if err != nil {
			return nil, fmt.Errorf("loading fixtures: %w", err)
		}
		s.fixtures = f
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.HTTPErrorHandler = s.errorHandler

	e.Use(mw.RequestLog(s.log))
	e.Use(mw.Metrics())
	e.Use(mw.Recovery(s.log))

	h := newCatalogHandler(s.fixtures, s.log)
	e.GET("/products", h.ListProducts)
	e.GET("/products/search", h.SearchProducts)
	e.GET("/carts/:id", h.GetCart)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if err := openapi.RegisterRoutes(e); err != nil {
		return nil, fmt.Errorf("registering openapi routes: %w", err)
	}

	s.echo = e
	return s, nil
}

// Handler returns the HTTP handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.echo.Listener = ln

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("mock API listening", "addr", ln.Addr().String())
		errCh <- s.echo.Start("")
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving mock API: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down mock API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down mock API: %w", err)
	}
	return nil
}

// errorHandler renders errors in the upstream API's {"message": ...} shape.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		s.log.Error("unhandled error", "path", c.Request().URL.Path, "error", err)
	}

	if writeErr := c.JSON(code, map[string]string{"message": msg}); writeErr != nil {
		s.log.Error("writing error response", "error", writeErr)
	}
}
