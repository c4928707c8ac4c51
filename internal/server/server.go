package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/numex/internal/config"
	apperrors "github.com/agbru/numex/internal/errors"
	"github.com/agbru/numex/internal/fibonacci"
	"github.com/agbru/numex/internal/logging"
	"github.com/agbru/numex/internal/service"
)

// Server is the HTTP front end of the exercise service. It wraps the
// standard http.Server and adds the middleware chain and graceful shutdown.
type Server struct {
	factory        fibonacci.CalculatorFactory
	service        service.Service
	cfg            config.AppConfig
	httpServer     *http.Server
	handler        http.Handler
	logger         logging.Logger
	shutdownSignal chan os.Signal
	rateLimiter    *RateLimiter
	securityConfig SecurityConfig
	metrics        *Metrics
	timeouts       Timeouts
}

// NewServer creates a Server for the given calculator registry and
// configuration.
//
// Parameters:
//   - factory: The calculator factory backing the Fibonacci endpoint.
//   - cfg: The application configuration (port, default algorithm).
//   - opts: Optional functional options (WithLogger, WithService, ...).
//
// Returns:
//   - *Server: A pointer to the initialized Server.
func NewServer(factory fibonacci.CalculatorFactory, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		factory:        factory,
		cfg:            cfg,
		logger:         logging.NewLogger(os.Stdout, "server"),
		shutdownSignal: make(chan os.Signal, 1),
		securityConfig: DefaultSecurityConfig(),
		metrics:        NewMetrics(),
		timeouts:       DefaultServerTimeouts(),
	}
	if cfg.MaxN > 0 {
		s.securityConfig.MaxNValue = cfg.MaxN
	}

	for _, opt := range opts {
		opt(s)
	}

	s.securityConfig.MaxNValue = min(s.securityConfig.MaxNValue, fibonacci.MaxFibUint64)
	if s.securityConfig.MaxBodyBytes <= 0 {
		s.securityConfig.MaxBodyBytes = DefaultSecurityConfig().MaxBodyBytes
	}

	if s.service == nil {
		s.service = service.NewExerciseService(s.factory, s.securityConfig.MaxNValue, service.WithLogger(s.logger))
	}
	if s.rateLimiter == nil {
		s.rateLimiter = NewRateLimiter(DefaultRateLimiterConfig())
	}

	routes := map[string]http.HandlerFunc{
		"/fibonacci":       s.handleFibonacci,
		"/leapyear":        s.handleLeapYear,
		"/histogram":       s.handleHistogram,
		"/chisquared":      s.handleChiSquared,
		"/fit/parabola":    s.handleParabola,
		"/energy-transfer": s.handleEnergyTransfer,
		"/algorithms":      s.handleAlgorithms,
		"/health":          s.handleHealth,
		"/metrics":         s.handleMetrics,
	}
	mux := http.NewServeMux()
	for path, handler := range routes {
		mux.HandleFunc(path, s.wrapWithMiddleware(path, handler))
	}
	s.handler = mux

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}

	return s
}

// Handler returns the routed handler with its middleware, for embedding the
// API or serving it from httptest.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// wrapWithMiddleware applies the middleware chain
// Security -> RateLimit -> RequestID -> Logging -> Metrics -> Handler.
func (s *Server) wrapWithMiddleware(path string, handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.metricsMiddleware(path, handler)
	wrapped = s.loggingMiddleware(wrapped)
	wrapped = requestIDMiddleware(wrapped)
	wrapped = RateLimitMiddleware(s.rateLimiter, wrapped)
	wrapped = SecurityMiddleware(s.securityConfig, wrapped)
	return wrapped
}

// Start listens on the configured port until ctx is canceled or SIGINT or
// SIGTERM is received, then shuts down gracefully.
//
// Returns:
//   - error: A ServerError if the listener fails or shutdown times out.
func (s *Server) Start(ctx context.Context) error {
	signal.Notify(s.shutdownSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(s.shutdownSignal)

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return apperrors.NewServerError("server failed to start", err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			logging.String("addr", ln.Addr().String()),
			logging.Uint64("max_n", s.securityConfig.MaxNValue),
		)
		s.logger.Println("Available endpoints:")
		s.logger.Println("  GET  /fibonacci?n=<index>&algo=<algorithm>")
		s.logger.Println("  GET  /leapyear?year=<year>")
		s.logger.Println("  POST /histogram /chisquared /fit/parabola /energy-transfer")
		s.logger.Println("  GET  /algorithms /health /metrics")

		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Println("Context canceled, initiating graceful shutdown...")
	case <-s.shutdownSignal:
		s.logger.Println("Shutdown signal received, initiating graceful shutdown...")
	case err := <-errCh:
		return apperrors.NewServerError("server failed", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeouts.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}

	s.logger.Println("Server stopped gracefully")
	return nil
}
