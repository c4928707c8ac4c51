package server

import (
	"log"
	"time"

	"github.com/agbru/numex/internal/logging"
	"github.com/agbru/numex/internal/service"
)

// Option customizes a Server built by NewServer.
type Option func(*Server)

// WithLogger routes request and lifecycle logs to logger. A nil logger
// keeps the default.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStdLogger is WithLogger for a *log.Logger; fields are appended to
// the printed message.
func WithStdLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logging.NewStdLoggerAdapter(logger)
		}
	}
}

// WithService replaces the ExerciseService NewServer would build over its
// factory. Tests pass a mock here.
func WithService(svc service.Service) Option {
	return func(s *Server) {
		if svc != nil {
			s.service = svc
		}
	}
}

// WithTimeouts overrides DefaultServerTimeouts.
func WithTimeouts(timeouts Timeouts) Option {
	return func(s *Server) {
		s.timeouts = timeouts
	}
}

// Timeouts bounds the phases of request handling.
type Timeouts struct {
	// RequestTimeout caps the evaluation of one exercise; past it the
	// handler answers 504.
	RequestTimeout time.Duration
	// ShutdownTimeout is how long Start waits for in-flight requests.
	ShutdownTimeout time.Duration
	// ReadTimeout, WriteTimeout and IdleTimeout are passed to http.Server.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerTimeouts returns the timeouts used when WithTimeouts is not
// given.
func DefaultServerTimeouts() Timeouts {
	return Timeouts{
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    time.Minute,
		IdleTimeout:     2 * time.Minute,
	}
}
