package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zgpcy/timesource"
	"github.com/zgpcy/timesource/internal/config"
	"github.com/zgpcy/timesource/internal/logger"
	"golang.org/x/time/rate"
)

// HTTP server timeout constants
const (
	DefaultReadTimeout  = 15 * time.Second // Maximum duration for reading the entire request
	DefaultWriteTimeout = 15 * time.Second // Maximum duration before timing out writes of the response
	DefaultIdleTimeout  = 60 * time.Second // Maximum amount of time to wait for the next request

	maxBodyBytes = 1 << 10
)

// RequestIDHeader carries the per-request correlation ID
const RequestIDHeader = "X-Request-ID"

// Setter is implemented by time sources that accept a new time.
// timesource.Locked satisfies it.
type Setter interface {
	SetNow(t time.Time)
}

// nowResponse splits the instant into seconds and nanoseconds so that
// times outside the int64 nanosecond range are still reported exactly.
type nowResponse struct {
	Now   string `json:"now"`
	Unix  int64  `json:"unix"`
	Nanos int    `json:"nanos"`
}

type setNowRequest struct {
	Time string `json:"time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Server represents the HTTP server
type Server struct {
	server   *http.Server
	source   timesource.TimeSource
	setter   Setter
	limiter  *rate.Limiter // nil means PUT /now is not limited
	validate *validator.Validate
	logger   *logger.Logger
}

// NewServer creates a new HTTP server. setter may be nil, in which case
// PUT /now answers 405.
func NewServer(cfg *config.Config, src timesource.TimeSource, setter Setter, log *logger.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			IdleTimeout:  DefaultIdleTimeout,
		},
		source:   src,
		setter:   setter,
		validate: validator.New(),
		logger:   log,
	}

	if rps := cfg.SetRateLimitRPS(); rps > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(rps), rps)
	}

	mux.HandleFunc("GET /now", s.handleNow)
	mux.HandleFunc("PUT /now", s.handleSetNow)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.server.Handler = s.withRequestID(mux)

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "address", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler returns the root handler, including middleware
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// withRequestID echoes or assigns X-Request-ID and logs the request at debug
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		s.logger.Debug("Handling request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path)

		next.ServeHTTP(w, r)
	})
}

// handleNow reports the current time of the configured source
func (s *Server) handleNow(w http.ResponseWriter, r *http.Request) {
	now, err := s.source.Now()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, timesource.ErrDateTimeNotSet) {
			status = http.StatusServiceUnavailable
		}
		s.writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, nowResponse{
		Now:   now.Format(time.RFC3339Nano),
		Unix:  now.Unix(),
		Nanos: now.Nanosecond(),
	})
}

// handleSetNow replaces the time of a manual source
func (s *Server) handleSetNow(w http.ResponseWriter, r *http.Request) {
	if s.setter == nil {
		s.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "time source is not settable"})
		return
	}

	var req setNowRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationMessage(err)})
		return
	}

	t, err := time.Parse(time.RFC3339Nano, req.Time)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "time must be RFC 3339"})
		return
	}

	// Only well-formed requests spend a token
	if s.limiter != nil && !s.limiter.Allow() {
		w.Header().Set("Retry-After", "1")
		s.writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
		return
	}

	s.setter.SetNow(t)
	s.logger.Info("Time source set", "time", t.Format(time.RFC3339Nano))
	w.WriteHeader(http.StatusNoContent)
}

// handleHealth handles health check requests (always returns 200 for liveness)
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "healthy"})
}

// handleReady returns 200 only when the source can report a time
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.source.Now(); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "not ready", Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "ready"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	switch verrs[0].Tag() {
	case "required":
		return "time is required"
	case "datetime":
		return "time must be RFC 3339"
	default:
		return verrs[0].Error()
	}
}
