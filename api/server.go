package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/incidentops/auth"
	"github.com/jonwraymond/incidentops/cache"
	"github.com/jonwraymond/incidentops/dispatch"
	"github.com/jonwraymond/incidentops/health"
	"github.com/jonwraymond/incidentops/incident"
	"github.com/jonwraymond/incidentops/observe"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 64 << 10

// ErrNilDispatcher indicates New was called without a dispatcher.
var ErrNilDispatcher = errors.New("api: dispatcher is nil")

// Dispatcher is the incident workflow served by the API.
// *dispatch.Coordinator implements it.
type Dispatcher interface {
	Submit(ctx context.Context, raw string) (*incident.Result, error)
	Board() *dispatch.Board
	UpdateStatus(id string, status incident.Status) (incident.Result, error)
	Stats() incident.Stats
	Metrics() dispatch.RequestMetrics
	Health() dispatch.SystemHealth
	RunDiagnostics(ctx context.Context) []health.Diagnostic
	Preferences() cache.Preferences
	UpdatePreferences(ctx context.Context, prefs cache.Preferences) error
}

// Config wires a Server.
type Config struct {
	Dispatcher Dispatcher

	// Monitor backs the health endpoints. Nil registers none.
	Monitor *health.Monitor

	// Authenticator guards /v1. Nil leaves the API open.
	Authenticator auth.Authenticator
	Authorizer    auth.Authorizer

	// Gatherer is exposed at /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer

	Logger       observe.Logger
	MaxBodyBytes int64
}

// Server routes dashboard requests to a Dispatcher.
type Server struct {
	dispatcher Dispatcher
	logger     observe.Logger
	maxBody    int64
	handler    http.Handler
}

// New creates a Server.
func New(cfg Config) (*Server, error) {
	if cfg.Dispatcher == nil {
		return nil, ErrNilDispatcher
	}
	s := &Server{
		dispatcher: cfg.Dispatcher,
		logger:     cfg.Logger,
		maxBody:    cfg.MaxBodyBytes,
	}
	if s.logger == nil {
		s.logger = observe.NopLogger()
	}
	s.logger = s.logger.With(observe.F("component", "api"))
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}

	v1 := http.NewServeMux()
	v1.HandleFunc("POST /v1/incidents", s.handleSubmit)
	v1.HandleFunc("GET /v1/incidents", s.handleList)
	v1.HandleFunc("GET /v1/incidents/{id}", s.handleGet)
	v1.HandleFunc("PATCH /v1/incidents/{id}", s.handleUpdateStatus)
	v1.HandleFunc("GET /v1/stats", s.handleStats)
	v1.HandleFunc("GET /v1/system", s.handleSystem)
	v1.HandleFunc("POST /v1/diagnostics", s.handleDiagnostics)
	v1.HandleFunc("GET /v1/preferences", s.handleGetPreferences)
	v1.HandleFunc("PUT /v1/preferences", s.handlePutPreferences)

	var guarded http.Handler = v1
	if cfg.Authenticator != nil {
		guarded = auth.Middleware(cfg.Authenticator, cfg.Authorizer, "incidents", s.logger)(v1)
	}

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.Handle("/v1/", guarded)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	if cfg.Monitor != nil {
		health.RegisterHandlers(mux, cfg.Monitor)
	}

	s.handler = s.logRequests(mux)
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug(r.Context(), "request served",
			observe.F("method", r.Method),
			observe.F("path", r.URL.Path),
			observe.F("status", rec.status),
			observe.F("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}
