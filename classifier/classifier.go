package classifier

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/incidentops/incident"
	"github.com/jonwraymond/incidentops/observe"
	"github.com/jonwraymond/incidentops/resilience"
)

// Retry defaults: four attempts, waiting 2^n seconds plus up to one second
// of jitter before retry n.
const (
	DefaultMaxAttempts = 4
	DefaultBaseDelay   = time.Second
	DefaultJitterMax   = time.Second
)

// Config tunes a Classifier. Zero values take defaults.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	JitterMax   time.Duration

	// FallbackCoords locate results that carry no coordinates.
	FallbackCoords *incident.Coordinates

	// Sleep and Int64N are forwarded to the retry policy.
	Sleep  func(ctx context.Context, d time.Duration) error
	Int64N func(n int64) int64

	Now   func() time.Time
	NewID func() string

	Logger     observe.Logger
	Middleware *observe.Middleware
}

type resolvedConfig struct {
	FallbackCoords incident.Coordinates
	Now            func() time.Time
	NewID          func() string
	Logger         observe.Logger
	Middleware     *observe.Middleware
}

// Classifier wraps a Service with validation, retry and fallback.
//
// Contract:
// - Concurrency: safe for concurrent use if the Service is.
// - Errors: only ErrInvalidInput is returned; every other failure yields
//   a fallback Result with Status ERROR.
type Classifier struct {
	svc   Service
	retry *resilience.Retry
	cfg   resolvedConfig
}

// New creates a Classifier around svc.
func New(svc Service, cfg Config) (*Classifier, error) {
	if svc == nil {
		return nil, ErrNilService
	}

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	if cfg.JitterMax <= 0 {
		cfg.JitterMax = DefaultJitterMax
	}

	rc := resolvedConfig{
		FallbackCoords: DefaultFallbackCoords,
		Now:            time.Now,
		NewID:          NewIncidentID,
		Logger:         observe.NopLogger(),
		Middleware:     cfg.Middleware,
	}
	if cfg.FallbackCoords != nil {
		rc.FallbackCoords = *cfg.FallbackCoords
	}
	if cfg.Now != nil {
		rc.Now = cfg.Now
	}
	if cfg.NewID != nil {
		rc.NewID = cfg.NewID
	}
	if cfg.Logger != nil {
		rc.Logger = cfg.Logger
	}
	if rc.Middleware == nil {
		rc.Middleware = observe.NewMiddleware(nil, nil, nil)
	}
	rc.Logger = rc.Logger.With(observe.F("component", "classifier"))

	retry := resilience.NewRetry(resilience.RetryConfig{
		MaxAttempts:  cfg.MaxAttempts,
		InitialDelay: cfg.BaseDelay,
		MaxDelay:     cfg.BaseDelay << 10,
		Multiplier:   2,
		Strategy:     resilience.BackoffExponential,
		JitterMax:    cfg.JitterMax,
		RetryIf:      func(err error) bool { return OutcomeOf(err) == OutcomeRetryable },
		Sleep:        cfg.Sleep,
		Int64N:       cfg.Int64N,
		OnRetry: func(ctx context.Context, attempt int, err error, delay time.Duration) {
			rc.Logger.Warn(ctx, "extraction attempt failed, retrying",
				observe.F("attempt", attempt),
				observe.F("status", StatusCode(err)),
				observe.F("delay_ms", delay.Milliseconds()),
				observe.F("error", err),
			)
		},
	})

	return &Classifier{svc: svc, retry: retry, cfg: rc}, nil
}

// Classify extracts an incident from raw. useGrounding asks the service to
// consult external search and attach citations.
//
// Transient failures are retried and never surfaced. Permanent failures and
// exhausted retries return Fallback with a nil error.
func (c *Classifier) Classify(ctx context.Context, raw string, useGrounding bool) (incident.Result, error) {
	if err := ValidateInput(raw); err != nil {
		return incident.Result{}, err
	}

	var (
		ext      *Extraction
		started  time.Time
		finished time.Time
		attempt  int
	)
	err := c.retry.Execute(ctx, func(ctx context.Context) error {
		attempt++
		op := observe.Operation{Component: "classifier", Name: "extract", Attempt: attempt}
		return c.cfg.Middleware.Run(ctx, op, func(ctx context.Context) error {
			started = c.cfg.Now()
			got, err := c.svc.Extract(ctx, raw, useGrounding)
			finished = c.cfg.Now()
			if err != nil {
				return err
			}
			if got == nil {
				return ErrEmptyExtraction
			}
			ext = got
			return nil
		})
	})
	if err != nil {
		c.cfg.Logger.Error(ctx, "classification failed, using fallback",
			observe.F("attempts", attempt),
			observe.F("outcome", OutcomeOf(err).String()),
			observe.F("error", err),
		)
		return Fallback(c.cfg.Now(), c.cfg.FallbackCoords), nil
	}

	return c.buildResult(ext, raw, started, finished), nil
}

// NewIncidentID returns an identifier of the form INC-XXXXXX.
func NewIncidentID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "INC-" + strings.ToUpper(id[:6])
}
