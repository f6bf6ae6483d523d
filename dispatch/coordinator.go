package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/incidentops/cache"
	"github.com/jonwraymond/incidentops/classifier"
	"github.com/jonwraymond/incidentops/health"
	"github.com/jonwraymond/incidentops/incident"
	"github.com/jonwraymond/incidentops/observe"
)

var (
	// ErrNilCache indicates New was called without an incident cache.
	ErrNilCache = errors.New("dispatch: cache is nil")

	// ErrNilClassifier indicates New was called without a classifier.
	ErrNilClassifier = errors.New("dispatch: classifier is nil")
)

// Classifier produces incident results from raw notes. It returns an
// error only for invalid input; other failures come back as a result with
// status ERROR.
type Classifier interface {
	Classify(ctx context.Context, raw string, useGrounding bool) (incident.Result, error)
}

// Outcome labels how a submission finished.
type Outcome string

const (
	OutcomeHit          Outcome = "hit"
	OutcomeMissResolved Outcome = "miss_resolved"
	OutcomeInvalid      Outcome = "invalid"
	OutcomeFault        Outcome = "fault"
)

// RequestMetrics are the coordinator's running counters.
type RequestMetrics struct {
	TotalRequests int64 `json:"total_requests"`
	CacheHits     int64 `json:"cache_hits"`
}

// HitRate returns round(CacheHits / TotalRequests * 100), or 0 before the
// first request.
func (m RequestMetrics) HitRate() int {
	if m.TotalRequests == 0 {
		return 0
	}
	return int(math.Round(float64(m.CacheHits) / float64(m.TotalRequests) * 100))
}

// Config wires a Coordinator.
type Config struct {
	Cache      *cache.IncidentCache
	Classifier Classifier

	// ServicePing probes the extraction service for diagnostics.
	// Nil reports the connectivity check as not configured.
	ServicePing func(ctx context.Context) error

	Metrics    *observe.DispatchMetrics
	Logger     observe.Logger
	Now        func() time.Time
	BoardLimit int
}

// Coordinator deduplicates incident submissions.
//
// Contract:
// - Concurrency: safe for concurrent use; identical in-flight notes share
//   one classification.
// - Errors: Submit returns classifier.ErrInvalidInput for short notes and
//   (nil, nil) for internal faults, which are logged.
type Coordinator struct {
	cache      *cache.IncidentCache
	classifier Classifier
	board      *Board
	group      singleflight.Group

	totalRequests atomic.Int64
	cacheHits     atomic.Int64

	metrics *observe.DispatchMetrics
	logger  observe.Logger
	now     func() time.Time

	diagnostics []health.Checker

	mu      sync.RWMutex
	prefs   cache.Preferences
	diagLog []health.Diagnostic
}

// New creates a Coordinator and loads saved preferences. Unreadable
// preferences fall back to the defaults.
func New(ctx context.Context, cfg Config) (*Coordinator, error) {
	if cfg.Cache == nil {
		return nil, ErrNilCache
	}
	if cfg.Classifier == nil {
		return nil, ErrNilClassifier
	}

	c := &Coordinator{
		cache:      cfg.Cache,
		classifier: cfg.Classifier,
		board:      NewBoard(cfg.BoardLimit),
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		now:        cfg.Now,
	}
	if c.logger == nil {
		c.logger = observe.NopLogger()
	}
	c.logger = c.logger.With(observe.F("component", "dispatch"))
	if c.now == nil {
		c.now = time.Now
	}
	if c.metrics == nil {
		m, err := observe.NewDispatchMetrics(nil)
		if err != nil {
			return nil, fmt.Errorf("dispatch: metrics: %w", err)
		}
		c.metrics = m
	}

	prefs, err := c.cache.LoadPreferences(ctx)
	if err != nil {
		c.logger.Warn(ctx, "preferences unreadable, using defaults", observe.F("error", err))
	}
	c.prefs = prefs

	c.diagnostics = []health.Checker{
		ServiceCheck(cfg.ServicePing),
		StorageCheck(c.cache.Backend()),
		DigestCheck(),
	}
	return c, nil
}

// Board returns the coordinator's incident board.
func (c *Coordinator) Board() *Board {
	return c.board
}

// Metrics returns a snapshot of the request counters.
func (c *Coordinator) Metrics() RequestMetrics {
	return RequestMetrics{
		TotalRequests: c.totalRequests.Load(),
		CacheHits:     c.cacheHits.Load(),
	}
}

type resolution struct {
	result incident.Result
	hit    bool
}

// Submit processes one operator note.
//
// A cached, unexpired result for the same normalized text is returned and
// replaces the board entry at the front. Otherwise the note is classified,
// the result (fallback included) is cached and prepended. Internal faults
// return (nil, nil).
//
// Resolution runs detached from ctx cancellation: a caller that goes away
// mid-retry neither aborts the classification nor poisons the cache for
// other callers of the same note.
func (c *Coordinator) Submit(ctx context.Context, raw string) (res *incident.Result, err error) {
	start := c.now()
	c.totalRequests.Add(1)
	outcome := OutcomeFault

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error(ctx, "submission panicked", observe.F("panic", fmt.Sprint(r)))
			res, err, outcome = nil, nil, OutcomeFault
		}
		c.metrics.RecordSubmit(ctx, string(outcome), c.now().Sub(start))
	}()

	if err := classifier.ValidateInput(raw); err != nil {
		outcome = OutcomeInvalid
		return nil, err
	}

	key := cache.ComputeKey(raw)
	grounding := c.Preferences().SearchGrounding

	executed := false
	v, err, shared := c.group.Do(key.String(), func() (any, error) {
		executed = true
		return c.resolve(context.WithoutCancel(ctx), key, raw, grounding)
	})
	if err != nil {
		c.logger.Error(ctx, "submission failed",
			observe.F("cache_key", key.String()),
			observe.F("error", err),
		)
		return nil, nil
	}
	r := v.(resolution)

	switch {
	case !executed:
		// Another caller resolved this note; the cache now answers it.
		c.cacheHits.Add(1)
		c.metrics.CacheHit(ctx)
		c.board.Prepend(r.result)
		outcome = OutcomeHit
	case r.hit:
		outcome = OutcomeHit
	default:
		outcome = OutcomeMissResolved
	}

	c.logger.Info(ctx, "incident submitted",
		observe.F("cache_key", key.String()),
		observe.F("incident_id", r.result.ID),
		observe.F("outcome", string(outcome)),
		observe.F("shared", shared && !executed),
		observe.F("status", string(r.result.Status)),
	)

	out := r.result.Clone()
	return &out, nil
}

// resolve runs once per in-flight key. Board and counter updates for the
// leading caller happen here so followers always find the entry.
func (c *Coordinator) resolve(ctx context.Context, key cache.Key, raw string, grounding bool) (res resolution, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatch: resolve panicked: %v", r)
		}
	}()

	cached, ok, err := c.cache.Lookup(ctx, key)
	switch {
	case errors.Is(err, cache.ErrCorrupt):
		c.logger.Warn(ctx, "discarded corrupt cache entry", observe.F("cache_key", key.String()), observe.F("error", err))
	case err != nil:
		return resolution{}, err
	case ok:
		c.cacheHits.Add(1)
		c.metrics.CacheHit(ctx)
		c.board.Prepend(*cached)
		return resolution{result: *cached, hit: true}, nil
	}

	c.metrics.CacheMiss(ctx)
	result, err := c.classifier.Classify(ctx, raw, grounding)
	if err != nil {
		return resolution{}, err
	}
	if err := c.cache.Store(ctx, key, result); err != nil {
		return resolution{}, err
	}
	c.board.Prepend(result)
	return resolution{result: result}, nil
}

// UpdateStatus changes the status of a board incident.
func (c *Coordinator) UpdateStatus(id string, status incident.Status) (incident.Result, error) {
	return c.board.UpdateStatus(id, status)
}

// Stats summarizes the board.
func (c *Coordinator) Stats() incident.Stats {
	return c.board.Stats()
}

// Preferences returns the current operator preferences.
func (c *Coordinator) Preferences() cache.Preferences {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prefs
}

// UpdatePreferences persists prefs and applies them to later submissions.
func (c *Coordinator) UpdatePreferences(ctx context.Context, prefs cache.Preferences) error {
	if err := c.cache.SavePreferences(ctx, prefs); err != nil {
		return err
	}
	c.mu.Lock()
	c.prefs = prefs
	c.mu.Unlock()
	return nil
}
