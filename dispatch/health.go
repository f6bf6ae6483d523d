package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/incidentops/cache"
	"github.com/jonwraymond/incidentops/health"
)

// API status values.
const (
	APIHealthy  = "HEALTHY"
	APIDegraded = "DEGRADED"
)

// Diagnostic check names.
const (
	CheckServiceConnectivity = "Classification Service Connectivity"
	CheckStorageRoundTrip    = "Storage Round-Trip"
	CheckDigestIntegrity     = "Cache Layer SHA-256 Integrity"
)

// diagnosticProbeKey is written and removed by the storage round-trip.
const diagnosticProbeKey = "diagnostic_probe"

// emptyDigest is the SHA-256 of zero bytes.
const emptyDigest = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// SystemHealth is the dashboard health snapshot.
type SystemHealth struct {
	APIStatus          string              `json:"api_status"`
	CacheHitRate       int                 `json:"cache_hit_rate"`
	ActiveTestsPassing int                 `json:"active_tests_passing"`
	LastSync           time.Time           `json:"last_sync"`
	DiagnosticLog      []health.Diagnostic `json:"diagnostic_log"`
}

// Health returns the current snapshot. The API is DEGRADED while any board
// incident has status ERROR.
func (c *Coordinator) Health() SystemHealth {
	c.mu.RLock()
	log := append([]health.Diagnostic(nil), c.diagLog...)
	c.mu.RUnlock()

	status := APIHealthy
	if c.board.HasErrors() {
		status = APIDegraded
	}
	return SystemHealth{
		APIStatus:          status,
		CacheHitRate:       c.Metrics().HitRate(),
		ActiveTestsPassing: health.PassingPercent(log),
		LastSync:           c.now().UTC(),
		DiagnosticLog:      log,
	}
}

// RunDiagnostics runs the self test in order and keeps the log for Health.
func (c *Coordinator) RunDiagnostics(ctx context.Context) []health.Diagnostic {
	log := health.RunDiagnostics(ctx, c.diagnostics...)

	c.mu.Lock()
	c.diagLog = log
	c.mu.Unlock()

	return append([]health.Diagnostic(nil), log...)
}

// Checkers returns the diagnostic checks, for registration with a monitor.
func (c *Coordinator) Checkers() []health.Checker {
	return append([]health.Checker(nil), c.diagnostics...)
}

// ServiceCheck probes the extraction service with ping.
func ServiceCheck(ping func(ctx context.Context) error) health.Checker {
	return health.NewCheckerFunc(CheckServiceConnectivity, func(ctx context.Context) health.Result {
		if ping == nil {
			return health.Degraded("connectivity probe not configured")
		}
		if err := ping(ctx); err != nil {
			return health.Unhealthy("classification service unreachable", err)
		}
		return health.Healthy("classification service reachable")
	})
}

// StorageCheck writes, reads back and deletes a probe value.
func StorageCheck(store cache.Store) health.Checker {
	return health.NewCheckerFunc(CheckStorageRoundTrip, func(ctx context.Context) health.Result {
		want := []byte(fmt.Sprintf("probe-%d", time.Now().UnixNano()))
		if err := store.Set(ctx, diagnosticProbeKey, want); err != nil {
			return health.Unhealthy("storage write failed", err)
		}
		defer func() { _ = store.Delete(ctx, diagnosticProbeKey) }()

		got, ok, err := store.Get(ctx, diagnosticProbeKey)
		if err != nil {
			return health.Unhealthy("storage read failed", err)
		}
		if !ok || !bytes.Equal(got, want) {
			return health.Unhealthy("storage read mismatch", errors.New("probe value not returned"))
		}
		return health.Healthy("storage round-trip ok")
	})
}

// DigestCheck verifies the cache key derivation.
func DigestCheck() health.Checker {
	return health.NewCheckerFunc(CheckDigestIntegrity, func(ctx context.Context) health.Result {
		if got := cache.ComputeKey(""); got.String() != emptyDigest {
			return health.Unhealthy("empty digest mismatch", fmt.Errorf("got %s", got))
		}
		if cache.ComputeKey("  Fire On MAIN st ") != cache.ComputeKey("fire on main st") {
			return health.Unhealthy("normalization mismatch", errors.New("case or whitespace changes the key"))
		}
		return health.Healthy("digest ok")
	})
}
