package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MonitorConfig configures a Monitor.
type MonitorConfig struct {
	// Timeout bounds a full run. Default: 10 seconds
	Timeout time.Duration

	// Parallel runs checks concurrently. Report order is registration
	// order either way.
	Parallel bool
}

// Check is one named entry in a Report.
type Check struct {
	Name   string
	Result Result
}

// Report is the outcome of a Monitor run.
type Report struct {
	Status    Status
	Checks    []Check
	Timestamp time.Time
}

// Monitor runs a set of checkers in registration order.
type Monitor struct {
	config   MonitorConfig
	mu       sync.RWMutex
	checkers []Checker
}

// NewMonitor creates a Monitor. Without a config, checks run in parallel
// with a 10 second timeout.
func NewMonitor(config ...MonitorConfig) *Monitor {
	cfg := MonitorConfig{Timeout: 10 * time.Second, Parallel: true}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.Timeout <= 0 {
			cfg.Timeout = 10 * time.Second
		}
	}
	return &Monitor{config: cfg}
}

// Register adds checker, replacing any checker with the same name in place.
func (m *Monitor) Register(checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, c := range m.checkers {
		if c.Name() == checker.Name() {
			m.checkers[i] = checker
			return
		}
	}
	m.checkers = append(m.checkers, checker)
}

// Names returns registered checker names in order.
func (m *Monitor) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.checkers))
	for i, c := range m.checkers {
		names[i] = c.Name()
	}
	return names
}

// Check runs a single named checker.
func (m *Monitor) Check(ctx context.Context, name string) (Result, error) {
	m.mu.RLock()
	var found Checker
	for _, c := range m.checkers {
		if c.Name() == name {
			found = c
			break
		}
	}
	m.mu.RUnlock()

	if found == nil {
		return Result{}, ErrCheckerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, m.config.Timeout)
	defer cancel()
	return runCheck(ctx, found), nil
}

// Run executes every registered checker and folds the results.
func (m *Monitor) Run(ctx context.Context) Report {
	m.mu.RLock()
	checkers := append([]Checker(nil), m.checkers...)
	m.mu.RUnlock()

	report := Report{Checks: make([]Check, len(checkers)), Timestamp: time.Now()}
	if len(checkers) == 0 {
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, m.config.Timeout)
	defer cancel()

	if m.config.Parallel {
		var wg sync.WaitGroup
		for i, c := range checkers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				report.Checks[i] = Check{Name: c.Name(), Result: runCheck(ctx, c)}
			}()
		}
		wg.Wait()
	} else {
		for i, c := range checkers {
			report.Checks[i] = Check{Name: c.Name(), Result: runCheck(ctx, c)}
		}
	}

	report.Status = Overall(report.Checks)
	return report
}

// Overall returns Unhealthy if any check is unhealthy, Degraded if any is
// degraded, and Healthy otherwise.
func Overall(checks []Check) Status {
	status := StatusHealthy
	for _, c := range checks {
		if c.Result.Status > status {
			status = c.Result.Status
		}
	}
	return status
}

// runCheck executes checker, timing it and converting panics and timeouts
// into unhealthy results.
func runCheck(ctx context.Context, checker Checker) Result {
	start := time.Now()
	resultCh := make(chan Result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- Unhealthy("check panicked", fmt.Errorf("%w: %v", ErrCheckPanicked, r))
			}
		}()
		resultCh <- checker.Check(ctx)
	}()

	var result Result
	select {
	case result = <-resultCh:
	case <-ctx.Done():
		result = Unhealthy("check timed out", ErrCheckTimeout)
	}

	result.Duration = time.Since(start)
	if result.Timestamp.IsZero() {
		result.Timestamp = start
	}
	return result
}
