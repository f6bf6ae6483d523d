package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// BackoffStrategy defines how delays increase between retries.
type BackoffStrategy int

const (
	// BackoffExponential multiplies the delay by Multiplier each retry.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear increases delay linearly.
	BackoffLinear
	// BackoffConstant uses the same delay for all retries.
	BackoffConstant
)

// RetryConfig configures the retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 3
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the backoff delay before jitter is added.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier is the backoff multiplier for exponential backoff.
	// Default: 2.0
	Multiplier float64

	// Strategy is the backoff strategy.
	// Default: BackoffExponential
	Strategy BackoffStrategy

	// JitterMax adds a uniformly random delay in [0, JitterMax) to every
	// retry. Zero disables jitter.
	JitterMax time.Duration

	// RetryIf determines if an error should trigger a retry.
	// Default: all non-nil errors trigger retry.
	RetryIf func(err error) bool

	// OnRetry is called before each retry wait with the context passed to
	// Execute. attempt is the 1-indexed attempt that just failed.
	OnRetry func(ctx context.Context, attempt int, err error, delay time.Duration)

	// Sleep waits for d or until ctx is done.
	// Default: a timer-based wait returning ctx.Err() on cancellation.
	Sleep func(ctx context.Context, d time.Duration) error

	// Int64N returns a uniform random integer in [0, n).
	// Default: math/rand/v2.Int64N
	Int64N func(n int64) int64
}

// Retry implements bounded retry with backoff.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry handler.
func NewRetry(config RetryConfig) *Retry {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool { return err != nil }
	}
	if config.Sleep == nil {
		config.Sleep = sleepContext
	}
	if config.Int64N == nil {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		config.Int64N = rand.Int64N
	}

	return &Retry{config: config}
}

// Execute runs op until it succeeds, fails with a non-retryable error, or
// MaxAttempts is reached. Exhaustion returns an *ExhaustedError wrapping
// the last error; a non-retryable error is returned unchanged.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.config.RetryIf(err) {
			return err
		}
		if attempt >= r.config.MaxAttempts {
			break
		}

		delay := r.Delay(attempt - 1)

		if r.config.OnRetry != nil {
			r.config.OnRetry(ctx, attempt, err, delay)
		}

		if err := r.config.Sleep(ctx, delay); err != nil {
			return err
		}
	}

	return &ExhaustedError{Attempts: r.config.MaxAttempts, Last: lastErr}
}

// Delay returns the wait before retry n (0-indexed), jitter included.
// With BackoffExponential this is InitialDelay * Multiplier^n plus
// uniform [0, JitterMax).
func (r *Retry) Delay(n int) time.Duration {
	var delay time.Duration

	switch r.config.Strategy {
	case BackoffConstant:
		delay = r.config.InitialDelay

	case BackoffLinear:
		delay = r.config.InitialDelay * time.Duration(n+1)

	case BackoffExponential:
		multiplier := math.Pow(r.config.Multiplier, float64(n))
		delay = time.Duration(float64(r.config.InitialDelay) * multiplier)
	}

	if delay > r.config.MaxDelay {
		delay = r.config.MaxDelay
	}

	if r.config.JitterMax > 0 {
		delay += time.Duration(r.config.Int64N(int64(r.config.JitterMax)))
	}

	return delay
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
