// Package resilience provides the bounded retry policy used around calls to
// the extraction service.
//
// Retry runs an operation up to MaxAttempts times. Between attempts it waits
// InitialDelay * Multiplier^n plus a uniform jitter in [0, JitterMax), where
// n is the 0-indexed retry number. RetryIf decides which failures are worth
// another attempt; anything else is returned immediately.
//
// Sleep and the random source are injectable so the policy can be tested
// without real timing:
//
//	retry := resilience.NewRetry(resilience.RetryConfig{
//	    MaxAttempts:  4,
//	    InitialDelay: time.Second,
//	    Multiplier:   2,
//	    JitterMax:    time.Second,
//	    RetryIf:      isTransient,
//	})
//
//	err := retry.Execute(ctx, func(ctx context.Context) error {
//	    return callExtractionService(ctx)
//	})
package resilience
