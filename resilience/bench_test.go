package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

// BenchmarkRetry_Success measures overhead for a first-try success.
func BenchmarkRetry_Success(b *testing.B) {
	r := NewRetry(RetryConfig{MaxAttempts: 4})
	ctx := context.Background()
	op := func(context.Context) error { return nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Execute(ctx, op)
	}
}

// BenchmarkRetry_Exhausted measures a fully exhausted loop without waiting.
func BenchmarkRetry_Exhausted(b *testing.B) {
	r := NewRetry(RetryConfig{
		MaxAttempts: 4,
		JitterMax:   time.Second,
		Sleep:       func(context.Context, time.Duration) error { return nil },
	})
	ctx := context.Background()
	fail := errors.New("fail")
	op := func(context.Context) error { return fail }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Execute(ctx, op)
	}
}
