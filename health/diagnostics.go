package health

import (
	"context"
	"math"
	"strconv"
)

// Diagnostic outcomes.
const (
	DiagnosticPending = "PENDING"
	DiagnosticPass    = "PASS"
	DiagnosticFail    = "FAIL"
)

// Diagnostic is one entry of the operator self test.
type Diagnostic struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	DurationMS int64  `json:"duration"`
	Message    string `json:"message,omitempty"`
}

// RunDiagnostics executes checkers sequentially, in order. Healthy and
// degraded results pass; anything else fails.
func RunDiagnostics(ctx context.Context, checkers ...Checker) []Diagnostic {
	out := make([]Diagnostic, 0, len(checkers))
	for i, c := range checkers {
		d := Diagnostic{
			ID:     "t" + strconv.Itoa(i+1),
			Name:   c.Name(),
			Status: DiagnosticPending,
		}
		if ctx.Err() != nil {
			d.Status = DiagnosticFail
			d.Message = ctx.Err().Error()
			out = append(out, d)
			continue
		}

		result := runCheck(ctx, c)
		d.DurationMS = result.Duration.Milliseconds()
		d.Message = result.Message
		if result.Status == StatusUnhealthy {
			d.Status = DiagnosticFail
			if result.Error != nil {
				d.Message = result.Error.Error()
			}
		} else {
			d.Status = DiagnosticPass
		}
		out = append(out, d)
	}
	return out
}

// PassingPercent returns round(passed / total * 100), or 0 for an empty log.
func PassingPercent(log []Diagnostic) int {
	if len(log) == 0 {
		return 0
	}
	passed := 0
	for _, d := range log {
		if d.Status == DiagnosticPass {
			passed++
		}
	}
	return int(math.Round(float64(passed) / float64(len(log)) * 100))
}
