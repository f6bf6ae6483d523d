package classifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonwraymond/incidentops/incident"
)

// Service is the external extraction collaborator.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: failures carrying an upstream HTTP status are *StatusError;
//   transport failures carry no status.
type Service interface {
	Extract(ctx context.Context, text string, grounding bool) (*Extraction, error)
}

// ServiceFunc adapts a function to Service.
type ServiceFunc func(ctx context.Context, text string, grounding bool) (*Extraction, error)

// Extract calls f.
func (f ServiceFunc) Extract(ctx context.Context, text string, grounding bool) (*Extraction, error) {
	return f(ctx, text, grounding)
}

// Extraction is the structured record returned by the service, before
// defaults and clamping are applied.
type Extraction struct {
	Summary  string
	Type     string
	Severity string

	// PriorityScore is whatever the service produced: usually a float64
	// decoded from JSON, but strings and missing values occur.
	PriorityScore any

	Coords  *incident.Coordinates
	Sources []incident.GroundingSource
}

// StatusError is a failure reported by the service with an HTTP status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("classifier: service returned status %d", e.Code)
	}
	return fmt.Sprintf("classifier: service returned status %d: %s", e.Code, e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0 when err has none.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// Outcome is the typed result of a single service attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRetryable
	OutcomePermanent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	default:
		return "permanent"
	}
}

// OutcomeOf maps an attempt error to its Outcome. Rate limiting (429) and
// failures without a status are retryable; any other status is permanent.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	code := StatusCode(err)
	if code == 0 || code == http.StatusTooManyRequests {
		return OutcomeRetryable
	}
	return OutcomePermanent
}
