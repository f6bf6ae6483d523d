package incident

import (
	"errors"
	"strings"
	"time"
)

// Severity is the triage level assigned to an incident.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityMajor    Severity = "MAJOR"
	SeverityMinor    Severity = "MINOR"
)

// ParseSeverity normalizes s and reports whether it names a known severity.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(strings.ToUpper(strings.TrimSpace(s))) {
	case SeverityCritical:
		return SeverityCritical, true
	case SeverityMajor:
		return SeverityMajor, true
	case SeverityMinor:
		return SeverityMinor, true
	default:
		return "", false
	}
}

// Status is the lifecycle state of an incident.
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusDispatched Status = "DISPATCHED"
	StatusSolved     Status = "SOLVED"
	StatusError      Status = "ERROR"
)

// ErrUnknownStatus is returned by ParseStatus for unrecognized values.
var ErrUnknownStatus = errors.New("incident: unknown status")

// ParseStatus normalizes s into a Status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusActive, StatusDispatched, StatusSolved, StatusError:
		return st, nil
	default:
		return "", ErrUnknownStatus
	}
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GroundingSource is a citation returned by the extraction service when
// external grounding is enabled.
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Priority bounds.
const (
	MinPriority     = 1
	MaxPriority     = 10
	DefaultPriority = 5
)

// ClampPriority bounds p to [MinPriority, MaxPriority].
func ClampPriority(p int) int {
	if p < MinPriority {
		return MinPriority
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return p
}

// Result is a classified incident.
type Result struct {
	ID                string            `json:"id"`
	Summary           string            `json:"summary"`
	Type              string            `json:"type"`
	Severity          Severity          `json:"severity"`
	PriorityScore     int               `json:"priority_score"`
	Coords            Coordinates       `json:"coords"`
	Timestamp         time.Time         `json:"timestamp"`
	Status            Status            `json:"status"`
	RawSource         string            `json:"raw_source,omitempty"`
	ProcessingLatency *int64            `json:"processing_latency,omitempty"`
	GroundingSources  []GroundingSource `json:"grounding_sources,omitempty"`
}

// IsFallback reports whether r is the sentinel produced when classification
// could not complete.
func (r Result) IsFallback() bool {
	return r.Status == StatusError
}

// Clone returns a deep copy of r.
func (r Result) Clone() Result {
	out := r
	if r.ProcessingLatency != nil {
		v := *r.ProcessingLatency
		out.ProcessingLatency = &v
	}
	if r.GroundingSources != nil {
		out.GroundingSources = make([]GroundingSource, len(r.GroundingSources))
		copy(out.GroundingSources, r.GroundingSources)
	}
	return out
}

// Stats summarizes the visible incident list.
type Stats struct {
	Total      int `json:"total"`
	Critical   int `json:"critical"`
	Dispatched int `json:"dispatched"`
	Solved     int `json:"solved"`
}

// ComputeStats counts open (non-solved) incidents by severity and status.
func ComputeStats(results []Result) Stats {
	var s Stats
	for _, r := range results {
		if r.Status == StatusSolved {
			s.Solved++
			continue
		}
		s.Total++
		if r.Severity == SeverityCritical {
			s.Critical++
		}
		if r.Status == StatusDispatched {
			s.Dispatched++
		}
	}
	return s
}
