package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jonwraymond/incidentops/incident"
)

// MinInputLength is the shortest accepted note, in runes after trimming.
const MinInputLength = 5

// Extraction defaults.
const (
	DefaultSummary     = "Summary unavailable."
	DefaultType        = "OTHER"
	DefaultSourceTitle = "Source"
	FallbackSummary    = "System fault in AI parsing logic."
)

// DefaultFallbackCoords is the city center used when no location is known.
var DefaultFallbackCoords = incident.Coordinates{Lat: 37.7749, Lng: -122.4194}

// ValidateInput rejects notes too short to classify.
func ValidateInput(raw string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(raw)); n < MinInputLength {
		return fmt.Errorf("%w: %d characters, need at least %d", ErrInvalidInput, n, MinInputLength)
	}
	return nil
}

// NormalizePriority converts an upstream priority to the 1..10 range.
// Missing, zero and non-numeric values become DefaultPriority; fractional
// values are rounded.
func NormalizePriority(v any) int {
	var f float64
	switch p := v.(type) {
	case float64:
		f = p
	case float32:
		f = float64(p)
	case int:
		f = float64(p)
	case int64:
		f = float64(p)
	case json.Number:
		parsed, err := p.Float64()
		if err != nil {
			return incident.DefaultPriority
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return incident.DefaultPriority
		}
		f = parsed
	default:
		return incident.DefaultPriority
	}

	if f == 0 || math.IsNaN(f) {
		return incident.DefaultPriority
	}
	// Bound before converting so huge values cannot overflow int.
	r := math.Round(f)
	if r > incident.MaxPriority {
		return incident.MaxPriority
	}
	if r < incident.MinPriority {
		return incident.MinPriority
	}
	return int(r)
}

// buildResult applies defaults to a successful extraction.
func (c *Classifier) buildResult(ext *Extraction, raw string, started, finished time.Time) incident.Result {
	summary := strings.TrimSpace(ext.Summary)
	if summary == "" {
		summary = DefaultSummary
	}
	typ := strings.ToUpper(strings.TrimSpace(ext.Type))
	if typ == "" {
		typ = DefaultType
	}
	severity, ok := incident.ParseSeverity(ext.Severity)
	if !ok {
		severity = incident.SeverityMinor
	}
	coords := c.cfg.FallbackCoords
	if ext.Coords != nil {
		coords = *ext.Coords
	}

	var sources []incident.GroundingSource
	for _, src := range ext.Sources {
		if src.URI == "" {
			continue
		}
		if src.Title == "" {
			src.Title = DefaultSourceTitle
		}
		sources = append(sources, src)
	}

	latency := finished.Sub(started).Milliseconds()
	return incident.Result{
		ID:                c.cfg.NewID(),
		Summary:           summary,
		Type:              typ,
		Severity:          severity,
		PriorityScore:     NormalizePriority(ext.PriorityScore),
		Coords:            coords,
		Timestamp:         finished.UTC(),
		Status:            incident.StatusActive,
		RawSource:         raw,
		ProcessingLatency: &latency,
		GroundingSources:  sources,
	}
}

// Fallback returns the sentinel result used when classification could not
// complete. It is distinguishable from a real result only by its status.
//
// The ID is "ERR-" + base-36 Unix millis + "-" + six random hex digits,
// so fallbacks created in the same millisecond stay distinct.
func Fallback(now time.Time, coords incident.Coordinates) incident.Result {
	return incident.Result{
		ID:            fallbackID(now),
		Summary:       FallbackSummary,
		Type:          DefaultType,
		Severity:      incident.SeverityMajor,
		PriorityScore: incident.DefaultPriority,
		Coords:        coords,
		Timestamp:     now.UTC(),
		Status:        incident.StatusError,
	}
}

func fallbackID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return "ERR-" + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)+"-"+suffix)
}
