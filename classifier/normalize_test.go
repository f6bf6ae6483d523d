package classifier

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestNormalizePriority(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"in range", float64(7), 7},
		{"rounds", 6.6, 7},
		{"above max", float64(42), 10},
		{"huge", 1e300, 10},
		{"negative", float64(-3), 1},
		{"small fraction", 0.4, 1},
		{"zero", float64(0), 5},
		{"nil", nil, 5},
		{"nan", math.NaN(), 5},
		{"positive inf", math.Inf(1), 10},
		{"int", 3, 3},
		{"json number", json.Number("8"), 8},
		{"numeric string", " 2 ", 2},
		{"non-numeric string", "high", 5},
		{"bool", true, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePriority(tt.in); got != tt.want {
				t.Errorf("NormalizePriority(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", true},
		{"abcd", true},
		{"   abcd   ", true},
		{"abcde", false},
		{"ñandú", false},
		{"火災です", true},
	}
	for _, tt := range tests {
		err := ValidateInput(tt.in)
		if tt.wantErr && !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ValidateInput(%q) error = %v, want ErrInvalidInput", tt.in, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("ValidateInput(%q) error = %v, want nil", tt.in, err)
		}
	}
}

func TestFallback(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	got := Fallback(now, DefaultFallbackCoords)

	if !strings.HasPrefix(got.ID, "ERR-LOYW3V28-") || len(got.ID) != len("ERR-LOYW3V28-")+6 {
		t.Errorf("ID = %q, want ERR-LOYW3V28-XXXXXX", got.ID)
	}
	if !got.IsFallback() {
		t.Error("IsFallback() = false, want true")
	}
	if got.ProcessingLatency != nil || got.GroundingSources != nil {
		t.Errorf("fallback carries optional fields: %+v", got)
	}
}

func TestFallback_SameMillisecondIDsDiffer(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id := Fallback(now, DefaultFallbackCoords).ID
		if seen[id] {
			t.Fatalf("duplicate fallback ID %q", id)
		}
		seen[id] = true
	}
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		err  error
		want Outcome
	}{
		{nil, OutcomeSuccess},
		{&StatusError{Code: 429}, OutcomeRetryable},
		{errors.New("dial tcp: refused"), OutcomeRetryable},
		{&StatusError{Code: 500}, OutcomePermanent},
		{&StatusError{Code: 400}, OutcomePermanent},
	}
	for _, tt := range tests {
		if got := OutcomeOf(tt.err); got != tt.want {
			t.Errorf("OutcomeOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestStatusError(t *testing.T) {
	err := &StatusError{Code: 429, Message: "quota"}
	if StatusCode(err) != 429 {
		t.Errorf("StatusCode() = %d, want 429", StatusCode(err))
	}
	if StatusCode(errors.New("x")) != 0 {
		t.Error("StatusCode(plain error) should be 0")
	}
	if err.Error() != "classifier: service returned status 429: quota" {
		t.Errorf("Error() = %q", err.Error())
	}
}
