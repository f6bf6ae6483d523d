package secret

import (
	"context"
	"errors"
	"testing"
)

type stubProvider struct {
	name    string
	values  map[string]string
	resolve func(ref string) (string, error)
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Resolve(_ context.Context, ref string) (string, error) {
	if s.resolve != nil {
		return s.resolve(ref)
	}
	return s.values[ref], nil
}

func TestParseSecretRef(t *testing.T) {
	tests := []struct {
		in           string
		wantProvider string
		wantRef      string
		wantOK       bool
	}{
		{"secretref:env:GEMINI_API_KEY", "env", "GEMINI_API_KEY", true},
		{"secretref:file:/run/secrets/key", "file", "/run/secrets/key", true},
		{"secretref:env:", "", "", false},
		{"secretref::x", "", "", false},
		{"plain-value", "", "", false},
	}
	for _, tt := range tests {
		p, ref, ok := ParseSecretRef(tt.in)
		if p != tt.wantProvider || ref != tt.wantRef || ok != tt.wantOK {
			t.Errorf("ParseSecretRef(%q) = %q, %q, %v, want %q, %q, %v", tt.in, p, ref, ok, tt.wantProvider, tt.wantRef, tt.wantOK)
		}
	}
}

func TestResolver_FullAndInlineRefs(t *testing.T) {
	r := NewResolver(true, &stubProvider{name: "stub", values: map[string]string{"alpha": "one"}})

	got, err := r.ResolveValue(context.Background(), "secretref:stub:alpha")
	if err != nil || got != "one" {
		t.Errorf("ResolveValue(full) = %q, %v, want one", got, err)
	}
	got, err = r.ResolveValue(context.Background(), "Bearer secretref:stub:alpha")
	if err != nil || got != "Bearer one" {
		t.Errorf("ResolveValue(inline) = %q, %v, want Bearer one", got, err)
	}
}

func TestResolver_Errors(t *testing.T) {
	r := NewResolver(true, &stubProvider{name: "stub", resolve: func(ref string) (string, error) {
		switch ref {
		case "empty":
			return "", nil
		case "boom":
			return "", errors.New("explode")
		}
		return "ok", nil
	}})

	tests := []struct {
		in      string
		wantErr error
	}{
		{"secretref:stub:empty", ErrEmptySecret},
		{"secretref:vault:x", ErrProviderNotRegistered},
		{"${INCIDENTOPS_TEST_UNSET_VAR}", ErrMissingEnv},
	}
	for _, tt := range tests {
		if _, err := r.ResolveValue(context.Background(), tt.in); !errors.Is(err, tt.wantErr) {
			t.Errorf("ResolveValue(%q) error = %v, want %v", tt.in, err, tt.wantErr)
		}
	}
	if _, err := r.ResolveValue(context.Background(), "secretref:stub:boom"); err == nil {
		t.Error("provider error should propagate")
	}
}

func TestResolver_EmptyValue(t *testing.T) {
	got, err := NewDefaultResolver().ResolveValue(context.Background(), "")
	if err != nil || got != "" {
		t.Errorf("ResolveValue(\"\") = %q, %v, want empty", got, err)
	}
}

func TestResolver_NilResolverExpandsEnv(t *testing.T) {
	t.Setenv("INCIDENTOPS_TEST_VALUE", "v")
	var r *Resolver
	got, err := r.ResolveValue(context.Background(), "${INCIDENTOPS_TEST_VALUE}")
	if err != nil || got != "v" {
		t.Errorf("ResolveValue() = %q, %v, want v", got, err)
	}
}

func TestResolver_ResolveSliceAndFields(t *testing.T) {
	r := NewResolver(true, &stubProvider{name: "stub", values: map[string]string{"alpha": "one"}})

	slice, err := r.ResolveSlice(context.Background(), []string{"a", "secretref:stub:alpha"})
	if err != nil {
		t.Fatalf("ResolveSlice() error = %v", err)
	}
	if slice[0] != "a" || slice[1] != "one" {
		t.Errorf("ResolveSlice() = %#v", slice)
	}

	key, other := "secretref:stub:alpha", "literal"
	if err := r.ResolveFields(context.Background(), map[string]*string{"key": &key, "other": &other, "nil": nil}); err != nil {
		t.Fatalf("ResolveFields() error = %v", err)
	}
	if key != "one" || other != "literal" {
		t.Errorf("ResolveFields() = %q, %q, want one, literal", key, other)
	}
}
