package cache

import (
	"context"
	"strings"
	"testing"
)

// TestValidateKey tests storage key validation rules.
func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"empty key", "", ErrInvalidKey},
		{"valid key", "incident_history_abc123", nil},
		{"too long", strings.Repeat("x", MaxKeyLength+1), ErrKeyTooLong},
		{"contains newline", "key\nwith\nnewlines", ErrInvalidKey},
		{"contains carriage return", "key\rwith\rreturns", ErrInvalidKey},
		{"whitespace only", "   ", ErrInvalidKey},
		{"max length exactly", strings.Repeat("x", MaxKeyLength), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if err != tt.wantErr {
				t.Errorf("ValidateKey(%q) = %v, want %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

// TestStoreInterface_CompileCheck verifies the Store interface contract.
func TestStoreInterface_CompileCheck(t *testing.T) {
	var _ Store = (*failingStore)(nil)
}

// failingStore is a Store whose operations all fail.
type failingStore struct {
	err error
}

func (s *failingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, s.err
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	return s.err
}

func (s *failingStore) Delete(ctx context.Context, key string) error {
	return s.err
}

// TestSentinelErrors verifies sentinel errors are distinct and have expected messages.
func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"ErrNilStore", ErrNilStore, "cache: store is nil"},
		{"ErrInvalidKey", ErrInvalidKey, "cache: key is invalid"},
		{"ErrKeyTooLong", ErrKeyTooLong, "cache: key exceeds max length"},
		{"ErrCorrupt", ErrCorrupt, "cache: stored entry is corrupt"},
	}

	seen := make(map[error]bool)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("%s.Error() = %q, want %q", tt.name, tt.err.Error(), tt.wantMsg)
			}
			if seen[tt.err] {
				t.Errorf("%s is not distinct", tt.name)
			}
			seen[tt.err] = true
		})
	}
}
