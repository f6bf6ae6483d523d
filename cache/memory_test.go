package cache

import (
	"bytes"
	"context"
	"sync"
	"testing"
)

func TestMemoryStore_GetSetDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	val, ok, err := s.Get(ctx, "nonexistent")
	if err != nil || ok || val != nil {
		t.Errorf("Get on empty store = (%v, %v, %v), want (nil, false, nil)", val, ok, err)
	}

	if err := s.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || !bytes.Equal(got, []byte("v1")) {
		t.Errorf("Get after Set = (%q, %v, %v)", got, ok, err)
	}

	if err := s.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, _, _ = s.Get(ctx, "k")
	if !bytes.Equal(got, []byte("v2")) {
		t.Errorf("Get after overwrite = %q, want v2", got)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("Get after Delete should miss")
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete on missing key should not error, got: %v", err)
	}
}

func TestMemoryStore_RejectsInvalidKey(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Set(context.Background(), "", []byte("x")); err != ErrInvalidKey {
		t.Errorf("Set(\"\") error = %v, want ErrInvalidKey", err)
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	value := []byte("original")
	_ = s.Set(ctx, "k", value)
	value[0] = 'X'

	got, _, _ := s.Get(ctx, "k")
	got[1] = 'Y'

	again, _, _ := s.Get(ctx, "k")
	if string(again) != "original" {
		t.Errorf("stored value mutated through caller slices: %q", again)
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%26))
			_ = s.Set(ctx, key, []byte{byte(i)})
			_, _, _ = s.Get(ctx, key)
			if i%5 == 0 {
				_ = s.Delete(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	if s.Len() > 26 {
		t.Errorf("Len() = %d, want <= 26", s.Len())
	}
}
