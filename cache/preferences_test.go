package cache

import (
	"context"
	"errors"
	"testing"
)

func TestLoadPreferences_Defaults(t *testing.T) {
	c, err := NewIncidentCache(NewMemoryStore(), DefaultPolicy())
	if err != nil {
		t.Fatalf("NewIncidentCache() error = %v", err)
	}

	got, err := c.LoadPreferences(context.Background())
	if err != nil {
		t.Fatalf("LoadPreferences() error = %v", err)
	}
	if got != DefaultPreferences() {
		t.Errorf("LoadPreferences() = %+v, want defaults", got)
	}
}

func TestLoadPreferences_MergesOverDefaults(t *testing.T) {
	store := NewMemoryStore()
	c, _ := NewIncidentCache(store, DefaultPolicy())
	ctx := context.Background()

	_ = store.Set(ctx, DefaultPreferencesKey, []byte(`{"theme":"light","searchGrounding":false}`))

	got, err := c.LoadPreferences(ctx)
	if err != nil {
		t.Fatalf("LoadPreferences() error = %v", err)
	}
	want := DefaultPreferences()
	want.Theme = "light"
	want.SearchGrounding = false
	if got != want {
		t.Errorf("LoadPreferences() = %+v, want %+v", got, want)
	}
}

func TestSavePreferences_RoundTrip(t *testing.T) {
	c, _ := NewIncidentCache(NewMemoryStore(), DefaultPolicy())
	ctx := context.Background()

	prefs := Preferences{HighContrast: true, MapZoom: 15, AutoDispatch: true, Theme: "light", SearchGrounding: false}
	if err := c.SavePreferences(ctx, prefs); err != nil {
		t.Fatalf("SavePreferences() error = %v", err)
	}
	got, err := c.LoadPreferences(ctx)
	if err != nil || got != prefs {
		t.Errorf("LoadPreferences() = (%+v, %v), want %+v", got, err, prefs)
	}
}

func TestLoadPreferences_Corrupt(t *testing.T) {
	store := NewMemoryStore()
	c, _ := NewIncidentCache(store, DefaultPolicy())
	ctx := context.Background()
	_ = store.Set(ctx, DefaultPreferencesKey, []byte(`[]`))

	got, err := c.LoadPreferences(ctx)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("LoadPreferences() error = %v, want ErrCorrupt", err)
	}
	if got != DefaultPreferences() {
		t.Errorf("LoadPreferences() = %+v, want defaults on corruption", got)
	}
}
