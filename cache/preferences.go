package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

// Preferences are operator UI settings. The cache treats them as opaque
// except for SearchGrounding, which the dispatcher forwards to the
// classifier.
type Preferences struct {
	HighContrast    bool   `json:"highContrast"`
	MapZoom         int    `json:"mapZoom"`
	AutoDispatch    bool   `json:"autoDispatch"`
	Theme           string `json:"theme"`
	SearchGrounding bool   `json:"searchGrounding"`
}

// DefaultPreferences returns the settings used when nothing is saved.
func DefaultPreferences() Preferences {
	return Preferences{
		HighContrast:    false,
		MapZoom:         13,
		AutoDispatch:    false,
		Theme:           "dark",
		SearchGrounding: true,
	}
}

// LoadPreferences reads saved preferences merged over the defaults.
// Fields absent from the saved document keep their default values.
func (c *IncidentCache) LoadPreferences(ctx context.Context) (Preferences, error) {
	prefs := DefaultPreferences()

	data, ok, err := c.store.Get(ctx, c.policy.PreferencesKey)
	if err != nil {
		return prefs, fmt.Errorf("cache: get preferences: %w", err)
	}
	if !ok {
		return prefs, nil
	}
	if err := json.Unmarshal(data, &prefs); err != nil {
		return DefaultPreferences(), fmt.Errorf("%w: preferences: %v", ErrCorrupt, err)
	}
	return prefs, nil
}

// SavePreferences persists prefs, replacing any saved document.
func (c *IncidentCache) SavePreferences(ctx context.Context, prefs Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("cache: encode preferences: %w", err)
	}
	if err := c.store.Set(ctx, c.policy.PreferencesKey, data); err != nil {
		return fmt.Errorf("cache: set preferences: %w", err)
	}
	return nil
}
