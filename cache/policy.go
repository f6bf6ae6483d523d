package cache

import "time"

// DefaultTTL is how long a classified incident stays reusable.
const DefaultTTL = 24 * time.Hour

// Default storage namespaces.
const (
	DefaultNamespace      = "incident_history"
	DefaultPreferencesKey = "user_prefs"
)

// Policy configures cache expiry and key layout.
type Policy struct {
	// TTL is the maximum entry age. Entries strictly older are expired.
	// Default: 24 hours
	TTL time.Duration

	// Namespace prefixes every incident storage key.
	// Default: "incident_history"
	Namespace string

	// PreferencesKey is the storage key holding operator preferences.
	// Default: "user_prefs"
	PreferencesKey string
}

// DefaultPolicy returns the default caching policy.
func DefaultPolicy() Policy {
	return Policy{
		TTL:            DefaultTTL,
		Namespace:      DefaultNamespace,
		PreferencesKey: DefaultPreferencesKey,
	}
}

func (p Policy) withDefaults() Policy {
	if p.TTL <= 0 {
		p.TTL = DefaultTTL
	}
	if p.Namespace == "" {
		p.Namespace = DefaultNamespace
	}
	if p.PreferencesKey == "" {
		p.PreferencesKey = DefaultPreferencesKey
	}
	return p
}

// Expired reports whether an entry created at createdAt is past the TTL
// at now. An entry exactly TTL old is still live.
func (p Policy) Expired(createdAt, now time.Time) bool {
	return now.Sub(createdAt) > p.TTL
}
