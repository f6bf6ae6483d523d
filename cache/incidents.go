package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonwraymond/incidentops/incident"
)

// IncidentCache stores classified incidents by content key.
//
// Contract:
// - Concurrency: safe for concurrent use if the Store is.
// - Expiry: lazy; Lookup deletes entries older than Policy.TTL.
// - Ownership: Lookup returns a fresh copy decoded from storage.
type IncidentCache struct {
	store  Store
	policy Policy
	now    func() time.Time
}

// Option configures an IncidentCache.
type Option func(*IncidentCache)

// WithClock overrides the wall clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *IncidentCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewIncidentCache creates a cache over store.
// Zero-valued policy fields take their defaults.
func NewIncidentCache(store Store, policy Policy, opts ...Option) (*IncidentCache, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	c := &IncidentCache{
		store:  store,
		policy: policy.withDefaults(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Policy returns the effective policy.
func (c *IncidentCache) Policy() Policy {
	return c.policy
}

// Backend returns the underlying storage collaborator.
func (c *IncidentCache) Backend() Store {
	return c.store
}

// Lookup returns the incident cached under key.
// Returns (nil, false, nil) on miss or expiry. Expired and undecodable
// entries are deleted.
func (c *IncidentCache) Lookup(ctx context.Context, key Key) (*incident.Result, bool, error) {
	storageKey := StorageKey(c.policy.Namespace, key)

	data, ok, err := c.store.Get(ctx, storageKey)
	if err != nil {
		return nil, false, fmt.Errorf("cache: get %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	var result incident.Result
	if err := json.Unmarshal(data, &result); err != nil {
		if delErr := c.store.Delete(ctx, storageKey); delErr != nil {
			return nil, false, fmt.Errorf("%w: %s: %v: delete: %w", ErrCorrupt, key, err, delErr)
		}
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}

	if c.policy.Expired(result.Timestamp, c.now()) {
		if err := c.store.Delete(ctx, storageKey); err != nil {
			return nil, false, fmt.Errorf("cache: delete expired %s: %w", key, err)
		}
		return nil, false, nil
	}

	return &result, true, nil
}

// Store saves result under key, overwriting any previous entry. The entry's
// age is measured from result.Timestamp, not from the time of this call.
func (c *IncidentCache) Store(ctx context.Context, key Key, result incident.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := c.store.Set(ctx, StorageKey(c.policy.Namespace, key), data); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}
