package dispatch

import (
	"errors"
	"sync"

	"github.com/jonwraymond/incidentops/incident"
)

// ErrNotFound indicates no incident on the board has the requested ID.
var ErrNotFound = errors.New("dispatch: incident not found")

// Board is the ordered, most-recent-first incident list.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Identity: at most one entry per incident ID.
// - Ownership: methods copy results in and out.
type Board struct {
	mu    sync.RWMutex
	items []incident.Result
	limit int
}

// NewBoard creates a board. A positive limit drops the oldest entries once
// exceeded; zero keeps everything.
func NewBoard(limit int) *Board {
	if limit < 0 {
		limit = 0
	}
	return &Board{limit: limit}
}

// Prepend places r at the front. An existing entry with the same ID is
// removed first, so a cache hit replaces the board copy with the cached
// result.
func (b *Board) Prepend(r incident.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.putFront(r.Clone())
}

func (b *Board) putFront(r incident.Result) {
	if i := b.index(r.ID); i >= 0 {
		b.items = append(b.items[:i], b.items[i+1:]...)
	}
	b.items = append(b.items, incident.Result{})
	copy(b.items[1:], b.items)
	b.items[0] = r
	if b.limit > 0 && len(b.items) > b.limit {
		clear(b.items[b.limit:])
		b.items = b.items[:b.limit]
	}
}

func (b *Board) index(id string) int {
	for i := range b.items {
		if b.items[i].ID == id {
			return i
		}
	}
	return -1
}

// List returns a copy of the board, most recent first.
func (b *Board) List() []incident.Result {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]incident.Result, len(b.items))
	for i, r := range b.items {
		out[i] = r.Clone()
	}
	return out
}

// Get returns the incident with id.
func (b *Board) Get(id string) (incident.Result, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if i := b.index(id); i >= 0 {
		return b.items[i].Clone(), nil
	}
	return incident.Result{}, ErrNotFound
}

// UpdateStatus sets the status of the incident with id in place, keeping
// its position.
func (b *Board) UpdateStatus(id string, status incident.Status) (incident.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.index(id)
	if i < 0 {
		return incident.Result{}, ErrNotFound
	}
	b.items[i].Status = status
	return b.items[i].Clone(), nil
}

// Len returns the number of incidents on the board.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

// HasErrors reports whether any incident carries status ERROR.
func (b *Board) HasErrors() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, r := range b.items {
		if r.Status == incident.StatusError {
			return true
		}
	}
	return false
}

// Stats summarizes the board.
func (b *Board) Stats() incident.Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return incident.ComputeStats(b.items)
}
