package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 30 * time.Minute

// Entry is a session together with its bookkeeping times.
type Entry struct {
	ID         string
	Controller *Controller
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Registry is a concurrent map of sessions keyed by ID. A background
// goroutine (Run) periodically evicts sessions that have been idle longer
// than the TTL.
type Registry struct {
	entries *xsync.Map[string, *Entry]
	ttl     time.Duration
	now     func() time.Time // injectable for deterministic tests

	mu   sync.RWMutex
	opts Options
}

// NewRegistry creates a Registry. New sessions start with opts.
func NewRegistry(ttl time.Duration, opts Options) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		entries: xsync.NewMap[string, *Entry](),
		ttl:     ttl,
		now:     time.Now,
		opts:    opts.withDefaults(),
	}
}

// Create registers a new session and returns it.
func (r *Registry) Create() *Entry {
	r.mu.RLock()
	opts := r.opts
	r.mu.RUnlock()

	now := r.now()
	e := &Entry{
		ID:         uuid.NewString(),
		Controller: NewController(opts),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.entries.Store(e.ID, e)
	return e
}

// Get returns the live session for id. Sessions past their TTL that have
// not been evicted yet are reported as missing.
func (r *Registry) Get(id string) (*Entry, bool) {
	e, ok := r.entries.Load(id)
	if !ok || r.expired(e, r.now()) {
		return nil, false
	}
	return e, true
}

// Touch marks the session as used now. It returns false for unknown ids.
func (r *Registry) Touch(id string) bool {
	now := r.now()
	touched := false
	r.entries.Compute(id, func(old *Entry, loaded bool) (*Entry, xsync.ComputeOp) {
		if !loaded || r.expired(old, now) {
			return old, xsync.CancelOp
		}
		cp := *old
		cp.UpdatedAt = now
		touched = true
		return &cp, xsync.UpdateOp
	})
	return touched
}

// Delete removes the session and reports whether it existed.
func (r *Registry) Delete(id string) bool {
	_, ok := r.entries.LoadAndDelete(id)
	return ok
}

// Count returns the number of sessions held, including expired ones not yet
// evicted.
func (r *Registry) Count() int {
	return r.entries.Size()
}

// TTL returns the idle timeout.
func (r *Registry) TTL() time.Duration { return r.ttl }

// SetOptions changes the timings for new sessions and for every live one.
func (r *Registry) SetOptions(opts Options) {
	r.mu.Lock()
	r.opts = opts.withDefaults()
	r.mu.Unlock()

	r.entries.Range(func(_ string, e *Entry) bool {
		e.Controller.SetOptions(opts)
		return true
	})
}

// Evict removes sessions idle since before now minus TTL and returns how
// many were removed.
func (r *Registry) Evict(now time.Time) int {
	removed := 0
	r.entries.Range(func(id string, _ *Entry) bool {
		r.entries.Compute(id, func(old *Entry, loaded bool) (*Entry, xsync.ComputeOp) {
			if loaded && r.expired(old, now) {
				removed++
				return old, xsync.DeleteOp
			}
			return old, xsync.CancelOp
		})
		return true
	})
	return removed
}

// Run starts the eviction loop. It ticks at half the TTL (minimum 1 second)
// and blocks until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	interval := r.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := r.Evict(now); n > 0 {
				slog.Debug("session: evicted idle sessions", "count", n)
			}
		}
	}
}

func (r *Registry) expired(e *Entry, now time.Time) bool {
	return !e.UpdatedAt.After(now.Add(-r.ttl))
}
