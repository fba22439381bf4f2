package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock returns a func() time.Time that always returns t.
func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestRegistry_CreateAndGet(t *testing.T) {
	r := NewRegistry(time.Minute, DefaultOptions())
	e := r.Create()

	require.NotEmpty(t, e.ID)
	got, ok := r.Get(e.ID)
	require.True(t, ok)
	assert.Same(t, e.Controller, got.Controller)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_UniqueIDs(t *testing.T) {
	r := NewRegistry(time.Minute, DefaultOptions())
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := r.Create().ID
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestRegistry_GetMissing(t *testing.T) {
	r := NewRegistry(time.Minute, DefaultOptions())
	_, ok := r.Get("nope")
	assert.False(t, ok)
}

func TestRegistry_GetExpired(t *testing.T) {
	r := NewRegistry(time.Minute, DefaultOptions())
	r.now = fixedClock(t0)
	e := r.Create()

	r.now = fixedClock(t0.Add(2 * time.Minute))
	_, ok := r.Get(e.ID)
	assert.False(t, ok, "expired sessions are hidden before eviction")
	assert.Equal(t, 1, r.Count(), "but still counted until evicted")
}

func TestRegistry_TouchExtendsLife(t *testing.T) {
	r := NewRegistry(time.Minute, DefaultOptions())
	r.now = fixedClock(t0)
	e := r.Create()

	r.now = fixedClock(t0.Add(50 * time.Second))
	require.True(t, r.Touch(e.ID))

	r.now = fixedClock(t0.Add(100 * time.Second))
	got, ok := r.Get(e.ID)
	require.True(t, ok)
	assert.Equal(t, t0.Add(50*time.Second), got.UpdatedAt)
	assert.Equal(t, t0, got.CreatedAt)

	assert.False(t, r.Touch("unknown"))
}

func TestRegistry_Delete(t *testing.T) {
	r := NewRegistry(time.Minute, DefaultOptions())
	e := r.Create()
	assert.True(t, r.Delete(e.ID))
	assert.False(t, r.Delete(e.ID))
	assert.Equal(t, 0, r.Count())
}

func TestRegistry_Evict(t *testing.T) {
	r := NewRegistry(time.Minute, DefaultOptions())

	r.now = fixedClock(t0)
	old := r.Create()
	r.now = fixedClock(t0.Add(45 * time.Second))
	fresh := r.Create()

	removed := r.Evict(t0.Add(90 * time.Second))
	assert.Equal(t, 1, removed)

	r.now = fixedClock(t0.Add(90 * time.Second))
	_, ok := r.Get(old.ID)
	assert.False(t, ok)
	_, ok = r.Get(fresh.ID)
	assert.True(t, ok)
}

func TestRegistry_SetOptionsReachesLiveSessions(t *testing.T) {
	r := NewRegistry(time.Minute, DefaultOptions())
	e := r.Create()

	r.SetOptions(Options{CelebrationCooldown: time.Minute, RevealDuration: time.Second})

	assert.Equal(t, time.Minute, e.Controller.Options().CelebrationCooldown)
	assert.Equal(t, time.Second, r.Create().Controller.Options().RevealDuration)
}

func TestRegistry_RunStopsOnCancel(t *testing.T) {
	r := NewRegistry(time.Second, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "Run did not return after cancel")
	}
}

func TestNewRegistry_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewRegistry(0, Options{}).TTL())
}
