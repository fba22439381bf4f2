package session

import (
	"sync"
	"time"

	"github.com/passmeter/passmeter/pkg/strength"
)

// Default controller timings.
const (
	DefaultCelebrationCooldown = 5 * time.Second
	DefaultRevealDuration      = 3 * time.Second
)

// Options tunes a Controller.
type Options struct {
	// CelebrationCooldown suppresses repeat celebrations for this long.
	CelebrationCooldown time.Duration
	// RevealDuration is how long a generated password stays in plaintext.
	RevealDuration time.Duration
}

// DefaultOptions returns the standard timings.
func DefaultOptions() Options {
	return Options{
		CelebrationCooldown: DefaultCelebrationCooldown,
		RevealDuration:      DefaultRevealDuration,
	}
}

// withDefaults fills zero fields.
func (o Options) withDefaults() Options {
	if o.CelebrationCooldown <= 0 {
		o.CelebrationCooldown = DefaultCelebrationCooldown
	}
	if o.RevealDuration <= 0 {
		o.RevealDuration = DefaultRevealDuration
	}
	return o
}

// Controller is the UI state for one password field. It is safe for
// concurrent use.
type Controller struct {
	mu   sync.Mutex
	opts Options

	visible       bool
	revealUntil   time.Time
	revealPending bool
	celebratedAt  time.Time
	last          strength.Result
}

// NewController returns a Controller with the field masked and no
// celebration on record.
func NewController(opts Options) *Controller {
	return &Controller{
		opts: opts.withDefaults(),
		last: strength.Evaluate(""),
	}
}

// Evaluate scores password, records the result and reports whether the
// caller should celebrate.
func (c *Controller) Evaluate(password string, now time.Time) (strength.Result, bool) {
	res := strength.Evaluate(password)
	c.mu.Lock()
	c.last = res
	c.mu.Unlock()
	return res, c.Observe(res, now)
}

// Last returns the most recent result passed through Evaluate.
func (c *Controller) Last() strength.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Observe returns true when res is strong and no celebration fired within
// the cooldown. A true result starts a new cooldown.
func (c *Controller) Observe(res strength.Result, now time.Time) bool {
	if res.Score < strength.ThresholdStrong {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.celebratedAt.IsZero() && now.Sub(c.celebratedAt) < c.opts.CelebrationCooldown {
		return false
	}
	c.celebratedAt = now
	return true
}

// ToggleVisibility flips the user's plaintext toggle and returns the new
// state. Switching it off also ends a pending reveal.
func (c *Controller) ToggleVisibility() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = !c.visible
	if !c.visible {
		c.revealPending = false
	}
	return c.visible
}

// Reveal shows the field in plaintext until the returned deadline.
func (c *Controller) Reveal(now time.Time) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revealUntil = now.Add(c.opts.RevealDuration)
	c.revealPending = true
	return c.revealUntil
}

// Visible reports whether the field should render in plaintext at now.
func (c *Controller) Visible(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible || (c.revealPending && now.Before(c.revealUntil))
}

// RevealExpired returns true exactly once after a reveal lapses, and only
// when the user toggle is off so the field has to be masked again.
func (c *Controller) RevealExpired(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.revealPending || now.Before(c.revealUntil) {
		return false
	}
	c.revealPending = false
	return !c.visible
}

// SetOptions replaces the timings. A pending reveal keeps its deadline; the
// new cooldown applies from the next Observe.
func (c *Controller) SetOptions(opts Options) {
	c.mu.Lock()
	c.opts = opts.withDefaults()
	c.mu.Unlock()
}

// Options returns the current timings.
func (c *Controller) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}
