// Package session holds the per-field state that sits around the pure
// strength evaluator: whether the password is shown in plaintext, when a
// temporary reveal after generation ends, and when the strong-password
// celebration last fired.
//
// Controller owns that state for one field. Every method takes the current
// time explicitly so tests drive it with a fixed clock.
//
//	Observe(res, now)   true at most once per cooldown (default 5s) for scores ≥80
//	Reveal(now)         plaintext for RevealDuration (default 3s)
//	ToggleVisibility()  user toggle; turning it off ends any reveal
//	RevealExpired(now)  true once when a reveal lapses while the toggle is off
//
// Registry keys Controllers by UUID for the REST session endpoints and
// evicts sessions idle for longer than its TTL. Run(ctx) drives eviction.
package session
