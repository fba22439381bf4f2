// Package analysis produces the detailed complexity breakdown shown next to
// the strength meter.
//
// complexity.go is pure and cheap:
//
//	charset  = 26 (a-z) + 26 (A-Z) + 10 (0-9) + 32 (anything else)
//	entropy  = length × log2(charset)
//	crack    = charset^length / (2 × 1e9) seconds   // average case at 1e9 guesses/s
//
// plus the count of distinct characters and a list of weak patterns (three
// identical characters in a row, four-digit runs, four-letter runs).
//
// estimator.go wraps github.com/ccojocar/zxcvbn-go for a dictionary-aware
// estimate. Results are memoised in a bounded TTL cache keyed by an xxh3
// digest so the plaintext never becomes a map key.
//
// Both estimates are heuristics for user feedback. Neither is a security
// guarantee.
package analysis
