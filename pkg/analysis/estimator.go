package analysis

import (
	"fmt"
	"strings"
	"time"

	zxcvbn "github.com/ccojocar/zxcvbn-go"
	"github.com/maypok86/otter"
	"github.com/zeebo/xxh3"
)

// Default estimator cache settings.
const (
	DefaultCacheSize = 4096
	DefaultCacheTTL  = 10 * time.Minute
)

// MaxEstimateRunes bounds the input handed to zxcvbn, whose matching cost
// grows roughly with the cube of the length. Runes past the bound are not
// scored.
const MaxEstimateRunes = 100

// Estimate is a dictionary-aware strength estimate.
type Estimate struct {
	// Score is zxcvbn's 0–4 rating.
	Score int
	// Entropy is zxcvbn's entropy in bits.
	Entropy float64
	// CrackTimeSeconds and CrackTimeDisplay are zxcvbn's offline-attack estimate.
	CrackTimeSeconds float64
	CrackTimeDisplay string
}

// Estimator computes zxcvbn estimates and memoises them. It is safe for
// concurrent use.
type Estimator struct {
	cache otter.Cache[uint64, Estimate]
}

// NewEstimator creates an Estimator whose cache holds at most size entries,
// each for at most ttl. Zero values select the defaults.
func NewEstimator(size int, ttl time.Duration) (*Estimator, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	cache, err := otter.MustBuilder[uint64, Estimate](size).
		Cost(func(_ uint64, _ Estimate) uint32 { return 1 }).
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, fmt.Errorf("analysis: build estimate cache: %w", err)
	}
	return &Estimator{cache: cache}, nil
}

// Estimate returns the zxcvbn estimate for password. userInputs are extra
// dictionary words (user name, e-mail) that make a password weaker when
// they appear in it. Only the first MaxEstimateRunes runes are scored; the
// cache key still covers the full password.
func (e *Estimator) Estimate(password string, userInputs []string) Estimate {
	key := cacheKey(password, userInputs)
	if est, ok := e.cache.Get(key); ok {
		return est
	}

	m := zxcvbn.PasswordStrength(truncateRunes(password, MaxEstimateRunes), userInputs)
	est := Estimate{
		Score:            m.Score,
		Entropy:          m.Entropy,
		CrackTimeSeconds: m.CrackTime,
		CrackTimeDisplay: m.CrackTimeDisplay,
	}
	e.cache.Set(key, est)
	return est
}

// Len returns the number of cached estimates.
func (e *Estimator) Len() int { return e.cache.Size() }

// Close releases the cache's background resources.
func (e *Estimator) Close() { e.cache.Close() }

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// cacheKey digests the inputs so plaintext passwords are never retained as
// keys. NUL separates fields because it cannot appear in form input.
func cacheKey(password string, userInputs []string) uint64 {
	if len(userInputs) == 0 {
		return xxh3.HashString(password)
	}
	return xxh3.HashString(password + "\x00" + strings.Join(userInputs, "\x00"))
}
