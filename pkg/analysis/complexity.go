package analysis

import (
	"math"
	"strings"
)

// Pattern names reported by FindPatterns.
const (
	PatternRepetition         = "repetition"
	PatternNumericSequence    = "numeric_sequence"
	PatternAlphabeticSequence = "alphabetic_sequence"
)

// Crack-time buckets, from fastest to slowest.
const (
	BucketLessThanMinute   = "less_than_minute"
	BucketMinutes          = "minutes"
	BucketHours            = "hours"
	BucketDays             = "days"
	BucketYears            = "years"
	BucketThousandsOfYears = "thousands_of_years"
)

// GuessesPerSecond is the attacker speed assumed by EstimateCrackSeconds.
const GuessesPerSecond = 1e9

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
	secondsPerYear   = 31536000
	maxYears         = 1000
)

var (
	numericRuns    = []string{"0123", "1234", "2345", "3456", "4567", "5678", "6789"}
	alphabeticRuns = []string{"abcd", "bcde", "cdef", "defg", "efgh", "fghi", "ghij"}
)

// CrackTime is a bucketed crack-time estimate. Value is the whole number of
// units for the minutes..years buckets and 0 otherwise.
type CrackTime struct {
	Bucket string
	Value  int64
}

// Complexity is the full analysis of one password.
type Complexity struct {
	Length       int
	CharsetSize  int
	EntropyBits  float64
	UniqueChars  int
	Patterns     []string
	CrackSeconds float64
	CrackTime    CrackTime
}

// Analyze computes every complexity figure for password.
func Analyze(password string) Complexity {
	seconds := EstimateCrackSeconds(password)
	return Complexity{
		Length:       len([]rune(password)),
		CharsetSize:  CharsetSize(password),
		EntropyBits:  Entropy(password),
		UniqueChars:  UniqueChars(password),
		Patterns:     FindPatterns(password),
		CrackSeconds: seconds,
		CrackTime:    BucketCrackTime(seconds),
	}
}

// CharsetSize returns the size of the alphabet an attacker would have to
// search given the character classes present in password.
func CharsetSize(password string) int {
	var lower, upper, digit, other bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			other = true
		}
	}
	size := 0
	if lower {
		size += 26
	}
	if upper {
		size += 26
	}
	if digit {
		size += 10
	}
	if other {
		size += 32
	}
	return size
}

// Entropy returns length × log2(charset) in bits. The empty password has
// zero entropy.
func Entropy(password string) float64 {
	charset := CharsetSize(password)
	if charset == 0 {
		return 0
	}
	return float64(len([]rune(password))) * math.Log2(float64(charset))
}

// UniqueChars counts distinct code points.
func UniqueChars(password string) int {
	seen := make(map[rune]struct{})
	for _, r := range password {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// FindPatterns lists the weak patterns present in password, in a fixed order.
func FindPatterns(password string) []string {
	patterns := []string{}
	if hasTripleRun(password) {
		patterns = append(patterns, PatternRepetition)
	}
	if containsAny(password, numericRuns) {
		patterns = append(patterns, PatternNumericSequence)
	}
	if containsAny(strings.ToLower(password), alphabeticRuns) {
		patterns = append(patterns, PatternAlphabeticSequence)
	}
	return patterns
}

// EstimateCrackSeconds returns the average time to brute-force password at
// GuessesPerSecond. Values too large for a float64 are capped at
// math.MaxFloat64.
func EstimateCrackSeconds(password string) float64 {
	combinations := math.Pow(float64(CharsetSize(password)), float64(len([]rune(password))))
	seconds := combinations / (2 * GuessesPerSecond)
	if math.IsInf(seconds, 1) {
		return math.MaxFloat64
	}
	return seconds
}

// BucketCrackTime maps a duration in seconds onto a human-sized bucket.
func BucketCrackTime(seconds float64) CrackTime {
	switch {
	case seconds < secondsPerMinute:
		return CrackTime{Bucket: BucketLessThanMinute}
	case seconds < secondsPerHour:
		return CrackTime{Bucket: BucketMinutes, Value: int64(seconds / secondsPerMinute)}
	case seconds < secondsPerDay:
		return CrackTime{Bucket: BucketHours, Value: int64(seconds / secondsPerHour)}
	case seconds < secondsPerYear:
		return CrackTime{Bucket: BucketDays, Value: int64(seconds / secondsPerDay)}
	case seconds < secondsPerYear*maxYears:
		return CrackTime{Bucket: BucketYears, Value: int64(seconds / secondsPerYear)}
	default:
		return CrackTime{Bucket: BucketThousandsOfYears}
	}
}

// hasTripleRun reports whether any character appears three or more times
// in a row.
func hasTripleRun(password string) bool {
	var prev rune
	run := 0
	for i, r := range password {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= 3 {
			return true
		}
		prev = r
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
