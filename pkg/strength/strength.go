package strength

import (
	"strings"
	"unicode/utf8"
)

// Category constants returned by the evaluator.
const (
	CategoryEmpty    = "empty"
	CategoryWeak     = "weak"
	CategoryModerate = "moderate"
	CategoryStrong   = "strong"
)

// Thresholds that map a score to a category.
const (
	ThresholdModerate = 40
	ThresholdStrong   = 80
)

// Adjustment constants applied after the criteria sum.
const (
	bonusLength      = 12
	extraBonusLength = 16
	lengthBonus      = 10

	sequencePenalty   = 20
	repetitionPenalty = 15

	// repetitionRatio is the share of the password a single character may
	// occupy before the repetition penalty applies.
	repetitionRatio = 0.4
)

// commonSequences are matched case-insensitively, forward and reversed.
var commonSequences = []string{
	"123", "234", "345", "456", "567", "678", "789",
	"abc", "bcd", "cde", "def", "efg", "fgh", "ghi",
	"qwerty", "asdf", "zxcv",
	"111", "222", "333", "444", "555", "666", "777", "888", "999",
}

// CriterionResult reports whether one criterion was met.
type CriterionResult struct {
	Name   string
	Points int
	Met    bool
}

// Result is the outcome of a single evaluation.
type Result struct {
	// Score is the adjusted score, never negative and at most MaxScore().
	Score int

	// MetCount is the number of satisfied criteria (0–5).
	MetCount int

	// Category is derived from Score. One of the Category* constants.
	Category string

	// Length is the password length in code points.
	Length int

	// Criteria lists every criterion in table order with its met state.
	// Used to drive the five per-criterion indicators.
	Criteria []CriterionResult

	// LengthBonus is 0, 10 or 20.
	LengthBonus int

	// CommonSequence and ExcessiveRepetition record which penalties applied.
	CommonSequence      bool
	ExcessiveRepetition bool

	// Tips is the ordered suggestion list.
	Tips []Tip
}

// Penalty returns the total amount subtracted from the criteria sum, before
// clamping.
func (r Result) Penalty() int {
	p := 0
	if r.CommonSequence {
		p += sequencePenalty
	}
	if r.ExcessiveRepetition {
		p += repetitionPenalty
	}
	return p
}

// Evaluate scores password. It is total over all strings, deterministic and
// has no side effects.
func Evaluate(password string) Result {
	res := Result{
		Length:   runeLen(password),
		Criteria: make([]CriterionResult, 0, len(criteria)),
	}

	score := 0
	for _, c := range criteria {
		met := c.Test(password)
		if met {
			score += c.Points
			res.MetCount++
		}
		res.Criteria = append(res.Criteria, CriterionResult{Name: c.Name, Points: c.Points, Met: met})
	}

	if res.Length >= bonusLength {
		res.LengthBonus += lengthBonus
	}
	if res.Length >= extraBonusLength {
		res.LengthBonus += lengthBonus
	}
	score += res.LengthBonus

	res.CommonSequence = HasCommonSequence(password)
	res.ExcessiveRepetition = HasExcessiveRepetition(password)
	score -= res.Penalty()

	if score < 0 {
		score = 0
	}
	res.Score = score
	res.Category = CategoryFor(score)
	res.Tips = buildTips(password, res)
	return res
}

// CategoryFor maps a score to its category.
func CategoryFor(score int) string {
	switch {
	case score <= 0:
		return CategoryEmpty
	case score < ThresholdModerate:
		return CategoryWeak
	case score < ThresholdStrong:
		return CategoryModerate
	default:
		return CategoryStrong
	}
}

// HasCommonSequence reports whether the lower-cased password contains any
// common sequence, either as written or reversed ("321", "cba").
func HasCommonSequence(password string) bool {
	lower := strings.ToLower(password)
	for _, seq := range commonSequences {
		if strings.Contains(lower, seq) || strings.Contains(lower, reverse(seq)) {
			return true
		}
	}
	return false
}

// HasExcessiveRepetition reports whether any single character occurs more
// than 40% of the password length. Scanning stops at the first character
// that crosses the limit.
func HasExcessiveRepetition(password string) bool {
	limit := float64(runeLen(password)) * repetitionRatio
	counts := make(map[rune]int)
	for _, r := range password {
		counts[r]++
		if float64(counts[r]) > limit {
			return true
		}
	}
	return false
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

func reverse(s string) string {
	rs := []rune(s)
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
	return string(rs)
}
