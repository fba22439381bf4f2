package strength

import "strings"

// Criterion names, in evaluation order.
const (
	CriterionLength    = "length"
	CriterionLowercase = "lowercase"
	CriterionUppercase = "uppercase"
	CriterionNumber    = "number"
	CriterionSpecial   = "special"
)

// MinLength is the length the length criterion requires.
const MinLength = 8

// SpecialChars is the set the special-character criterion accepts.
// Backtick and tilde are deliberately absent.
const SpecialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// Criterion is one fixed password requirement.
type Criterion struct {
	// Name is the stable identifier (one of the Criterion* constants).
	Name string
	// Points is added to the score when Test reports true.
	Points int
	// Tip is the suggestion emitted when the criterion is not met.
	Tip string
	// Test reports whether the password satisfies the criterion.
	Test func(password string) bool
}

var criteria = []Criterion{
	{Name: CriterionLength, Points: 25, Tip: TipNeedLength, Test: hasMinLength},
	{Name: CriterionLowercase, Points: 20, Tip: TipNeedLowercase, Test: hasLowercase},
	{Name: CriterionUppercase, Points: 20, Tip: TipNeedUppercase, Test: hasUppercase},
	{Name: CriterionNumber, Points: 20, Tip: TipNeedNumber, Test: hasDigit},
	{Name: CriterionSpecial, Points: 15, Tip: TipNeedSpecial, Test: hasSpecial},
}

// Criteria returns a copy of the criteria table in evaluation order.
func Criteria() []Criterion {
	out := make([]Criterion, len(criteria))
	copy(out, criteria)
	return out
}

// MaxScore is the highest score Evaluate can return: every criterion met
// plus both length bonuses.
func MaxScore() int {
	total := 2 * lengthBonus
	for _, c := range criteria {
		total += c.Points
	}
	return total
}

func hasMinLength(pw string) bool { return runeLen(pw) >= MinLength }

func hasLowercase(pw string) bool { return containsRange(pw, 'a', 'z') }

func hasUppercase(pw string) bool { return containsRange(pw, 'A', 'Z') }

func hasDigit(pw string) bool { return containsRange(pw, '0', '9') }

func hasSpecial(pw string) bool { return strings.ContainsAny(pw, SpecialChars) }

// containsRange reports whether pw holds at least one rune in [lo, hi].
// Only ASCII ranges are used, so accented letters match no class.
func containsRange(pw string, lo, hi rune) bool {
	for _, r := range pw {
		if r >= lo && r <= hi {
			return true
		}
	}
	return false
}
