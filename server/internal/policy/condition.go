package policy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/passmeter/passmeter/pkg/analysis"
	"github.com/passmeter/passmeter/pkg/strength"
)

// Condition parse errors.
var (
	ErrMalformed    = errors.New("policy: condition must be \"field op value\"")
	ErrUnknownField = errors.New("policy: unknown field")
	ErrBadOperator  = errors.New("policy: unsupported operator")
	ErrBadValue     = errors.New("policy: value is not a number")
)

// Fields a condition may reference.
const (
	FieldScore       = "score"
	FieldMetCriteria = "met_criteria"
	FieldLength      = "length"
	FieldEntropyBits = "entropy_bits"
	FieldCharsetSize = "charset_size"
	FieldUniqueChars = "unique_chars"
	FieldZxcvbnScore = "zxcvbn_score"
	FieldCategory    = "category"
)

var numericFields = map[string]bool{
	FieldScore:       true,
	FieldMetCriteria: true,
	FieldLength:      true,
	FieldEntropyBits: true,
	FieldCharsetSize: true,
	FieldUniqueChars: true,
	FieldZxcvbnScore: true,
}

var categories = map[string]bool{
	strength.CategoryEmpty:    true,
	strength.CategoryWeak:     true,
	strength.CategoryModerate: true,
	strength.CategoryStrong:   true,
}

// Input is everything a condition may look at. Estimate may be nil, in
// which case zxcvbn_score conditions never hold.
type Input struct {
	Result     strength.Result
	Complexity analysis.Complexity
	Estimate   *analysis.Estimate
}

// condition is a parsed "field op value" expression.
type condition struct {
	field     string
	op        string
	threshold float64
	text      string // category conditions
}

// parseCondition validates and compiles expr.
func parseCondition(expr string) (condition, error) {
	parts := strings.Fields(expr)
	if len(parts) != 3 {
		return condition{}, fmt.Errorf("%w: %q", ErrMalformed, expr)
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	if field == FieldCategory {
		if op != "==" && op != "!=" {
			return condition{}, fmt.Errorf("%w: %q for category (want == or !=)", ErrBadOperator, op)
		}
		if !categories[rhs] {
			return condition{}, fmt.Errorf("%w: category %q", ErrBadValue, rhs)
		}
		return condition{field: field, op: op, text: rhs}, nil
	}

	if !numericFields[field] {
		return condition{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	switch op {
	case ">", ">=", "<", "<=", "==", "!=":
	default:
		return condition{}, fmt.Errorf("%w: %q", ErrBadOperator, op)
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return condition{}, fmt.Errorf("%w: %q", ErrBadValue, rhs)
	}
	return condition{field: field, op: op, threshold: threshold}, nil
}

// eval reports whether the condition holds and the value it was tested on.
func (c condition) eval(in Input) (bool, float64) {
	if c.field == FieldCategory {
		eq := in.Result.Category == c.text
		if c.op == "==" {
			return eq, 0
		}
		return !eq, 0
	}

	v, ok := numericField(c.field, in)
	if !ok {
		return false, 0
	}
	return compareFloat(v, c.op, c.threshold), v
}

// numericField maps a field name to its value in the input.
func numericField(field string, in Input) (float64, bool) {
	switch field {
	case FieldScore:
		return float64(in.Result.Score), true
	case FieldMetCriteria:
		return float64(in.Result.MetCount), true
	case FieldLength:
		return float64(in.Result.Length), true
	case FieldEntropyBits:
		return in.Complexity.EntropyBits, true
	case FieldCharsetSize:
		return float64(in.Complexity.CharsetSize), true
	case FieldUniqueChars:
		return float64(in.Complexity.UniqueChars), true
	case FieldZxcvbnScore:
		if in.Estimate == nil {
			return 0, false
		}
		return float64(in.Estimate.Score), true
	default:
		return 0, false
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	case "!=":
		return v != threshold
	default:
		return false
	}
}
