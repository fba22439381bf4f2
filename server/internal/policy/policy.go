package policy

import "fmt"

// Rule is one configured acceptance rule.
type Rule struct {
	// Name identifies the rule in verdicts and metrics.
	Name string `yaml:"name"`

	// Condition rejects the password when it holds, e.g. "score < 40".
	Condition string `yaml:"condition"`

	// Message is shown to the user when the rule rejects a password.
	// Defaults to the condition text.
	Message string `yaml:"message"`
}

// Violation is a rule whose condition held.
type Violation struct {
	Rule      string
	Condition string
	Message   string
	Value     float64
}

// Verdict is the outcome of Check.
type Verdict struct {
	Accepted   bool
	Violations []Violation
}

// DefaultRules is the policy used when none is configured.
func DefaultRules() []Rule {
	return []Rule{{
		Name:      "minimum-strength",
		Condition: "score < 40",
		Message:   "Password is too weak",
	}}
}

type compiledRule struct {
	Rule
	cond condition
}

// Policy is an immutable, compiled rule set. It is safe for concurrent use.
type Policy struct {
	rules []compiledRule
}

// New compiles rules. It fails on the first malformed rule.
func New(rules []Rule) (*Policy, error) {
	p := &Policy{rules: make([]compiledRule, 0, len(rules))}
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("policy: rule %d: name is required", i)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("policy: rule %q defined twice", r.Name)
		}
		seen[r.Name] = true

		cond, err := parseCondition(r.Condition)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		if r.Message == "" {
			r.Message = r.Condition
		}
		p.rules = append(p.rules, compiledRule{Rule: r, cond: cond})
	}
	return p, nil
}

// Validate reports whether rules would compile.
func Validate(rules []Rule) error {
	_, err := New(rules)
	return err
}

// Rules returns the compiled rules in configuration order.
func (p *Policy) Rules() []Rule {
	out := make([]Rule, 0, len(p.rules))
	for _, r := range p.rules {
		out = append(out, r.Rule)
	}
	return out
}

// NeedsEstimate reports whether any rule reads the zxcvbn score, so callers
// can skip the estimate otherwise.
func (p *Policy) NeedsEstimate() bool {
	for _, r := range p.rules {
		if r.cond.field == FieldZxcvbnScore {
			return true
		}
	}
	return false
}

// Check evaluates every rule against in. An empty policy accepts everything.
func (p *Policy) Check(in Input) Verdict {
	v := Verdict{Accepted: true, Violations: []Violation{}}
	for _, r := range p.rules {
		fires, value := r.cond.eval(in)
		if !fires {
			continue
		}
		v.Accepted = false
		v.Violations = append(v.Violations, Violation{
			Rule:      r.Name,
			Condition: r.Condition,
			Message:   r.Message,
			Value:     value,
		})
	}
	return v
}
