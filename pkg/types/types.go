package types

import "time"

// Evaluation is the rendered result of scoring one password.
type Evaluation struct {
	Score       int               `json:"score"`
	MaxScore    int               `json:"max_score"`
	Category    string            `json:"category"` // empty | weak | moderate | strong
	Label       string            `json:"label"`
	MetCriteria int               `json:"met_criteria"`
	Length      int               `json:"length"`
	Criteria    []CriterionStatus `json:"criteria"`
	Tips        []Tip             `json:"tips"`
	Locale      string            `json:"locale"`
	Policy      *PolicyVerdict    `json:"policy,omitempty"`
}

// CriterionStatus drives one of the five indicators under the meter.
type CriterionStatus struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Points int    `json:"points"`
	Met    bool   `json:"met"`
}

// Tip is one rendered suggestion.
type Tip struct {
	Key   string `json:"key"`
	Level string `json:"level"`
	Text  string `json:"text"`
}

// PolicyVerdict reports whether a password passes the configured policy.
type PolicyVerdict struct {
	Accepted   bool        `json:"accepted"`
	Summary    string      `json:"summary,omitempty"`
	Violations []Violation `json:"violations"`
}

// Violation is one failed policy rule.
type Violation struct {
	Rule      string  `json:"rule"`
	Condition string  `json:"condition"`
	Message   string  `json:"message"`
	Value     float64 `json:"value"`
}

// Analysis is the rendered complexity breakdown.
type Analysis struct {
	Length       int        `json:"length"`
	CharsetSize  int        `json:"charset_size"`
	EntropyBits  float64    `json:"entropy_bits"`
	UniqueChars  int        `json:"unique_chars"`
	Patterns     []Pattern  `json:"patterns"`
	CrackSeconds float64    `json:"crack_seconds"`
	CrackBucket  string     `json:"crack_bucket"`
	CrackTime    string     `json:"crack_time"`
	Estimate     *Estimate  `json:"estimate,omitempty"`
	Evaluation   Evaluation `json:"evaluation"`
}

// Pattern is one weak pattern found by the analysis.
type Pattern struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Estimate is the dictionary-aware (zxcvbn) estimate.
type Estimate struct {
	Score            int     `json:"score"` // 0–4
	Entropy          float64 `json:"entropy"`
	CrackTimeSeconds float64 `json:"crack_time_seconds"`
	CrackTimeDisplay string  `json:"crack_time_display"`
}

// Generated is a freshly generated password with its evaluation.
type Generated struct {
	Password    string     `json:"password"`
	Length      int        `json:"length"`
	Evaluation  Evaluation `json:"evaluation"`
	RevealUntil *time.Time `json:"reveal_until,omitempty"`
}
