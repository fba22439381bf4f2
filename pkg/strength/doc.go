// Package strength scores a candidate password against a fixed table of
// character-class criteria and turns the result into a category and an
// ordered list of suggestions.
//
// criteria.go holds the five criteria (length ≥8 25pts, lowercase 20pts,
// uppercase 20pts, digit 20pts, special 15pts). They are evaluated in table
// order and that order is also the order of the per-criterion suggestions.
//
// strength.go provides the pure Evaluate(password) function:
//
//	score = Σ points(met criteria)
//	      + 10 if length ≥ 12
//	      + 10 if length ≥ 16
//	      - 20 if a common sequence ("123", "abc", "qwerty", ...) appears
//	      - 15 if one character makes up more than 40% of the password
//	score = max(0, score)
//
// Category thresholds: Empty 0, Weak 1–39, Moderate 40–79, Strong ≥80.
//
// tips.go builds the suggestion list as Tip{Key, Level} values. Texts are
// rendered by package i18n so the same keys serve every locale.
//
// Length is measured in Unicode code points. Evaluate never fails and keeps
// no state; the password is never stored or logged.
package strength
