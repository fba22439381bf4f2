// Package policy decides whether a password is acceptable under a set of
// configured rules. A rule is a simple "field operator value" expression;
// a password is rejected when any rule's condition holds.
//
//	score < 40
//	met_criteria < 4
//	length < 12
//	entropy_bits < 60
//	charset_size <= 26
//	unique_chars < 6
//	zxcvbn_score < 3
//	category == weak
//
// Rules are compiled once (New) so malformed expressions surface at config
// load rather than on every check.
package policy
