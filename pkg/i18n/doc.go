// Package i18n renders evaluator output in the user's language.
//
// The evaluator packages only emit stable keys (tip keys, category names,
// criterion names, pattern names, crack-time buckets). This package owns the
// text for those keys in a golang.org/x/text catalog and hands out a
// Translator bound to one locale.
//
// Supported locales: English (default) and Brazilian Portuguese. Match picks
// the best supported locale for an Accept-Language header; anything
// unrecognised falls back to English.
package i18n
