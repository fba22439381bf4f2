// Package service is the evaluation core shared by the REST API and the
// WebSocket hub.
//
// A Service owns the zxcvbn estimator, the password generator and the
// runtime-tunable settings (default locale, generator length, acceptance
// policy). Every evaluation it renders is counted in the metrics registry
// and, for non-empty passwords, checked against the policy.
//
// Apply swaps the settings atomically, so a config reload never blocks or
// tears an in-flight request.
package service
