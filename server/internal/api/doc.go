// Package api implements the HTTP REST API for passmeter-server.
//
// New(svc, sessions, metrics) returns an http.Handler that serves:
//
//	GET    /api/v1/health                   status, live sessions, counters
//	POST   /api/v1/evaluate                 stateless evaluation + policy verdict
//	POST   /api/v1/analyze                  complexity breakdown + zxcvbn estimate
//	POST   /api/v1/generate                 generated password + its evaluation
//	GET    /api/v1/tips                     generic tips for an empty field
//	POST   /api/v1/sessions                 create a field session
//	DELETE /api/v1/sessions/{id}            drop a session
//	POST   /api/v1/sessions/{id}/evaluate   evaluation + celebrate flag
//	POST   /api/v1/sessions/{id}/visibility toggle plaintext display
//	POST   /api/v1/sessions/{id}/generate   generated password + reveal deadline
//
// All endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 for unsupported methods and 400 for malformed bodies
//   - Pick the locale from the body, then Accept-Language, then config
//
// Request and response types are defined in types.go. No external HTTP
// framework is used; request bodies are checked with validator/v10.
package api
