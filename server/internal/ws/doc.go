// Package ws implements the live password-field channel for passmeter-server.
//
// Every WebSocket connection is one password field backed by its own
// session.Controller. The client streams what the user types; the server
// answers with evaluations and UI events.
//
// New(svc, metrics, opts, tick) creates a Hub.
// Hub.Run(ctx) starts the reveal ticker, which re-masks fields whose
// post-generation reveal has lapsed. It blocks until ctx is cancelled, then
// closes all active connections.
// Hub.ServeHTTP upgrades an HTTP connection, sends the empty-field evaluation
// (generic tips) immediately, then serves client messages until disconnect.
//
// Client messages:
//
//	{"type": "input", "value": "..."}
//	{"type": "toggle_visibility"}
//	{"type": "generate", "length": 16}
//
// Server events share one envelope:
//
//	{
//	  "event": "evaluation" | "celebrate" | "generated" | "visibility" | "error",
//	  "data":  { ... }
//	}
//
// The locale is taken from the ?locale= query parameter, then Accept-Language.
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. The endpoint is mounted at /ws/field by the server.
package ws
