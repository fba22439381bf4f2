// Package metrics owns the Prometheus registry for passmeter-server.
//
// Metrics are registered on a private registry (not the global default) so
// tests can create as many instances as they like. Handler serves the
// registry in whatever exposition format the scraper negotiates; Totals
// reads the gathered families back for the health endpoint.
//
// Exposed series (namespace "passmeter"):
//
//	evaluations_total{category}
//	analyses_total
//	generations_total
//	celebrations_total
//	policy_rejections_total{rule}
//	rate_limited_total
//	http_requests_total{route,method,status}
//	http_request_duration_seconds{route}
//	ws_connections
//	sessions
//
// No password material is ever used as a label value.
package metrics
