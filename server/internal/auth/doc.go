// Package auth provides API key middleware for the passmeter HTTP API.
//
// APIKey(mode, header, key) wraps a handler so that every request must carry
// key in the named header. When mode != "apikey" or key == "", all requests
// pass through (local development with auth disabled). A missing or wrong key
// is answered with 401 and a JSON error body.
package auth
