// Package types defines the JSON shapes shared by the passmeter server and
// CLI. They carry rendered, locale-specific text alongside the stable keys
// so clients can either display the text or map the keys themselves.
package types
