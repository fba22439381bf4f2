// Package config loads the passmeter-server configuration from config.yaml.
//
// Config fields:
//   - Log.Level                : debug | info | warn | error (default info)
//   - Server.HTTPPort          : port for the REST API and WebSocket hub (default 8080)
//   - Server.Auth.Mode         : "apikey" or "none"
//   - Server.Auth.KeyEnv       : environment variable holding the expected API key
//   - Server.Auth.Header       : HTTP header name (default "x-api-key")
//   - Server.RateLimit         : per-client token bucket (default 20 rps, burst 40)
//   - Server.Sessions.TTL      : idle timeout for REST sessions (default 30m)
//   - Server.WS.Tick           : how often the hub checks for expired reveals (default 250ms)
//   - Evaluator.Locale         : fallback locale when a request names none (default "en")
//   - Evaluator.GeneratorLength: default generated password length (default 16)
//   - Evaluator.CelebrationCooldown / RevealDuration (defaults 5s / 3s)
//   - Analysis.CacheSize / CacheTTL: zxcvbn estimate cache (defaults 4096 / 10m)
//   - Policy.Rules             : acceptance rules; defaults to "score < 40"
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, onChange) reloads the file on change and keeps the
// previous config when the new one is invalid.
package config
