package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passmeter/passmeter/pkg/generator"
	"github.com/passmeter/passmeter/pkg/i18n"
	"github.com/passmeter/passmeter/server/internal/policy"
	"github.com/passmeter/passmeter/server/internal/session"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	p := writeConfig(t, "server: {}\n")
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, DefaultHTTPPort, cfg.Server.HTTPPort)
	assert.Equal(t, session.DefaultTTL, cfg.Server.Sessions.TTL)
	assert.Equal(t, i18n.DefaultLocale, cfg.Evaluator.Locale)
	assert.Equal(t, generator.DefaultLength, cfg.Evaluator.GeneratorLength)
	assert.Equal(t, 5*time.Second, cfg.Evaluator.CelebrationCooldown)
	assert.Equal(t, 3*time.Second, cfg.Evaluator.RevealDuration)
	assert.True(t, cfg.Server.RateLimit.IsEnabled(), "rate_limit enabled by default")
	require.Len(t, cfg.Policy.Rules, 1)
	assert.Equal(t, "score < 40", cfg.Policy.Rules[0].Condition)
}

func TestLoad_Full(t *testing.T) {
	p := writeConfig(t, `log:
  level: debug
server:
  http_port: 9091
  auth:
    mode: apikey
    key_env: MY_KEY
    header: x-pm-key
  rate_limit:
    enabled: false
  sessions:
    ttl: 10m
  ws:
    tick: 1s
evaluator:
  locale: pt-BR
  generator_length: 24
  celebration_cooldown: 10s
  reveal_duration: 1s
analysis:
  cache_size: 100
  cache_ttl: 1m
policy:
  rules:
    - name: long-enough
      condition: "length < 12"
      message: "Use at least 12 characters"
    - name: dictionary
      condition: "zxcvbn_score < 3"
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", cfg.Log.SlogLevel().String())
	assert.Equal(t, 9091, cfg.Server.HTTPPort)
	assert.Equal(t, "x-pm-key", cfg.Server.Auth.EffectiveHeader())
	assert.False(t, cfg.Server.RateLimit.IsEnabled())
	assert.Equal(t, 10*time.Minute, cfg.Server.Sessions.TTL)
	opts := cfg.Evaluator.SessionOptions()
	assert.Equal(t, 10*time.Second, opts.CelebrationCooldown)
	assert.Equal(t, time.Second, opts.RevealDuration)
	assert.Equal(t, 100, cfg.Analysis.CacheSize)
	assert.Equal(t, []policy.Rule{
		{Name: "long-enough", Condition: "length < 12", Message: "Use at least 12 characters"},
		{Name: "dictionary", Condition: "zxcvbn_score < 3"},
	}, cfg.Policy.Rules)
}

func TestLoad_EmptyRulesDisablePolicy(t *testing.T) {
	p := writeConfig(t, "policy:\n  rules: []\n")
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Empty(t, cfg.Policy.Rules)
}

func TestLoad_KeyEnvResolution(t *testing.T) {
	t.Setenv("TEST_PASSMETER_KEY", "supersecret")
	p := writeConfig(t, `server:
  auth:
    mode: apikey
    key_env: TEST_PASSMETER_KEY
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "supersecret", cfg.Server.Auth.Key())
	assert.Equal(t, "x-api-key", cfg.Server.Auth.EffectiveHeader())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown auth mode", "server:\n  auth:\n    mode: oauth2\n"},
		{"apikey without env", "server:\n  auth:\n    mode: apikey\n"},
		{"port out of range", "server:\n  http_port: 70000\n"},
		{"bad log level", "log:\n  level: loud\n"},
		{"zero rate", "server:\n  rate_limit:\n    requests_per_second: 0\n    burst: 0\n"},
		{"generator too short", "evaluator:\n  generator_length: 2\n"},
		{"negative reveal", "evaluator:\n  reveal_duration: -1s\n"},
		{"bad policy rule", "policy:\n  rules:\n    - name: x\n      condition: \"score is low\"\n"},
		{"malformed yaml", "server: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestDefaults_AreValid(t *testing.T) {
	assert.NoError(t, validate(Defaults()))
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	p := writeConfig(t, "evaluator:\n  locale: en\n")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 1)
	go Watch(ctx, p, func(c *Config) { //nolint:errcheck
		select {
		case got <- c:
		default:
		}
	})
	time.Sleep(50 * time.Millisecond) // let the watcher register

	require.NoError(t, os.WriteFile(p, []byte("evaluator:\n  locale: pt-BR\n"), 0o600))

	select {
	case c := <-got:
		assert.Equal(t, "pt-BR", c.Evaluator.Locale)
	case <-time.After(3 * time.Second):
		require.FailNow(t, "no reload within 3s")
	}
}

func TestWatch_InvalidReloadKeepsPrevious(t *testing.T) {
	p := writeConfig(t, "evaluator:\n  locale: en\n")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	called := make(chan struct{}, 1)
	go Watch(ctx, p, func(*Config) { called <- struct{}{} }) //nolint:errcheck
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(p, []byte("server:\n  http_port: -1\n"), 0o600))

	select {
	case <-called:
		require.FailNow(t, "onChange called for an invalid config")
	case <-time.After(500 * time.Millisecond):
	}
}
