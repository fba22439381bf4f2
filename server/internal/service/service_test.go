package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passmeter/passmeter/pkg/analysis"
	"github.com/passmeter/passmeter/pkg/generator"
	"github.com/passmeter/passmeter/server/internal/config"
	"github.com/passmeter/passmeter/server/internal/metrics"
	"github.com/passmeter/passmeter/server/internal/policy"
)

func newService(t *testing.T, cfg *config.Config) (*Service, *metrics.Metrics) {
	t.Helper()
	if cfg == nil {
		cfg = config.Defaults()
	}
	est, err := analysis.NewEstimator(0, 0)
	require.NoError(t, err)
	t.Cleanup(est.Close)
	m := metrics.New()
	s, err := New(cfg, est, generator.New(), m)
	require.NoError(t, err)
	return s, m
}

func TestTranslator_Precedence(t *testing.T) {
	cfg := config.Defaults()
	cfg.Evaluator.Locale = "pt-BR"
	s, _ := newService(t, cfg)

	assert.Equal(t, "en", s.Translator("en", "pt-BR").Locale(), "explicit locale wins")
	assert.Equal(t, "en", s.Translator("", "en-US,en;q=0.9").Locale(), "Accept-Language next")
	assert.Equal(t, "pt-BR", s.Translator("", "").Locale(), "configured default last")
}

func TestEvaluate_EmptyHasNoPolicy(t *testing.T) {
	s, m := newService(t, nil)
	ev := s.Evaluate("", s.Translator("en", ""))

	assert.Equal(t, 0, ev.Score)
	assert.Equal(t, "empty", ev.Category)
	assert.Nil(t, ev.Policy)
	assert.Len(t, ev.Tips, 6)

	tot, err := m.Totals()
	require.NoError(t, err)
	assert.Equal(t, 1.0, tot.ByCategory["empty"])
}

func TestEvaluate_DefaultPolicyRejectsWeak(t *testing.T) {
	s, m := newService(t, nil)
	ev := s.Evaluate("xyz", s.Translator("en", ""))

	require.NotNil(t, ev.Policy)
	assert.False(t, ev.Policy.Accepted)
	require.Len(t, ev.Policy.Violations, 1)
	assert.Equal(t, "minimum-strength", ev.Policy.Violations[0].Rule)
	assert.Equal(t, "Password rejected by policy", ev.Policy.Summary)

	tot, err := m.Totals()
	require.NoError(t, err)
	assert.Equal(t, 1.0, tot.PolicyRejections)
}

func TestEvaluate_StrongAccepted(t *testing.T) {
	s, _ := newService(t, nil)
	ev := s.Evaluate("Password123!", s.Translator("en", ""))

	assert.Equal(t, 90, ev.Score)
	assert.Equal(t, "strong", ev.Category)
	require.NotNil(t, ev.Policy)
	assert.True(t, ev.Policy.Accepted)
	assert.Empty(t, ev.Policy.Violations)
}

func TestEvaluate_ZxcvbnRuleComputesEstimate(t *testing.T) {
	cfg := config.Defaults()
	cfg.Policy.Rules = []policy.Rule{{Name: "dictionary", Condition: "zxcvbn_score < 3"}}
	s, _ := newService(t, cfg)

	ev := s.Evaluate("password", s.Translator("en", ""))
	require.NotNil(t, ev.Policy)
	assert.False(t, ev.Policy.Accepted, "a dictionary word scores low in zxcvbn")
}

func TestAnalyze(t *testing.T) {
	s, m := newService(t, nil)
	a := s.Analyze("abcd1234", nil, s.Translator("en", ""))

	assert.Equal(t, 8, a.Length)
	assert.Equal(t, 36, a.CharsetSize)
	require.NotNil(t, a.Estimate)
	assert.NotEmpty(t, a.Patterns)
	require.NotNil(t, a.Evaluation.Policy)

	tot, err := m.Totals()
	require.NoError(t, err)
	assert.Equal(t, 1.0, tot.Evaluations)
}

func TestGenerate_UsesConfiguredLength(t *testing.T) {
	cfg := config.Defaults()
	cfg.Evaluator.GeneratorLength = 24
	s, m := newService(t, cfg)

	pw, err := s.Generate(0)
	require.NoError(t, err)
	assert.Len(t, pw, 24)

	pw, err = s.Generate(10)
	require.NoError(t, err)
	assert.Len(t, pw, 10)

	_, err = s.Generate(2)
	assert.ErrorIs(t, err, generator.ErrLengthTooShort)

	tot, err := m.Totals()
	require.NoError(t, err)
	assert.Equal(t, 2.0, tot.Generations)
}

func TestApply_BadPolicyKeepsPrevious(t *testing.T) {
	s, _ := newService(t, nil)
	before := s.Policy()

	cfg := config.Defaults()
	cfg.Policy.Rules = []policy.Rule{{Name: "broken", Condition: "score <<< 1"}}
	assert.Error(t, s.Apply(cfg))
	assert.Same(t, before, s.Policy())

	cfg.Policy.Rules = []policy.Rule{}
	require.NoError(t, s.Apply(cfg))
	ev := s.Evaluate("xyz", s.Translator("en", ""))
	assert.True(t, ev.Policy.Accepted, "empty policy accepts everything")
}
