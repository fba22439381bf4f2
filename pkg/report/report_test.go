package report

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passmeter/passmeter/pkg/analysis"
	"github.com/passmeter/passmeter/pkg/i18n"
	"github.com/passmeter/passmeter/pkg/strength"
)

func TestEvaluation_English(t *testing.T) {
	ev := Evaluation(strength.Evaluate("Password123!"), i18n.New("en"))

	require.Equal(t, 90, ev.Score)
	require.Equal(t, strength.CategoryStrong, ev.Category)
	assert.Equal(t, "Strong password", ev.Label)
	assert.Equal(t, 120, ev.MaxScore)
	require.Len(t, ev.Criteria, 5)
	assert.Equal(t, "At least 8 characters", ev.Criteria[0].Label)
	assert.True(t, ev.Criteria[0].Met)
	require.NotEmpty(t, ev.Tips)
	assert.Equal(t, strength.TipCommonSequence, ev.Tips[0].Key)
	assert.NotEmpty(t, ev.Tips[0].Text)
	assert.Equal(t, "en", ev.Locale)
}

func TestEvaluation_EmptyPortuguese(t *testing.T) {
	ev := Evaluation(strength.Evaluate(""), i18n.New("pt-BR"))
	assert.Equal(t, "Digite uma senha para começar", ev.Label)
	require.Len(t, ev.Tips, 6)
	assert.Equal(t, "Use pelo menos 8 caracteres", ev.Tips[0].Text)
}

func TestAnalysis_RendersPatternsAndCrackTime(t *testing.T) {
	pw := "aaaa1234"
	a := Analysis(pw, analysis.Analyze(pw), nil, i18n.New("en"))

	require.Len(t, a.Patterns, 2)
	assert.Equal(t, "Repeated characters", a.Patterns[0].Text)
	// 36^8 / 2e9 ≈ 1410 s → 23 minutes
	assert.Equal(t, "23 minutes", a.CrackTime)
	assert.Nil(t, a.Estimate, "no estimator")
	assert.Equal(t, 8, a.Evaluation.Length)
}

func TestAnalysis_EncodesHugeEstimates(t *testing.T) {
	est := &analysis.Estimate{Score: 4, Entropy: 300, CrackTimeSeconds: math.Inf(1)}
	a := Analysis("x", analysis.Analyze("x"), est, i18n.New("en"))
	_, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Equal(t, math.MaxFloat64, a.Estimate.CrackTimeSeconds)
}
