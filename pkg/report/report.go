// Package report turns evaluator results into the localised JSON shapes in
// package types. It is the only place where keys meet text.
package report

import (
	"math"

	"github.com/passmeter/passmeter/pkg/analysis"
	"github.com/passmeter/passmeter/pkg/i18n"
	"github.com/passmeter/passmeter/pkg/strength"
	"github.com/passmeter/passmeter/pkg/types"
)

// Evaluation renders a strength result for tr's locale.
func Evaluation(res strength.Result, tr *i18n.Translator) types.Evaluation {
	crit := make([]types.CriterionStatus, 0, len(res.Criteria))
	for _, c := range res.Criteria {
		crit = append(crit, types.CriterionStatus{
			Name:   c.Name,
			Label:  tr.Criterion(c.Name),
			Points: c.Points,
			Met:    c.Met,
		})
	}
	return types.Evaluation{
		Score:       res.Score,
		MaxScore:    strength.MaxScore(),
		Category:    res.Category,
		Label:       tr.Category(res.Category),
		MetCriteria: res.MetCount,
		Length:      res.Length,
		Criteria:    crit,
		Tips:        Tips(res.Tips, tr),
		Locale:      tr.Locale(),
	}
}

// Tips renders a tip list.
func Tips(tips []strength.Tip, tr *i18n.Translator) []types.Tip {
	out := make([]types.Tip, 0, len(tips))
	for _, t := range tips {
		out = append(out, types.Tip{Key: t.Key, Level: t.Level, Text: tr.Text(t.Key)})
	}
	return out
}

// Analysis renders a complexity breakdown. est may be nil.
func Analysis(password string, c analysis.Complexity, est *analysis.Estimate, tr *i18n.Translator) types.Analysis {
	patterns := make([]types.Pattern, 0, len(c.Patterns))
	for _, p := range c.Patterns {
		patterns = append(patterns, types.Pattern{Key: p, Text: tr.Pattern(p)})
	}
	out := types.Analysis{
		Length:       c.Length,
		CharsetSize:  c.CharsetSize,
		EntropyBits:  round2(c.EntropyBits),
		UniqueChars:  c.UniqueChars,
		Patterns:     patterns,
		CrackSeconds: c.CrackSeconds,
		CrackBucket:  c.CrackTime.Bucket,
		CrackTime:    tr.CrackTime(c.CrackTime.Bucket, c.CrackTime.Value),
		Evaluation:   Evaluation(strength.Evaluate(password), tr),
	}
	if est != nil {
		out.Estimate = &types.Estimate{
			Score:            est.Score,
			Entropy:          round2(est.Entropy),
			CrackTimeSeconds: finite(est.CrackTimeSeconds),
			CrackTimeDisplay: est.CrackTimeDisplay,
		}
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// finite keeps JSON encoding from failing on ±Inf and NaN.
func finite(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return 0
	}
	return v
}
