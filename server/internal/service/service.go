package service

import (
	"fmt"
	"sync/atomic"

	"github.com/passmeter/passmeter/pkg/analysis"
	"github.com/passmeter/passmeter/pkg/generator"
	"github.com/passmeter/passmeter/pkg/i18n"
	"github.com/passmeter/passmeter/pkg/report"
	"github.com/passmeter/passmeter/pkg/strength"
	"github.com/passmeter/passmeter/pkg/types"
	"github.com/passmeter/passmeter/server/internal/config"
	"github.com/passmeter/passmeter/server/internal/metrics"
	"github.com/passmeter/passmeter/server/internal/policy"
)

// settings is the hot-reloadable part of the service.
type settings struct {
	locale    string
	genLength int
	policy    *policy.Policy
}

// Service renders evaluations, analyses and generated passwords.
// It is safe for concurrent use.
type Service struct {
	estimator *analysis.Estimator
	gen       *generator.Generator
	metrics   *metrics.Metrics
	settings  atomic.Pointer[settings]
}

// New creates a Service configured from cfg.
func New(cfg *config.Config, est *analysis.Estimator, gen *generator.Generator, m *metrics.Metrics) (*Service, error) {
	s := &Service{estimator: est, gen: gen, metrics: m}
	if err := s.Apply(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply replaces the locale, generator length and policy with cfg's.
// On error the previous settings stay in effect.
func (s *Service) Apply(cfg *config.Config) error {
	p, err := policy.New(cfg.Policy.Rules)
	if err != nil {
		return fmt.Errorf("service: %w", err)
	}
	s.settings.Store(&settings{
		locale:    cfg.Evaluator.Locale,
		genLength: cfg.Evaluator.GeneratorLength,
		policy:    p,
	})
	return nil
}

// Policy returns the policy currently in effect.
func (s *Service) Policy() *policy.Policy { return s.settings.Load().policy }

// Translator picks the locale for a request: an explicit locale wins, then
// the Accept-Language header, then the configured default.
func (s *Service) Translator(requested, acceptLanguage string) *i18n.Translator {
	switch {
	case requested != "":
		return i18n.New(requested)
	case acceptLanguage != "":
		return i18n.New(acceptLanguage)
	default:
		return i18n.New(s.settings.Load().locale)
	}
}

// Evaluate scores password and renders the result.
func (s *Service) Evaluate(password string, tr *i18n.Translator) types.Evaluation {
	return s.Render(password, strength.Evaluate(password), tr)
}

// Render turns a result already computed for password (for example by a
// session controller) into its localised form, recording metrics and
// attaching the policy verdict.
func (s *Service) Render(password string, res strength.Result, tr *i18n.Translator) types.Evaluation {
	s.metrics.Evaluations.WithLabelValues(res.Category).Inc()
	ev := report.Evaluation(res, tr)
	if password != "" {
		ev.Policy = s.check(password, res, nil, tr)
	}
	return ev
}

// Analyze computes the complexity breakdown and zxcvbn estimate.
func (s *Service) Analyze(password string, userInputs []string, tr *i18n.Translator) types.Analysis {
	s.metrics.Analyses.Inc()
	c := analysis.Analyze(password)
	est := s.estimator.Estimate(password, userInputs)
	out := report.Analysis(password, c, &est, tr)
	s.metrics.Evaluations.WithLabelValues(out.Evaluation.Category).Inc()
	if password != "" {
		out.Evaluation.Policy = s.check(password, strength.Evaluate(password), &est, tr)
	}
	return out
}

// Generate returns a new password. length 0 selects the configured length.
func (s *Service) Generate(length int) (string, error) {
	if length == 0 {
		length = s.settings.Load().genLength
	}
	pw, err := s.gen.Generate(length)
	if err != nil {
		return "", err
	}
	s.metrics.Generations.Inc()
	return pw, nil
}

// Celebrated records a strong-password celebration.
func (s *Service) Celebrated() { s.metrics.Celebrations.Inc() }

// Tips renders the generic tips shown for an empty field.
func (s *Service) Tips(tr *i18n.Translator) []types.Tip {
	return report.Tips(strength.GeneralTips(), tr)
}

// check runs the policy. est is computed on demand when a rule needs it.
func (s *Service) check(password string, res strength.Result, est *analysis.Estimate, tr *i18n.Translator) *types.PolicyVerdict {
	p := s.Policy()
	in := policy.Input{Result: res, Complexity: analysis.Analyze(password), Estimate: est}
	if in.Estimate == nil && p.NeedsEstimate() {
		e := s.estimator.Estimate(password, nil)
		in.Estimate = &e
	}

	v := p.Check(in)
	out := &types.PolicyVerdict{Accepted: v.Accepted, Violations: make([]types.Violation, 0, len(v.Violations))}
	if !v.Accepted {
		out.Summary = tr.Text("policy.rejected")
	}
	for _, viol := range v.Violations {
		s.metrics.PolicyRejections.WithLabelValues(viol.Rule).Inc()
		out.Violations = append(out.Violations, types.Violation{
			Rule:      viol.Rule,
			Condition: viol.Condition,
			Message:   viol.Message,
			Value:     viol.Value,
		})
	}
	return out
}
