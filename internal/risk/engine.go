// Package risk evaluates a fixed catalogue of pattern and threshold
// rules against an evidence bundle. Rules are independent, pure
// predicates; missing evidence means a rule does not fire.
package risk

import (
	"solana-trust-scan/internal/config"
	"solana-trust-scan/internal/domain"
	"solana-trust-scan/internal/observability"
)

// Rule inspects the evidence and emits at most one finding.
type Rule func(ev *domain.EvidenceBundle) *domain.RiskFinding

// Engine applies the rule catalogue in fixed order.
type Engine struct {
	rules []Rule
}

// New creates an Engine with the full rule catalogue bound to cfg's
// static reputation sets.
func New(cfg *config.Config) *Engine {
	return &Engine{
		rules: []Rule{
			knownScamRule(cfg),
			suspiciousPatternRule(cfg),
			mintAuthorityRule,
			freezeAuthorityRule,
			zeroSupplyRule,
			upgradeableProgramRule,
		},
	}
}

// Evaluate returns findings in discovery order, not severity order.
// The same type+description pair is never emitted twice per pass.
func (e *Engine) Evaluate(ev *domain.EvidenceBundle) []domain.RiskFinding {
	findings := make([]domain.RiskFinding, 0, len(e.rules))
	seen := make(map[string]struct{}, len(e.rules))

	for _, rule := range e.rules {
		f := rule(ev)
		if f == nil {
			continue
		}
		key := string(f.Type) + "|" + f.Description
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		findings = append(findings, *f)
		observability.RecordFinding(string(f.Type), string(f.Severity))
	}

	return findings
}
