// Package trust combines independent weighted factors into a single
// 0-100 trust score. Scoring is a pure function of the evidence bundle.
package trust

import (
	"math"
	"time"

	"solana-trust-scan/internal/config"
	"solana-trust-scan/internal/domain"
)

// NeutralScore is the fallback for degraded analyses.
const NeutralScore = 50

// Calculator scores evidence bundles with a fixed factor list.
type Calculator struct {
	factors []Factor
	now     func() time.Time
}

// New creates a Calculator bound to cfg's reputation sets.
func New(cfg *config.Config) *Calculator {
	return &Calculator{
		factors: []Factor{
			provenanceFactor(cfg),
			ageFactor,
			volumeFactor,
			ownershipFactor,
			authorityFactor,
		},
		now: time.Now,
	}
}

// Score computes the normalized weighted average of all factors,
// rounded and clamped to [0,100]. Deterministic for a fixed clock.
func (c *Calculator) Score(ev *domain.EvidenceBundle) *domain.ScoreResult {
	now := c.now()

	factors := make([]domain.TrustFactor, 0, len(c.factors))
	for _, f := range c.factors {
		factors = append(factors, f(ev, now))
	}

	return &domain.ScoreResult{
		Score:   Combine(factors),
		Factors: factors,
	}
}

// Combine reduces factors to the final score. Weights are normalized,
// so the result is invariant under factor reordering.
func Combine(factors []domain.TrustFactor) int {
	var weighted, totalWeight float64
	for _, f := range factors {
		weighted += f.Score * f.Weight
		totalWeight += f.Weight
	}
	if totalWeight == 0 {
		return NeutralScore
	}

	score := int(math.Round(weighted / totalWeight))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
