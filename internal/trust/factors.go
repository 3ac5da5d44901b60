package trust

import (
	"time"

	"solana-trust-scan/internal/config"
	"solana-trust-scan/internal/domain"
	"solana-trust-scan/internal/solana"
)

// Factor weights. They are normalized at combination time, so they do
// not have to sum to exactly 1.
const (
	weightProvenance = 0.30
	weightAge        = 0.20
	weightVolume     = 0.15
	weightOwnership  = 0.20
	weightAuthority  = 0.15
)

// Factor scores one independent aspect of the evidence.
type Factor func(ev *domain.EvidenceBundle, now time.Time) domain.TrustFactor

// provenanceFactor scores membership in the static reputation sets.
// A known-scam subject dominates a trusted owner.
func provenanceFactor(cfg *config.Config) Factor {
	return func(ev *domain.EvidenceBundle, _ time.Time) domain.TrustFactor {
		f := domain.TrustFactor{
			Name:        "Provenance Trust",
			Weight:      weightProvenance,
			Score:       50,
			Description: "no reputation data for this subject",
		}

		switch {
		case cfg.IsKnownScam(ev.Subject):
			f.Score = 0
			f.Description = "subject is on the known-scam list"
		case ev.Account != nil && cfg.IsTrustedProgram(ev.Account.Owner):
			f.Score = 90
			f.Description = "owned by a trusted program"
		}
		return f
	}
}

// ageFactor scores the age of the oldest known transaction.
func ageFactor(ev *domain.EvidenceBundle, now time.Time) domain.TrustFactor {
	f := domain.TrustFactor{
		Name:        "Account Age",
		Weight:      weightAge,
		Score:       50,
		Description: "no transaction history available",
	}

	oldest := oldestBlockTime(ev)
	if oldest == 0 {
		return f
	}

	age := now.Sub(time.Unix(oldest, 0))
	days := age.Hours() / 24
	switch {
	case days > 365:
		f.Score = 90
	case days > 180:
		f.Score = 80
	case days > 90:
		f.Score = 70
	case days > 30:
		f.Score = 60
	case days > 7:
		f.Score = 50
	default:
		f.Score = 30
	}
	f.Description = "based on the oldest observed transaction"
	return f
}

// oldestBlockTime returns the oldest block time in the history, which
// is ordered newest first. 0 means no usable history.
func oldestBlockTime(ev *domain.EvidenceBundle) int64 {
	if !ev.HistoryAvailable {
		return 0
	}
	for i := len(ev.History) - 1; i >= 0; i-- {
		if bt := ev.History[i].BlockTime; bt != nil && *bt > 0 {
			return *bt
		}
	}
	return 0
}

// volumeFactor scores observed transaction count.
func volumeFactor(ev *domain.EvidenceBundle, _ time.Time) domain.TrustFactor {
	f := domain.TrustFactor{
		Name:        "Transaction Volume",
		Weight:      weightVolume,
		Score:       50,
		Description: "no transaction history available",
	}
	if !ev.HistoryAvailable {
		return f
	}

	count := len(ev.History)
	switch {
	case count > 1000:
		f.Score = 80
	case count > 100:
		f.Score = 70
	case count > 10:
		f.Score = 60
	case count == 0:
		f.Score = 30
	default:
		f.Score = 50
	}
	f.Description = "based on observed transaction count"
	return f
}

// ownershipFactor scores the owning program of the account.
func ownershipFactor(ev *domain.EvidenceBundle, _ time.Time) domain.TrustFactor {
	f := domain.TrustFactor{
		Name:        "Ownership Pattern",
		Weight:      weightOwnership,
		Score:       60,
		Description: "owned by a non-native program",
	}
	if ev.Account != nil && ev.Account.Exists && ev.Account.Owner == solana.SystemProgramID {
		f.Score = 80
		f.Description = "owned by the native system program"
	}
	return f
}

// authorityFactor scores renounced authorities and live supply.
// Base 60, +20 for a renounced mint authority, +10 for a renounced
// freeze authority, +10 for a nonzero circulating supply, capped at 100.
func authorityFactor(ev *domain.EvidenceBundle, _ time.Time) domain.TrustFactor {
	f := domain.TrustFactor{
		Name:        "Liquidity/Authority Factors",
		Weight:      weightAuthority,
		Score:       60,
		Description: "not a fungible asset, neutral score",
	}
	if ev.Mint == nil {
		return f
	}

	score := 60.0
	if ev.Mint.MintAuthority == nil {
		score += 20
	}
	if ev.Mint.FreezeAuthority == nil {
		score += 10
	}
	if ev.Mint.Supply > 0 {
		score += 10
	}
	if score > 100 {
		score = 100
	}

	f.Score = score
	f.Description = "based on authority renouncement and supply"
	return f
}
