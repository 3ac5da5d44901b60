package risk

import (
	"fmt"

	"solana-trust-scan/internal/config"
	"solana-trust-scan/internal/domain"
	"solana-trust-scan/internal/solana"
)

// knownScamRule fires when the subject is in the known-scam set.
func knownScamRule(cfg *config.Config) Rule {
	return func(ev *domain.EvidenceBundle) *domain.RiskFinding {
		if !cfg.IsKnownScam(ev.Subject) {
			return nil
		}
		return &domain.RiskFinding{
			Type:           domain.RiskMaliciousProgram,
			Severity:       domain.SeverityCritical,
			Description:    "address is on the known-scam list",
			Recommendation: "do not interact with this address",
		}
	}
}

// suspiciousPatternRule matches the address and asset name against the
// static suspicious substring list, case-insensitively.
func suspiciousPatternRule(cfg *config.Config) Rule {
	return func(ev *domain.EvidenceBundle) *domain.RiskFinding {
		candidates := []string{ev.Subject}
		if ev.Metadata != nil {
			candidates = append(candidates, ev.Metadata.Name, ev.Metadata.Symbol)
		}

		for _, s := range candidates {
			if pat := cfg.MatchSuspicious(s); pat != "" {
				return &domain.RiskFinding{
					Type:           domain.RiskDrainer,
					Severity:       domain.SeverityHigh,
					Description:    fmt.Sprintf("name matches suspicious pattern %q", pat),
					Recommendation: "verify the asset through an independent source before interacting",
				}
			}
		}
		return nil
	}
}

// mintAuthorityRule fires when the asset's mint authority is not renounced.
func mintAuthorityRule(ev *domain.EvidenceBundle) *domain.RiskFinding {
	if ev.Mint == nil || ev.Mint.MintAuthority == nil {
		return nil
	}
	return &domain.RiskFinding{
		Type:           domain.RiskMintAuthority,
		Severity:       domain.SeverityMedium,
		Description:    "mint authority is active, the supply can be inflated at any time",
		Recommendation: "check whether the team has committed to renouncing the mint authority",
	}
}

// freezeAuthorityRule fires when the asset's freeze authority is not renounced.
func freezeAuthorityRule(ev *domain.EvidenceBundle) *domain.RiskFinding {
	if ev.Mint == nil || ev.Mint.FreezeAuthority == nil {
		return nil
	}
	return &domain.RiskFinding{
		Type:           domain.RiskFreezeAuthority,
		Severity:       domain.SeverityMedium,
		Description:    "freeze authority is active, individual token accounts can be frozen",
		Recommendation: "holdings can be locked by the authority holder",
	}
}

// zeroSupplyRule fires when the asset reports zero total supply.
func zeroSupplyRule(ev *domain.EvidenceBundle) *domain.RiskFinding {
	if ev.Mint == nil || ev.Mint.Supply != 0 {
		return nil
	}
	return &domain.RiskFinding{
		Type:           domain.RiskFakeToken,
		Severity:       domain.SeverityHigh,
		Description:    "token has zero total supply",
		Recommendation: "likely a placeholder or fake token, do not buy",
	}
}

// upgradeableProgramRule fires for executable subjects deployed through
// the upgradeable loader: the program's code can still be swapped.
func upgradeableProgramRule(ev *domain.EvidenceBundle) *domain.RiskFinding {
	if ev.Account == nil || !ev.Account.Executable {
		return nil
	}
	if ev.Account.Owner != solana.BPFLoaderUpgradeableID {
		return nil
	}
	return &domain.RiskFinding{
		Type:           domain.RiskMaliciousProgram,
		Severity:       domain.SeverityMedium,
		Description:    "program is upgradeable, its behavior can change without notice",
		Recommendation: "prefer programs with a burned upgrade authority",
	}
}
