package trust

import (
	"testing"
	"time"

	"solana-trust-scan/internal/config"
	"solana-trust-scan/internal/domain"
	"solana-trust-scan/internal/solana"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return config.New([]string{"http://localhost:8899"})
}

func newTestCalculator(cfg *config.Config) *Calculator {
	c := New(cfg)
	c.now = func() time.Time { return testNow }
	return c
}

func historyWithOldest(oldest time.Time, count int) []solana.SignatureInfo {
	sigs := make([]solana.SignatureInfo, count)
	for i := range sigs {
		bt := oldest.Unix()
		sigs[i] = solana.SignatureInfo{Signature: "sig", BlockTime: &bt}
	}
	return sigs
}

func TestCombine_NormalizedWeights(t *testing.T) {
	factors := []domain.TrustFactor{
		{Name: "a", Score: 80, Weight: 0.3},
		{Name: "b", Score: 40, Weight: 0.1},
		{Name: "c", Score: 60, Weight: 0.2},
	}

	got := Combine(factors)
	// (80*0.3 + 40*0.1 + 60*0.2) / 0.6 = 40/0.6 = 66.66 -> 67
	if got != 67 {
		t.Errorf("expected 67, got %d", got)
	}
}

func TestCombine_OrderInvariant(t *testing.T) {
	factors := []domain.TrustFactor{
		{Score: 90, Weight: 0.30},
		{Score: 50, Weight: 0.20},
		{Score: 30, Weight: 0.15},
		{Score: 80, Weight: 0.20},
		{Score: 100, Weight: 0.15},
	}
	reversed := make([]domain.TrustFactor, len(factors))
	for i, f := range factors {
		reversed[len(factors)-1-i] = f
	}

	if Combine(factors) != Combine(reversed) {
		t.Errorf("score depends on factor order: %d vs %d",
			Combine(factors), Combine(reversed))
	}
}

func TestCombine_Empty(t *testing.T) {
	if got := Combine(nil); got != NeutralScore {
		t.Errorf("expected neutral score %d, got %d", NeutralScore, got)
	}
}

func TestCombine_Clamped(t *testing.T) {
	if got := Combine([]domain.TrustFactor{{Score: 500, Weight: 1}}); got != 100 {
		t.Errorf("expected clamp to 100, got %d", got)
	}
	if got := Combine([]domain.TrustFactor{{Score: -10, Weight: 1}}); got != 0 {
		t.Errorf("expected clamp to 0, got %d", got)
	}
}

func TestScore_KnownScamProvenanceZero(t *testing.T) {
	cfg := testConfig()
	cfg.KnownScamAddresses["ScamAddr111"] = struct{}{}

	c := newTestCalculator(cfg)
	result := c.Score(&domain.EvidenceBundle{Subject: "ScamAddr111", Kind: domain.KindWallet})

	var provenance *domain.TrustFactor
	for i := range result.Factors {
		if result.Factors[i].Name == "Provenance Trust" {
			provenance = &result.Factors[i]
		}
	}
	if provenance == nil {
		t.Fatal("missing provenance factor")
	}
	if provenance.Score != 0 {
		t.Errorf("expected provenance 0 for a known scam, got %v", provenance.Score)
	}
}

func TestScore_Bounds(t *testing.T) {
	c := newTestCalculator(testConfig())

	bundles := []*domain.EvidenceBundle{
		{Subject: "a", Kind: domain.KindWallet},
		{Subject: "b", Kind: domain.KindTokenMint, Mint: &domain.MintInfo{Supply: 1}},
		{
			Subject:          "c",
			Kind:             domain.KindWallet,
			HistoryAvailable: true,
			History:          historyWithOldest(testNow.AddDate(-2, 0, 0), 1500),
			Account:          &domain.AccountState{Exists: true, Owner: solana.SystemProgramID},
		},
	}

	for _, ev := range bundles {
		result := c.Score(ev)
		if result.Score < 0 || result.Score > 100 {
			t.Errorf("score %d out of bounds for %s", result.Score, ev.Subject)
		}
		if len(result.Factors) != 5 {
			t.Errorf("expected 5 factors, got %d", len(result.Factors))
		}
	}
}

func TestAuthorityFactor_FullyRenounced(t *testing.T) {
	ev := &domain.EvidenceBundle{
		Kind: domain.KindTokenMint,
		Mint: &domain.MintInfo{Supply: 1_000_000},
	}

	f := authorityFactor(ev, testNow)
	if f.Score != 100 {
		t.Errorf("expected 100 for fully renounced mint with supply, got %v", f.Score)
	}
}

func TestAuthorityFactor_ActiveAuthorities(t *testing.T) {
	auth := "Auth111"
	ev := &domain.EvidenceBundle{
		Kind: domain.KindTokenMint,
		Mint: &domain.MintInfo{
			MintAuthority:   &auth,
			FreezeAuthority: &auth,
		},
	}

	f := authorityFactor(ev, testNow)
	if f.Score != 60 {
		t.Errorf("expected base 60 with active authorities and zero supply, got %v", f.Score)
	}
}

func TestAgeFactor_Tiers(t *testing.T) {
	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"two years", 2 * 365 * 24 * time.Hour, 90},
		{"seven months", 210 * 24 * time.Hour, 80},
		{"four months", 120 * 24 * time.Hour, 70},
		{"six weeks", 42 * 24 * time.Hour, 60},
		{"two weeks", 14 * 24 * time.Hour, 50},
		{"two days", 48 * time.Hour, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &domain.EvidenceBundle{
				HistoryAvailable: true,
				History:          historyWithOldest(testNow.Add(-tt.age), 5),
			}
			f := ageFactor(ev, testNow)
			if f.Score != tt.want {
				t.Errorf("expected %v, got %v", tt.want, f.Score)
			}
		})
	}
}

func TestAgeFactor_NoHistory(t *testing.T) {
	f := ageFactor(&domain.EvidenceBundle{}, testNow)
	if f.Score != 50 {
		t.Errorf("expected neutral 50 without history, got %v", f.Score)
	}
}

func TestVolumeFactor_Tiers(t *testing.T) {
	tests := []struct {
		count int
		want  float64
	}{
		{1500, 80},
		{500, 70},
		{50, 60},
		{5, 50},
		{0, 30},
	}

	for _, tt := range tests {
		ev := &domain.EvidenceBundle{
			HistoryAvailable: true,
			History:          historyWithOldest(testNow, tt.count),
		}
		f := volumeFactor(ev, testNow)
		if f.Score != tt.want {
			t.Errorf("count %d: expected %v, got %v", tt.count, tt.want, f.Score)
		}
	}
}

func TestOwnershipFactor_SystemProgram(t *testing.T) {
	ev := &domain.EvidenceBundle{
		Account: &domain.AccountState{Exists: true, Owner: solana.SystemProgramID},
	}
	f := ownershipFactor(ev, testNow)
	if f.Score != 80 {
		t.Errorf("expected 80 for system-owned account, got %v", f.Score)
	}

	f = ownershipFactor(&domain.EvidenceBundle{}, testNow)
	if f.Score != 60 {
		t.Errorf("expected 60 for unknown ownership, got %v", f.Score)
	}
}

func TestProvenanceFactor_TrustedOwner(t *testing.T) {
	cfg := testConfig()
	f := provenanceFactor(cfg)(&domain.EvidenceBundle{
		Subject: "Wallet111",
		Account: &domain.AccountState{Exists: true, Owner: solana.TokenProgramID},
	}, testNow)

	if f.Score != 90 {
		t.Errorf("expected 90 for trusted owner, got %v", f.Score)
	}
}
