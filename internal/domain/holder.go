package domain

// Holder is one account holding a nonzero balance of an asset.
type Holder struct {
	Address  string
	Amount   uint64  // raw integer amount
	UIAmount float64 // amount scaled by 10^decimals
	Percent  float64 // share of total supply, 0-100 (0 when supply is 0)
	Rank     int     // 1-based, descending by Amount
}

// HolderDistribution summarizes holder enumeration for one mint.
type HolderDistribution struct {
	// Holders is sorted by Amount descending and truncated to the top 100.
	Holders []Holder

	// TotalHolderCount is the true number of token accounts discovered
	// on-chain, which can exceed the analyzed subset.
	TotalHolderCount int

	// AnalyzedCount is the number of accounts actually fetched and scored.
	AnalyzedCount int
}

// TopPercent returns the combined supply share of the top n holders.
func (d *HolderDistribution) TopPercent(n int) float64 {
	if d == nil {
		return 0
	}
	if n > len(d.Holders) {
		n = len(d.Holders)
	}
	var sum float64
	for _, h := range d.Holders[:n] {
		sum += h.Percent
	}
	return sum
}
