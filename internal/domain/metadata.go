package domain

// TokenMetadata is off-chain metadata for a mint, resolved through
// the provider waterfall or read back from the cache.
type TokenMetadata struct {
	Mint      string
	Name      string
	Symbol    string
	LogoURI   string
	Website   string
	Source    string // provider that produced the hit
	FetchedAt int64  // Unix timestamp in milliseconds
}
