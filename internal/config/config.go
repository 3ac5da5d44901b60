// Package config holds the static, process-lifetime configuration of
// the engine: endpoint URLs and the read-only reputation sets consulted
// by risk rules and trust factors.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"solana-trust-scan/internal/solana"
)

// Defaults for holder analysis tuning (see holders.Options).
const (
	DefaultHolderCap        = 50
	DefaultHolderBatchSize  = 20
	DefaultHolderBatchDelay = 500 * time.Millisecond
	DefaultMetadataTTL      = 15 * time.Minute
)

// defaultTrustedPrograms are owner programs that raise provenance trust.
var defaultTrustedPrograms = []string{
	solana.SystemProgramID,
	solana.TokenProgramID,
	"ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL", // associated token program
	"675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8", // Raydium AMM v4
	"JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4",  // Jupiter aggregator v6
}

// defaultSuspiciousPatterns are substrings matched case-insensitively
// against addresses and asset names.
var defaultSuspiciousPatterns = []string{
	"drain",
	"rug",
	"honeypot",
	"sweeper",
	"phish",
	"airdrop-claim",
}

// Config is loaded once at startup and treated as immutable afterwards.
type Config struct {
	RPCEndpoints []string
	WSEndpoints  []string

	TrustedPrograms    map[string]struct{}
	KnownScamAddresses map[string]struct{}
	SuspiciousPatterns []string

	MetadataTTL time.Duration

	HolderCap        int
	HolderBatchSize  int
	HolderBatchDelay time.Duration
}

// Load builds a Config from the environment. SOLANA_RPC_ENDPOINTS is
// required (comma-separated); SOLANA_WS_ENDPOINTS, TRUSTED_PROGRAMS and
// SCAM_ADDRESSES extend the defaults.
func Load() (*Config, error) {
	rpc := splitList(os.Getenv("SOLANA_RPC_ENDPOINTS"))
	if len(rpc) == 0 {
		return nil, fmt.Errorf("SOLANA_RPC_ENDPOINTS is required")
	}

	cfg := New(rpc)
	cfg.WSEndpoints = splitList(os.Getenv("SOLANA_WS_ENDPOINTS"))

	for _, p := range splitList(os.Getenv("TRUSTED_PROGRAMS")) {
		cfg.TrustedPrograms[p] = struct{}{}
	}
	for _, a := range splitList(os.Getenv("SCAM_ADDRESSES")) {
		cfg.KnownScamAddresses[a] = struct{}{}
	}

	return cfg, nil
}

// New creates a Config with defaults for the given RPC endpoints.
func New(rpcEndpoints []string) *Config {
	cfg := &Config{
		RPCEndpoints:       rpcEndpoints,
		TrustedPrograms:    make(map[string]struct{}),
		KnownScamAddresses: make(map[string]struct{}),
		SuspiciousPatterns: append([]string(nil), defaultSuspiciousPatterns...),
		MetadataTTL:        DefaultMetadataTTL,
		HolderCap:          DefaultHolderCap,
		HolderBatchSize:    DefaultHolderBatchSize,
		HolderBatchDelay:   DefaultHolderBatchDelay,
	}
	for _, p := range defaultTrustedPrograms {
		cfg.TrustedPrograms[p] = struct{}{}
	}
	return cfg
}

// IsTrustedProgram reports whether id is in the trusted-program set.
func (c *Config) IsTrustedProgram(id string) bool {
	_, ok := c.TrustedPrograms[id]
	return ok
}

// IsKnownScam reports whether addr is in the known-scam set.
func (c *Config) IsKnownScam(addr string) bool {
	_, ok := c.KnownScamAddresses[addr]
	return ok
}

// MatchSuspicious returns the first suspicious pattern contained in s
// (case-insensitive), or "" when none matches.
func (c *Config) MatchSuspicious(s string) string {
	lower := strings.ToLower(s)
	for _, pat := range c.SuspiciousPatterns {
		if strings.Contains(lower, pat) {
			return pat
		}
	}
	return ""
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
