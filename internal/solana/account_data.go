package solana

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"
)

// Well-known program IDs.
const (
	TokenProgramID         = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	SystemProgramID        = "11111111111111111111111111111111"
	BPFLoaderUpgradeableID = "BPFLoaderUpgradeab1e11111111111111111111111"
	NativeMint             = "So11111111111111111111111111111111111111112"
)

// SPL account data sizes.
const (
	MintAccountSize  = 82
	TokenAccountSize = 165
)

// Byte offset of the mint field inside a token account.
const TokenAccountMintOffset = 0

// MintAccount holds decoded SPL mint account fields.
// Mint layout: mintAuthority COption(4+32) | supply u64 | decimals u8 |
// isInitialized u8 | freezeAuthority COption(4+32) = 82 bytes.
type MintAccount struct {
	Supply          uint64
	Decimals        int
	Initialized     bool
	MintAuthority   *string
	FreezeAuthority *string
}

// TokenAccount holds decoded SPL token account fields.
// Token account layout: mint(32) | owner(32) | amount u64 | ... = 165 bytes.
type TokenAccount struct {
	Mint   string
	Owner  string
	Amount uint64
}

// DecodeAccountData decodes base64 account data as returned by the RPC.
func DecodeAccountData(data string) ([]byte, error) {
	if data == "" {
		return nil, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode account data: %w", err)
	}
	return decoded, nil
}

// ParseMintAccount parses raw SPL mint account bytes.
func ParseMintAccount(data []byte) (*MintAccount, error) {
	if len(data) < MintAccountSize {
		return nil, fmt.Errorf("mint account data too short: %d", len(data))
	}

	m := &MintAccount{
		Supply:      binary.LittleEndian.Uint64(data[36:44]),
		Decimals:    int(data[44]),
		Initialized: data[45] == 1,
	}

	if binary.LittleEndian.Uint32(data[0:4]) == 1 {
		auth := base58.Encode(data[4:36])
		m.MintAuthority = &auth
	}

	if binary.LittleEndian.Uint32(data[46:50]) == 1 {
		auth := base58.Encode(data[50:82])
		m.FreezeAuthority = &auth
	}

	return m, nil
}

// ParseTokenAccount parses raw SPL token account bytes.
func ParseTokenAccount(data []byte) (*TokenAccount, error) {
	if len(data) < 72 {
		return nil, fmt.Errorf("token account data too short: %d", len(data))
	}

	return &TokenAccount{
		Mint:   base58.Encode(data[0:32]),
		Owner:  base58.Encode(data[32:64]),
		Amount: binary.LittleEndian.Uint64(data[64:72]),
	}, nil
}
