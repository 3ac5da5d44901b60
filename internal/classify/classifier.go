// Package classify assigns a coarse subject kind to a raw identifier
// from its base58 shape and on-chain account state.
package classify

import (
	"context"
	"errors"
	"fmt"
	"log"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"solana-trust-scan/internal/domain"
	"solana-trust-scan/internal/rpcpool"
	"solana-trust-scan/internal/solana"
)

// ErrInvalidIdentifier is returned for input that is not a well-formed
// base58 address or transaction signature. Rejected before any network call.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Payload sizes of decoded identifiers.
const (
	addressBytes   = 32
	signatureBytes = 64
)

// Classification is the result of classifying one identifier.
type Classification struct {
	Kind       domain.SubjectKind
	Confidence float64
	Note       string

	// Account is the fetched state for address subjects; nil for
	// transaction subjects.
	Account *domain.AccountState

	// Mint is set when Kind is tokenMint.
	Mint *domain.MintInfo
}

// Classifier resolves identifiers against on-chain state via the pool.
type Classifier struct {
	pool   *rpcpool.Pool
	logger *log.Logger
}

// New creates a Classifier.
func New(pool *rpcpool.Pool, logger *log.Logger) *Classifier {
	if logger == nil {
		logger = log.Default()
	}
	return &Classifier{pool: pool, logger: logger}
}

// Validate decodes an identifier and reports whether its shape is a
// transaction signature. Returns ErrInvalidIdentifier for anything that
// is neither a 32-byte address nor a 64-byte signature.
func Validate(identifier string) (payload []byte, isTransaction bool, err error) {
	if identifier == "" {
		return nil, false, fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}

	decoded, err := base58.Decode(identifier)
	if err != nil {
		return nil, false, fmt.Errorf("%w: not base58: %v", ErrInvalidIdentifier, err)
	}

	switch len(decoded) {
	case signatureBytes:
		return decoded, true, nil
	case addressBytes:
		return decoded, false, nil
	default:
		return nil, false, fmt.Errorf("%w: decoded length %d", ErrInvalidIdentifier, len(decoded))
	}
}

// Classify assigns a kind to the identifier. Shape is checked first;
// address subjects are resolved against account state through the pool.
// A missing account never fails classification, it falls back to wallet
// with low confidence.
func (c *Classifier) Classify(ctx context.Context, identifier string) (*Classification, error) {
	payload, isTx, err := Validate(identifier)
	if err != nil {
		return nil, err
	}

	if isTx {
		return &Classification{
			Kind:       domain.KindTransaction,
			Confidence: 0.9,
		}, nil
	}

	var info *solana.AccountInfo
	err = c.pool.Execute(ctx, func(ctx context.Context, client solana.RPCClient) error {
		var opErr error
		info, opErr = client.GetAccountInfo(ctx, identifier)
		return opErr
	})
	if err != nil {
		return nil, fmt.Errorf("fetch account %s: %w", identifier, err)
	}

	if info == nil {
		return &Classification{
			Kind:       domain.KindWallet,
			Confidence: 0.5,
			Note:       "account not found on-chain",
			Account:    &domain.AccountState{Exists: false},
		}, nil
	}

	data, err := solana.DecodeAccountData(info.Data)
	if err != nil {
		c.logger.Printf("classify %s: %v", identifier, err)
		data = nil
	}

	account := &domain.AccountState{
		Exists:     true,
		Owner:      info.Owner,
		Lamports:   info.Lamports,
		Executable: info.Executable,
		DataLen:    len(data),
		Data:       data,
	}

	if info.Executable {
		return &Classification{
			Kind:       domain.KindProgram,
			Confidence: 0.95,
			Account:    account,
		}, nil
	}

	if info.Owner == solana.TokenProgramID {
		switch len(data) {
		case solana.MintAccountSize:
			mint, err := solana.ParseMintAccount(data)
			if err == nil {
				return &Classification{
					Kind:       domain.KindTokenMint,
					Confidence: 0.95,
					Account:    account,
					Mint: &domain.MintInfo{
						Mint:            identifier,
						Supply:          mint.Supply,
						Decimals:        mint.Decimals,
						MintAuthority:   mint.MintAuthority,
						FreezeAuthority: mint.FreezeAuthority,
					},
				}, nil
			}
			c.logger.Printf("classify %s: mint-sized account failed to parse: %v", identifier, err)
		case solana.TokenAccountSize:
			return &Classification{
				Kind:       domain.KindTokenAccount,
				Confidence: 0.9,
				Account:    account,
			}, nil
		}
	}

	cls := &Classification{
		Kind:       domain.KindWallet,
		Confidence: 0.5,
		Account:    account,
	}
	if isOnCurve(payload) {
		cls.Confidence = 0.8
	} else {
		cls.Note = "off-curve address (likely a PDA)"
	}
	return cls, nil
}

// isOnCurve reports whether a 32-byte pubkey lies on the ed25519 curve.
// User wallets are on-curve keypairs; PDAs are intentionally off-curve.
func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
