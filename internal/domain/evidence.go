package domain

import "solana-trust-scan/internal/solana"

// SubjectKind classifies what an analyzed identifier points at.
type SubjectKind string

const (
	KindTransaction  SubjectKind = "transaction"
	KindProgram      SubjectKind = "program"
	KindTokenMint    SubjectKind = "tokenMint"
	KindTokenAccount SubjectKind = "tokenAccount"
	KindWallet       SubjectKind = "wallet"
)

// AccountState is the raw on-chain state of the analyzed account.
type AccountState struct {
	Exists     bool
	Owner      string
	Lamports   uint64
	Executable bool
	DataLen    int
	Data       []byte // decoded account data, nil if the account does not exist
}

// EvidenceBundle aggregates everything fetched about one subject.
// It is built once per request and must not be mutated after the
// aggregation phase completes; scoring and risk evaluation only read it.
type EvidenceBundle struct {
	Subject    string
	Kind       SubjectKind
	Confidence float64
	Note       string

	Account *AccountState
	Mint    *MintInfo

	// Optional evidence. Nil means "unavailable", never "empty".
	Metadata *TokenMetadata
	Holders  *HolderDistribution

	// History is ordered newest first, as returned by the RPC.
	History []solana.SignatureInfo
	// HistoryAvailable distinguishes "no transactions" from "fetch failed".
	HistoryAvailable bool

	// Transaction is set only for transaction subjects.
	Transaction *solana.Transaction

	FetchedAt int64 // Unix timestamp in milliseconds
}

// MintInfo holds the decoded fields of an SPL mint account.
type MintInfo struct {
	Mint            string
	Supply          uint64
	Decimals        int
	MintAuthority   *string // nil when renounced
	FreezeAuthority *string // nil when renounced
}
