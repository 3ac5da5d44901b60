package solana

// AccountInfo represents Solana account information.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Data       string // base64 encoded
	Executable bool
	RentEpoch  uint64
}

// TokenAmount is an SPL token amount as returned by the RPC.
type TokenAmount struct {
	Amount   string // raw integer amount as a string
	Decimals int
	UIAmount float64
}

// SignatureInfo from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string
	Slot      int64
	BlockTime *int64
	Err       interface{}
}

// SignaturesOpts defines optional pagination parameters for getSignaturesForAddress.
type SignaturesOpts struct {
	Before string // Start searching backwards from this signature
	Until  string // Search until this signature
	Limit  int    // Maximum number of signatures to return
}

// Transaction represents a Solana transaction.
type Transaction struct {
	Slot      int64
	Signature string
	BlockTime int64 // Unix timestamp (seconds)
	Meta      *TransactionMeta
	Message   *TransactionMessage
}

// TransactionMeta contains transaction metadata.
type TransactionMeta struct {
	Err         interface{}
	Fee         uint64
	LogMessages []string
}

// TransactionMessage contains parsed transaction message.
type TransactionMessage struct {
	AccountKeys []string
}

// ProgramAccount is one account returned by getProgramAccounts.
type ProgramAccount struct {
	Pubkey  string
	Account AccountInfo
}

// ProgramAccountsOpts configures getProgramAccounts filters.
type ProgramAccountsOpts struct {
	// DataSize filters accounts by exact data length, 0 disables.
	DataSize int
	// MemcmpOffset/MemcmpBytes filter accounts whose data matches
	// base58-encoded bytes at a byte offset. Empty bytes disables.
	MemcmpOffset int
	MemcmpBytes  string
	// DataSlice limits returned account data, nil returns all.
	DataSlice *DataSlice
}

// DataSlice selects a byte range of account data to return.
type DataSlice struct {
	Offset int
	Length int
}
