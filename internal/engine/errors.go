package engine

import (
	"errors"

	"solana-trust-scan/internal/classify"
)

// ErrSubjectNotFound is returned when the queried signature does not
// exist on-chain. A missing address still classifies as a wallet.
var ErrSubjectNotFound = errors.New("subject not found on-chain")

// ErrInvalidIdentifier is rejected before any network call.
var ErrInvalidIdentifier = classify.ErrInvalidIdentifier
