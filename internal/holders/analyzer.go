// Package holders enumerates and summarizes the accounts holding a
// fungible asset, under a hard cap and batch-with-delay backpressure
// so upstream rate limits are respected.
package holders

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"solana-trust-scan/internal/domain"
	"solana-trust-scan/internal/observability"
	"solana-trust-scan/internal/rpcpool"
	"solana-trust-scan/internal/solana"
)

// Defaults match the tuning the analyzer ships with; all three are
// overridable through Options.
const (
	DefaultCap        = 50
	DefaultBatchSize  = 20
	DefaultBatchDelay = 500 * time.Millisecond

	// maxReturned bounds the holder list handed back to callers.
	maxReturned = 100
)

// Analyzer computes holder distributions for a mint.
type Analyzer struct {
	pool       *rpcpool.Pool
	cap        int
	batchSize  int
	batchDelay time.Duration
	logger     *log.Logger
}

// Options configures an Analyzer.
type Options struct {
	Pool *rpcpool.Pool

	// Cap bounds how many discovered accounts are fetched and scored.
	Cap int

	// BatchSize is the number of concurrent balance fetches per batch.
	BatchSize int

	// BatchDelay is the fixed pause between batches.
	BatchDelay time.Duration

	Logger *log.Logger
}

// New creates an Analyzer.
func New(opts Options) *Analyzer {
	a := &Analyzer{
		pool:       opts.Pool,
		cap:        opts.Cap,
		batchSize:  opts.BatchSize,
		batchDelay: opts.BatchDelay,
		logger:     opts.Logger,
	}
	if a.cap == 0 {
		a.cap = DefaultCap
	}
	if a.batchSize == 0 {
		a.batchSize = DefaultBatchSize
	}
	if a.batchDelay == 0 {
		a.batchDelay = DefaultBatchDelay
	}
	if a.logger == nil {
		a.logger = log.Default()
	}
	return a
}

// Analyze enumerates token accounts for mint, fetches balances for a
// capped subset in delayed batches, and returns the distribution sorted
// by amount descending. The true discovered count is reported in
// TotalHolderCount even when only the capped subset was scored.
//
// A single account fetch failure is logged and skipped; only a failed
// enumeration aborts with ErrEnumerationFailed.
func (a *Analyzer) Analyze(ctx context.Context, mint string, totalSupply uint64, decimals int) (*domain.HolderDistribution, error) {
	var accounts []solana.ProgramAccount
	err := a.pool.Execute(ctx, func(ctx context.Context, client solana.RPCClient) error {
		var opErr error
		accounts, opErr = client.GetProgramAccounts(ctx, solana.TokenProgramID, &solana.ProgramAccountsOpts{
			DataSize:     solana.TokenAccountSize,
			MemcmpOffset: solana.TokenAccountMintOffset,
			MemcmpBytes:  mint,
			// Only pubkeys are needed; balances are fetched per account.
			DataSlice: &solana.DataSlice{Offset: 0, Length: 0},
		})
		return opErr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnumerationFailed, err)
	}

	total := len(accounts)
	if total > a.cap {
		accounts = accounts[:a.cap]
	}

	holders := a.fetchBalances(ctx, accounts, totalSupply, decimals)

	// Descending by raw amount; stable sort keeps discovery order on ties.
	sort.SliceStable(holders, func(i, j int) bool {
		return holders[i].Amount > holders[j].Amount
	})
	for i := range holders {
		holders[i].Rank = i + 1
	}
	if len(holders) > maxReturned {
		holders = holders[:maxReturned]
	}

	observability.RecordHoldersAnalyzed(len(accounts))

	return &domain.HolderDistribution{
		Holders:          holders,
		TotalHolderCount: total,
		AnalyzedCount:    len(accounts),
	}, nil
}

// fetchBalances fetches balances batch by batch. Within a batch the
// fetches run concurrently; between batches the analyzer sleeps to
// bound burst load on the providers.
func (a *Analyzer) fetchBalances(ctx context.Context, accounts []solana.ProgramAccount, totalSupply uint64, decimals int) []domain.Holder {
	results := make([]*domain.Holder, len(accounts))

	for start := 0; start < len(accounts); start += a.batchSize {
		end := start + a.batchSize
		if end > len(accounts) {
			end = len(accounts)
		}

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				h, err := a.fetchHolder(ctx, accounts[i].Pubkey, totalSupply, decimals)
				if err != nil {
					// Skip this account, do not abort the batch.
					a.logger.Printf("holder fetch %s failed: %v", accounts[i].Pubkey, err)
					return nil
				}
				results[i] = h
				return nil
			})
		}
		g.Wait()
		observability.RecordHolderBatch()

		if end < len(accounts) {
			select {
			case <-ctx.Done():
				return collect(results)
			case <-time.After(a.batchDelay):
			}
		}
	}

	return collect(results)
}

// fetchHolder fetches one account's balance through the pool. Zero
// balances yield a nil holder: an empty token account is not a holder.
func (a *Analyzer) fetchHolder(ctx context.Context, account string, totalSupply uint64, decimals int) (*domain.Holder, error) {
	var amount *solana.TokenAmount
	err := a.pool.Execute(ctx, func(ctx context.Context, client solana.RPCClient) error {
		var opErr error
		amount, opErr = client.GetTokenAccountBalance(ctx, account)
		return opErr
	})
	if err != nil {
		return nil, err
	}

	raw, err := strconv.ParseUint(amount.Amount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount.Amount, err)
	}
	if raw == 0 {
		return nil, nil
	}

	h := &domain.Holder{
		Address:  account,
		Amount:   raw,
		UIAmount: scale(raw, decimals),
	}
	if totalSupply > 0 {
		h.Percent = float64(raw) / float64(totalSupply) * 100
	}
	return h, nil
}

// collect drops skipped and zero-balance slots, preserving order.
func collect(results []*domain.Holder) []domain.Holder {
	holders := make([]domain.Holder, 0, len(results))
	for _, h := range results {
		if h != nil {
			holders = append(holders, *h)
		}
	}
	return holders
}

func scale(raw uint64, decimals int) float64 {
	v := float64(raw)
	for i := 0; i < decimals; i++ {
		v /= 10
	}
	return v
}
