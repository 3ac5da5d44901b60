// Package engine coordinates the full analysis of one subject:
// classification, on-chain fetches through the endpoint pool, optional
// metadata and holder evidence, then risk evaluation and trust scoring
// over one frozen evidence bundle.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"solana-trust-scan/internal/classify"
	"solana-trust-scan/internal/config"
	"solana-trust-scan/internal/domain"
	"solana-trust-scan/internal/holders"
	"solana-trust-scan/internal/metadata"
	"solana-trust-scan/internal/observability"
	"solana-trust-scan/internal/risk"
	"solana-trust-scan/internal/rpcpool"
	"solana-trust-scan/internal/solana"
	"solana-trust-scan/internal/storage"
	"solana-trust-scan/internal/trust"
)

// historyPageLimit is the RPC page size for signature history. A second
// page is fetched only to distinguish ">1000 transactions" from
// "exactly 1000".
const historyPageLimit = 1000

// Engine runs analyses. Safe for concurrent use; per-request state
// lives entirely in the evidence bundle.
type Engine struct {
	cfg        *config.Config
	pool       *rpcpool.Pool
	classifier *classify.Classifier
	waterfall  *metadata.Waterfall
	holders    *holders.Analyzer
	risk       *risk.Engine
	trust      *trust.Calculator
	cache      storage.MetadataCacheStore // optional
	logger     *log.Logger
}

// Options configures an Engine.
type Options struct {
	Config    *config.Config
	Pool      *rpcpool.Pool
	Waterfall *metadata.Waterfall

	// Cache is optional; nil disables metadata caching.
	Cache storage.MetadataCacheStore

	Logger *log.Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Engine{
		cfg:        opts.Config,
		pool:       opts.Pool,
		classifier: classify.New(opts.Pool, logger),
		waterfall:  opts.Waterfall,
		holders: holders.New(holders.Options{
			Pool:       opts.Pool,
			Cap:        opts.Config.HolderCap,
			BatchSize:  opts.Config.HolderBatchSize,
			BatchDelay: opts.Config.HolderBatchDelay,
			Logger:     logger,
		}),
		risk:   risk.New(opts.Config),
		trust:  trust.New(opts.Config),
		cache:  opts.Cache,
		logger: logger,
	}
}

// Analyze runs the full pipeline for one identifier. hint, when set,
// corroborates the classified kind. ErrInvalidIdentifier,
// ErrSubjectNotFound and a pool-exhausted mandatory fetch propagate as
// request failures; any other failure degrades to a best-effort result
// with a neutral score.
func (e *Engine) Analyze(ctx context.Context, identifier string, hint domain.SubjectKind) (*domain.AnalysisResult, error) {
	start := time.Now()

	result, err := e.analyze(ctx, identifier, hint)

	status := "ok"
	kind := "unknown"
	switch {
	case errors.Is(err, ErrInvalidIdentifier):
		status = "invalid"
	case errors.Is(err, ErrSubjectNotFound):
		status = "not_found"
	case errors.Is(err, rpcpool.ErrAllEndpointsExhausted):
		status = "exhausted"
	case err != nil:
		// Unexpected failure: degrade rather than fail the request.
		e.logger.Printf("analysis of %s degraded: %v", identifier, err)
		result = e.degradedResult(identifier, err)
		err = nil
		status = "degraded"
	case result.Degraded:
		status = "degraded"
	}
	if result != nil {
		kind = string(result.Kind)
	}
	observability.RecordAnalysis(kind, status, time.Since(start).Seconds())

	return result, err
}

func (e *Engine) analyze(ctx context.Context, identifier string, hint domain.SubjectKind) (*domain.AnalysisResult, error) {
	cls, err := e.classifier.Classify(ctx, identifier)
	if err != nil {
		return nil, err
	}

	confidence := cls.Confidence
	if hint != "" && hint == cls.Kind && confidence < 0.95 {
		confidence = 0.95
	}

	ev := &domain.EvidenceBundle{
		Subject:    identifier,
		Kind:       cls.Kind,
		Confidence: confidence,
		Note:       cls.Note,
		Account:    cls.Account,
		Mint:       cls.Mint,
	}

	if cls.Kind == domain.KindTransaction {
		if err := e.fetchTransaction(ctx, ev); err != nil {
			return nil, err
		}
	} else {
		e.fetchHistory(ctx, ev)

		if cls.Kind == domain.KindTokenMint {
			ev.Metadata = e.resolveMetadata(ctx, identifier)
			ev.Holders = e.analyzeHolders(ctx, ev.Mint)
		}
	}

	ev.FetchedAt = time.Now().UnixMilli()

	// The bundle is frozen; risk evaluation and trust scoring are pure
	// reads and run concurrently.
	var (
		findings []domain.RiskFinding
		score    *domain.ScoreResult
		wg       sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		findings = e.risk.Evaluate(ev)
	}()
	go func() {
		defer wg.Done()
		score = e.trust.Score(ev)
	}()
	wg.Wait()

	return &domain.AnalysisResult{
		Subject:    identifier,
		Kind:       ev.Kind,
		Confidence: ev.Confidence,
		Note:       ev.Note,
		TrustScore: score.Score,
		Factors:    score.Factors,
		Risks:      findings,
		Holders:    ev.Holders,
		Metadata:   ev.Metadata,
		Evidence:   ev,
		AnalyzedAt: time.Now().UnixMilli(),
	}, nil
}

// fetchTransaction loads the transaction for signature subjects.
// The fetch is mandatory: pool exhaustion fails the request, and a
// missing transaction is a distinct, reportable condition.
func (e *Engine) fetchTransaction(ctx context.Context, ev *domain.EvidenceBundle) error {
	var tx *solana.Transaction
	err := e.pool.Execute(ctx, func(ctx context.Context, client solana.RPCClient) error {
		var opErr error
		tx, opErr = client.GetTransaction(ctx, ev.Subject)
		return opErr
	})
	if err != nil {
		return fmt.Errorf("fetch transaction: %w", err)
	}
	if tx == nil {
		return fmt.Errorf("%w: signature %s", ErrSubjectNotFound, ev.Subject)
	}

	ev.Transaction = tx
	return nil
}

// fetchHistory loads signature history, newest first. History is
// optional evidence: on failure it is recorded as unavailable and the
// analysis proceeds with reduced evidence.
func (e *Engine) fetchHistory(ctx context.Context, ev *domain.EvidenceBundle) {
	var sigs []solana.SignatureInfo
	err := e.pool.Execute(ctx, func(ctx context.Context, client solana.RPCClient) error {
		var opErr error
		sigs, opErr = client.GetSignaturesForAddress(ctx, ev.Subject, &solana.SignaturesOpts{
			Limit: historyPageLimit,
		})
		return opErr
	})
	if err != nil {
		e.logger.Printf("history unavailable for %s: %v", ev.Subject, err)
		return
	}

	// One extra page so the volume factor can tell >1000 from ==1000.
	if len(sigs) == historyPageLimit {
		var more []solana.SignatureInfo
		err := e.pool.Execute(ctx, func(ctx context.Context, client solana.RPCClient) error {
			var opErr error
			more, opErr = client.GetSignaturesForAddress(ctx, ev.Subject, &solana.SignaturesOpts{
				Before: sigs[len(sigs)-1].Signature,
				Limit:  historyPageLimit,
			})
			return opErr
		})
		if err == nil {
			sigs = append(sigs, more...)
		}
	}

	ev.History = sigs
	ev.HistoryAvailable = true
}

// resolveMetadata consults the cache, then the provider waterfall.
// A miss everywhere means "metadata unknown", never an error; cache
// failures are logged and ignored.
func (e *Engine) resolveMetadata(ctx context.Context, mint string) *domain.TokenMetadata {
	if e.waterfall == nil {
		return nil
	}
	if e.cache != nil {
		cached, err := e.cache.Get(ctx, mint)
		switch {
		case err == nil && time.Now().UnixMilli()-cached.FetchedAt <= e.cfg.MetadataTTL.Milliseconds():
			observability.RecordCacheRequest("hit")
			return cached
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			e.logger.Printf("metadata cache read for %s: %v", mint, err)
		}
		observability.RecordCacheRequest("miss")
	}

	meta, err := e.waterfall.Resolve(ctx, mint)
	if err != nil {
		if !errors.Is(err, metadata.ErrNotFound) {
			e.logger.Printf("metadata resolution for %s: %v", mint, err)
		}
		return nil
	}

	if e.cache != nil {
		if err := e.cache.Put(ctx, meta); err != nil {
			e.logger.Printf("metadata cache write for %s: %v", mint, err)
		}
	}
	return meta
}

// analyzeHolders runs the holder analyzer for mint subjects. Holder
// data is optional evidence: a failed enumeration leaves it nil.
func (e *Engine) analyzeHolders(ctx context.Context, mint *domain.MintInfo) *domain.HolderDistribution {
	if mint == nil {
		return nil
	}

	dist, err := e.holders.Analyze(ctx, mint.Mint, mint.Supply, mint.Decimals)
	if err != nil {
		e.logger.Printf("holder analysis unavailable for %s: %v", mint.Mint, err)
		return nil
	}
	return dist
}

// degradedResult is the best-effort answer for unexpected failures:
// neutral score, no findings, the failure recorded in-band.
func (e *Engine) degradedResult(identifier string, cause error) *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Subject:        identifier,
		Kind:           domain.KindWallet,
		Confidence:     0,
		TrustScore:     trust.NeutralScore,
		Factors:        nil,
		Risks:          nil,
		Degraded:       true,
		DegradedReason: cause.Error(),
		AnalyzedAt:     time.Now().UnixMilli(),
	}
}
