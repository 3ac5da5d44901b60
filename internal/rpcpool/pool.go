// Package rpcpool provides a fallback executor over an ordered set of
// interchangeable Solana RPC endpoints.
package rpcpool

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"solana-trust-scan/internal/observability"
	"solana-trust-scan/internal/solana"
)

// DefaultBackoff is the fixed delay between attempts on different endpoints.
const DefaultBackoff = 1 * time.Second

// Operation is one unit of work executed against a single endpoint.
type Operation func(ctx context.Context, client solana.RPCClient) error

// Pool holds an ordered list of RPC endpoints and a sticky index
// pointing at the last endpoint that succeeded.
//
// The sticky index is process-wide shared state. Concurrent calls may
// race on it, which at worst starts a call at a stale endpoint; every
// call still walks the full ring, so results are unaffected.
type Pool struct {
	clients []solana.RPCClient
	labels  []string
	current atomic.Int64
	backoff time.Duration
	logger  *log.Logger
}

// Options configures a Pool.
type Options struct {
	// Endpoints are RPC URLs; an HTTPClient is built per URL.
	// Ignored when Clients is set.
	Endpoints []string

	// Clients are injected RPC clients, used by tests.
	Clients []solana.RPCClient

	// Backoff is the fixed delay between attempts. Default: 1s.
	Backoff time.Duration

	// Timeout is the per-endpoint HTTP timeout for built clients.
	Timeout time.Duration

	Logger *log.Logger
}

// New creates a Pool from Options.
func New(opts Options) (*Pool, error) {
	p := &Pool{
		backoff: opts.Backoff,
		logger:  opts.Logger,
	}
	if p.backoff == 0 {
		p.backoff = DefaultBackoff
	}
	if p.logger == nil {
		p.logger = log.Default()
	}

	switch {
	case len(opts.Clients) > 0:
		p.clients = opts.Clients
		for i := range opts.Clients {
			p.labels = append(p.labels, fmt.Sprintf("endpoint-%d", i))
		}
	case len(opts.Endpoints) > 0:
		for _, url := range opts.Endpoints {
			var clientOpts []solana.ClientOption
			if opts.Timeout > 0 {
				clientOpts = append(clientOpts, solana.WithTimeout(opts.Timeout))
			}
			p.clients = append(p.clients, solana.NewHTTPClient(url, clientOpts...))
			p.labels = append(p.labels, url)
		}
	default:
		return nil, ErrNoEndpoints
	}

	return p, nil
}

// Size returns the number of endpoints in the pool.
func (p *Pool) Size() int {
	return len(p.clients)
}

// Current returns the sticky endpoint index.
func (p *Pool) Current() int {
	return int(p.current.Load()) % len(p.clients)
}

// Demote moves the sticky index off endpoint i if it currently points
// there. Used by the health watcher when an endpoint goes stale.
func (p *Pool) Demote(i int) {
	n := int64(len(p.clients))
	if n < 2 {
		return
	}
	cur := p.current.Load()
	if cur%n == int64(i) {
		p.current.CompareAndSwap(cur, (cur+1)%n)
		p.logger.Printf("demoted endpoint %s, next calls start at %s",
			p.labels[i], p.labels[p.Current()])
	}
}

// Execute runs op against the first endpoint that accepts it, starting
// at the sticky index and wrapping around for exactly Size() attempts.
// A success updates the sticky index; after the ring is exhausted it
// returns ErrAllEndpointsExhausted wrapping the last observed error.
func (p *Pool) Execute(ctx context.Context, op Operation) error {
	n := len(p.clients)
	start := int(p.current.Load()) % n

	var lastErr error
	for attempt := 0; attempt < n; attempt++ {
		idx := (start + attempt) % n

		err := op(ctx, p.clients[idx])
		if err == nil {
			if attempt > 0 {
				observability.RecordEndpointFallback()
			}
			p.current.Store(int64(idx))
			observability.SetCurrentEndpoint(idx)
			return nil
		}

		lastErr = err
		p.logger.Printf("endpoint %s failed (attempt %d/%d): %v", p.labels[idx], attempt+1, n, err)

		if attempt < n-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.backoff):
			}
		}
	}

	return fmt.Errorf("%w: %w", ErrAllEndpointsExhausted, lastErr)
}
