package rpcpool

import (
	"context"
	"errors"
	"testing"
	"time"

	"solana-trust-scan/internal/solana"
	"solana-trust-scan/internal/solana/solanatest"
)

func newTestPool(t *testing.T, fakes ...*solanatest.RPCClient) *Pool {
	t.Helper()

	clients := make([]solana.RPCClient, len(fakes))
	for i, f := range fakes {
		clients[i] = f
	}

	pool, err := New(Options{
		Clients: clients,
		Backoff: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return pool
}

func getSlot(ctx context.Context, client solana.RPCClient) error {
	_, err := client.GetSlot(ctx)
	return err
}

func TestNew_NoEndpoints(t *testing.T) {
	_, err := New(Options{})
	if !errors.Is(err, ErrNoEndpoints) {
		t.Fatalf("expected ErrNoEndpoints, got %v", err)
	}
}

func TestPool_ExecuteFirstEndpointSucceeds(t *testing.T) {
	c0 := solanatest.NewRPCClient()
	c1 := solanatest.NewRPCClient()
	pool := newTestPool(t, c0, c1)

	if err := pool.Execute(context.Background(), getSlot); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if c0.Calls() != 1 {
		t.Errorf("expected 1 call to endpoint 0, got %d", c0.Calls())
	}
	if c1.Calls() != 0 {
		t.Errorf("expected 0 calls to endpoint 1, got %d", c1.Calls())
	}
	if pool.Current() != 0 {
		t.Errorf("expected sticky index 0, got %d", pool.Current())
	}
}

func TestPool_FallsOverAfterFailures(t *testing.T) {
	// Two dead endpoints followed by a healthy one: the operation must
	// succeed on the third attempt.
	c0 := solanatest.NewRPCClient()
	c0.Fail = true
	c1 := solanatest.NewRPCClient()
	c1.Fail = true
	c2 := solanatest.NewRPCClient()
	pool := newTestPool(t, c0, c1, c2)

	if err := pool.Execute(context.Background(), getSlot); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if c0.Calls() != 1 || c1.Calls() != 1 || c2.Calls() != 1 {
		t.Errorf("expected one attempt per endpoint, got %d/%d/%d",
			c0.Calls(), c1.Calls(), c2.Calls())
	}
	if pool.Current() != 2 {
		t.Errorf("expected sticky index 2, got %d", pool.Current())
	}
}

func TestPool_AllEndpointsExhausted(t *testing.T) {
	c0 := solanatest.NewRPCClient()
	c0.Fail = true
	c1 := solanatest.NewRPCClient()
	c1.Fail = true
	c2 := solanatest.NewRPCClient()
	c2.Fail = true
	pool := newTestPool(t, c0, c1, c2)

	err := pool.Execute(context.Background(), getSlot)
	if !errors.Is(err, ErrAllEndpointsExhausted) {
		t.Fatalf("expected ErrAllEndpointsExhausted, got %v", err)
	}
	if !errors.Is(err, solanatest.ErrUnavailable) {
		t.Errorf("expected wrapped endpoint error, got %v", err)
	}

	// Exactly one attempt per endpoint, never more.
	if c0.Calls() != 1 || c1.Calls() != 1 || c2.Calls() != 1 {
		t.Errorf("expected one attempt per endpoint, got %d/%d/%d",
			c0.Calls(), c1.Calls(), c2.Calls())
	}
}

func TestPool_StickyIndex(t *testing.T) {
	c0 := solanatest.NewRPCClient()
	c0.Fail = true
	c1 := solanatest.NewRPCClient()
	pool := newTestPool(t, c0, c1)

	if err := pool.Execute(context.Background(), getSlot); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if pool.Current() != 1 {
		t.Fatalf("expected sticky index 1, got %d", pool.Current())
	}

	// The next call starts at the endpoint that last succeeded; the
	// dead endpoint is not probed again.
	if err := pool.Execute(context.Background(), getSlot); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if c0.Calls() != 1 {
		t.Errorf("expected dead endpoint to stay at 1 call, got %d", c0.Calls())
	}
	if c1.Calls() != 2 {
		t.Errorf("expected 2 calls to healthy endpoint, got %d", c1.Calls())
	}
}

func TestPool_ContextCancelledDuringBackoff(t *testing.T) {
	c0 := solanatest.NewRPCClient()
	c0.Fail = true
	c1 := solanatest.NewRPCClient()
	c1.Fail = true

	pool, err := New(Options{
		Clients: []solana.RPCClient{c0, c1},
		Backoff: time.Second,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = pool.Execute(ctx, getSlot)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline, got %v", err)
	}
	if c1.Calls() != 0 {
		t.Errorf("expected no attempt after cancellation, got %d", c1.Calls())
	}
}

func TestPool_Demote(t *testing.T) {
	c0 := solanatest.NewRPCClient()
	c1 := solanatest.NewRPCClient()
	c2 := solanatest.NewRPCClient()
	pool := newTestPool(t, c0, c1, c2)

	pool.Demote(0)
	if pool.Current() != 1 {
		t.Errorf("expected sticky index 1 after demoting 0, got %d", pool.Current())
	}

	// Demoting an endpoint the index does not point at is a no-op.
	pool.Demote(2)
	if pool.Current() != 1 {
		t.Errorf("expected sticky index unchanged, got %d", pool.Current())
	}
}

func TestPool_DemoteSingleEndpoint(t *testing.T) {
	c0 := solanatest.NewRPCClient()
	pool := newTestPool(t, c0)

	// Nothing to move to; must not wedge the index.
	pool.Demote(0)
	if pool.Current() != 0 {
		t.Errorf("expected sticky index 0, got %d", pool.Current())
	}
}
