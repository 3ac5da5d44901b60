package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"solana-trust-scan/internal/domain"
)

// stubResolver is a scripted provider for waterfall ordering tests.
type stubResolver struct {
	name  string
	meta  *domain.TokenMetadata
	err   error
	calls int
}

func (s *stubResolver) Name() string { return s.name }

func (s *stubResolver) Resolve(_ context.Context, _ string) (*domain.TokenMetadata, error) {
	s.calls++
	return s.meta, s.err
}

func TestWaterfall_FirstHitWins(t *testing.T) {
	// Provider 1 times out, provider 2 answers; provider 3 must never
	// be consulted.
	r1 := &stubResolver{name: "first", err: context.DeadlineExceeded}
	r2 := &stubResolver{name: "second", meta: &domain.TokenMetadata{Name: "Foo", Symbol: "FOO"}}
	r3 := &stubResolver{name: "third", meta: &domain.TokenMetadata{Name: "Bar"}}

	w := NewWaterfall([]Resolver{r1, r2, r3}, nil)

	meta, err := w.Resolve(context.Background(), "Mint111")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if meta.Name != "Foo" {
		t.Errorf("expected name Foo, got %s", meta.Name)
	}
	if meta.Source != "second" {
		t.Errorf("expected source second, got %s", meta.Source)
	}
	if meta.Mint != "Mint111" {
		t.Errorf("expected mint Mint111, got %s", meta.Mint)
	}
	if meta.FetchedAt == 0 {
		t.Error("expected FetchedAt to be stamped")
	}
	if r3.calls != 0 {
		t.Errorf("expected third provider untouched, got %d calls", r3.calls)
	}
}

func TestWaterfall_MissThenHit(t *testing.T) {
	// A nil result with nil error is a miss, not a failure.
	r1 := &stubResolver{name: "first"}
	r2 := &stubResolver{name: "second", meta: &domain.TokenMetadata{Name: "Foo"}}

	w := NewWaterfall([]Resolver{r1, r2}, nil)

	meta, err := w.Resolve(context.Background(), "Mint111")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if meta.Source != "second" {
		t.Errorf("expected source second, got %s", meta.Source)
	}
	if r1.calls != 1 {
		t.Errorf("expected first provider consulted once, got %d", r1.calls)
	}
}

func TestWaterfall_UnnamedResultIsMiss(t *testing.T) {
	r1 := &stubResolver{name: "first", meta: &domain.TokenMetadata{Symbol: "FOO"}}
	r2 := &stubResolver{name: "second", meta: &domain.TokenMetadata{Name: "Foo"}}

	w := NewWaterfall([]Resolver{r1, r2}, nil)

	meta, err := w.Resolve(context.Background(), "Mint111")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if meta.Source != "second" {
		t.Errorf("expected unnamed result skipped, got source %s", meta.Source)
	}
}

func TestWaterfall_AllMiss(t *testing.T) {
	r1 := &stubResolver{name: "first", err: errors.New("boom")}
	r2 := &stubResolver{name: "second"}

	w := NewWaterfall([]Resolver{r1, r2}, nil)

	_, err := w.Resolve(context.Background(), "Mint111")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJupiterProvider_Resolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Mint111" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Foo Token","symbol":"FOO","logoURI":"https://img.example/foo.png"}`))
	}))
	defer server.Close()

	p := NewJupiterProvider(server.URL, server.Client())

	meta, err := p.Resolve(context.Background(), "Mint111")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if meta == nil {
		t.Fatal("expected metadata, got nil")
	}
	if meta.Name != "Foo Token" || meta.Symbol != "FOO" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.LogoURI != "https://img.example/foo.png" {
		t.Errorf("unexpected logo: %s", meta.LogoURI)
	}
}

func TestJupiterProvider_Miss(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	p := NewJupiterProvider(server.URL, server.Client())

	meta, err := p.Resolve(context.Background(), "Mint111")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if meta != nil {
		t.Errorf("expected miss, got %+v", meta)
	}
}

func TestJupiterProvider_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewJupiterProvider(server.URL, server.Client())

	if _, err := p.Resolve(context.Background(), "Mint111"); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestDexScreenerProvider_Resolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"pairs": [
				{"baseToken": {"address": "OtherMint", "name": "Other", "symbol": "OTH"}},
				{
					"baseToken": {"address": "Mint111", "name": "Foo Token", "symbol": "FOO"},
					"info": {"imageUrl": "https://img.example/foo.png", "websites": [{"url": "https://foo.example"}]}
				}
			]
		}`))
	}))
	defer server.Close()

	p := NewDexScreenerProvider(server.URL, server.Client())

	meta, err := p.Resolve(context.Background(), "Mint111")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if meta == nil {
		t.Fatal("expected metadata, got nil")
	}
	if meta.Name != "Foo Token" {
		t.Errorf("expected the matching base token, got %s", meta.Name)
	}
	if meta.Website != "https://foo.example" {
		t.Errorf("unexpected website: %s", meta.Website)
	}
}

func TestDexScreenerProvider_NoMatchingPair(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pairs": [{"baseToken": {"address": "OtherMint", "name": "Other"}}]}`))
	}))
	defer server.Close()

	p := NewDexScreenerProvider(server.URL, server.Client())

	meta, err := p.Resolve(context.Background(), "Mint111")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if meta != nil {
		t.Errorf("expected miss, got %+v", meta)
	}
}

func TestSolscanProvider_Resolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("tokenAddress"); got != "Mint111" {
			t.Errorf("expected tokenAddress=Mint111, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Foo Token","symbol":"FOO","icon":"https://img.example/foo.png","website":"https://foo.example"}`))
	}))
	defer server.Close()

	p := NewSolscanProvider(server.URL, server.Client())

	meta, err := p.Resolve(context.Background(), "Mint111")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if meta == nil {
		t.Fatal("expected metadata, got nil")
	}
	if meta.Name != "Foo Token" || meta.Website != "https://foo.example" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
}
