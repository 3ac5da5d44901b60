package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"solana-trust-scan/internal/domain"
)

// Public provider endpoints. Overridable for tests.
const (
	DefaultJupiterBaseURL     = "https://lite-api.jup.ag/tokens/v1/token"
	DefaultDexScreenerBaseURL = "https://api.dexscreener.com/latest/dex/tokens"
	DefaultSolscanBaseURL     = "https://public-api.solscan.io/token/meta"

	providerTimeout = 5 * time.Second
)

// DefaultResolvers returns the fixed provider order used in production.
func DefaultResolvers() []Resolver {
	return []Resolver{
		NewJupiterProvider(DefaultJupiterBaseURL, nil),
		NewDexScreenerProvider(DefaultDexScreenerBaseURL, nil),
		NewSolscanProvider(DefaultSolscanBaseURL, nil),
	}
}

// fetchJSON issues one GET with a short timeout and decodes the body.
// Non-2xx responses are errors, which the waterfall treats as misses.
func fetchJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func newProviderClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: providerTimeout}
}

// JupiterProvider resolves metadata from the Jupiter token API.
type JupiterProvider struct {
	baseURL string
	client  *http.Client
}

// NewJupiterProvider creates a JupiterProvider. A nil client gets the
// default short-timeout client.
func NewJupiterProvider(baseURL string, client *http.Client) *JupiterProvider {
	return &JupiterProvider{baseURL: baseURL, client: newProviderClient(client)}
}

func (p *JupiterProvider) Name() string { return "jupiter" }

func (p *JupiterProvider) Resolve(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	var result struct {
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
		LogoURI string `json:"logoURI"`
	}

	url := fmt.Sprintf("%s/%s", p.baseURL, mint)
	if err := fetchJSON(ctx, p.client, url, &result); err != nil {
		return nil, err
	}

	if result.Name == "" {
		return nil, nil
	}

	return &domain.TokenMetadata{
		Name:    result.Name,
		Symbol:  result.Symbol,
		LogoURI: result.LogoURI,
	}, nil
}

// DexScreenerProvider resolves metadata from the DexScreener pairs API.
type DexScreenerProvider struct {
	baseURL string
	client  *http.Client
}

// NewDexScreenerProvider creates a DexScreenerProvider.
func NewDexScreenerProvider(baseURL string, client *http.Client) *DexScreenerProvider {
	return &DexScreenerProvider{baseURL: baseURL, client: newProviderClient(client)}
}

func (p *DexScreenerProvider) Name() string { return "dexscreener" }

func (p *DexScreenerProvider) Resolve(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	var result struct {
		Pairs []struct {
			BaseToken struct {
				Address string `json:"address"`
				Name    string `json:"name"`
				Symbol  string `json:"symbol"`
			} `json:"baseToken"`
			Info struct {
				ImageURL string `json:"imageUrl"`
				Websites []struct {
					URL string `json:"url"`
				} `json:"websites"`
			} `json:"info"`
		} `json:"pairs"`
	}

	url := fmt.Sprintf("%s/%s", p.baseURL, mint)
	if err := fetchJSON(ctx, p.client, url, &result); err != nil {
		return nil, err
	}

	// The token can appear as base token of several pairs; take the
	// first pair whose base token matches the queried mint.
	for _, pair := range result.Pairs {
		if pair.BaseToken.Address != mint || pair.BaseToken.Name == "" {
			continue
		}
		meta := &domain.TokenMetadata{
			Name:    pair.BaseToken.Name,
			Symbol:  pair.BaseToken.Symbol,
			LogoURI: pair.Info.ImageURL,
		}
		if len(pair.Info.Websites) > 0 {
			meta.Website = pair.Info.Websites[0].URL
		}
		return meta, nil
	}

	return nil, nil
}

// SolscanProvider resolves metadata from the Solscan public API.
type SolscanProvider struct {
	baseURL string
	client  *http.Client
}

// NewSolscanProvider creates a SolscanProvider.
func NewSolscanProvider(baseURL string, client *http.Client) *SolscanProvider {
	return &SolscanProvider{baseURL: baseURL, client: newProviderClient(client)}
}

func (p *SolscanProvider) Name() string { return "solscan" }

func (p *SolscanProvider) Resolve(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	var result struct {
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
		Icon    string `json:"icon"`
		Website string `json:"website"`
	}

	url := fmt.Sprintf("%s?tokenAddress=%s", p.baseURL, mint)
	if err := fetchJSON(ctx, p.client, url, &result); err != nil {
		return nil, err
	}

	if result.Name == "" {
		return nil, nil
	}

	return &domain.TokenMetadata{
		Name:    result.Name,
		Symbol:  result.Symbol,
		LogoURI: result.Icon,
		Website: result.Website,
	}, nil
}
