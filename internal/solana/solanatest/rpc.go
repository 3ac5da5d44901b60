// Package solanatest provides an in-memory RPCClient fake for tests.
package solanatest

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"strconv"
	"sync"

	"solana-trust-scan/internal/solana"
)

// ErrUnavailable simulates an endpoint failure.
var ErrUnavailable = errors.New("endpoint unavailable")

// RPCClient implements solana.RPCClient backed by maps.
// Setting Fail makes every call return ErrUnavailable, which is how
// pool fallback tests simulate a dead endpoint.
type RPCClient struct {
	mu sync.Mutex

	Accounts        map[string]*solana.AccountInfo
	Balances        map[string]uint64
	Supplies        map[string]*solana.TokenAmount
	TokenBalances   map[string]*solana.TokenAmount
	Signatures      map[string][]solana.SignatureInfo
	Transactions    map[string]*solana.Transaction
	ProgramAccounts map[string][]solana.ProgramAccount
	Slot            int64

	Fail bool
	// FailMethods fails individual methods by name, e.g.
	// "getProgramAccounts", while the rest keep working.
	FailMethods map[string]bool

	calls int
}

// NewRPCClient creates an empty fake client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Accounts:        make(map[string]*solana.AccountInfo),
		Balances:        make(map[string]uint64),
		Supplies:        make(map[string]*solana.TokenAmount),
		TokenBalances:   make(map[string]*solana.TokenAmount),
		Signatures:      make(map[string][]solana.SignatureInfo),
		Transactions:    make(map[string]*solana.Transaction),
		ProgramAccounts: make(map[string][]solana.ProgramAccount),
	}
}

// Calls reports how many RPC calls this client received.
func (c *RPCClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *RPCClient) record(method string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.Fail || c.FailMethods[method] {
		return ErrUnavailable
	}
	return nil
}

func (c *RPCClient) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	if err := c.record("getAccountInfo"); err != nil {
		return nil, err
	}
	return c.Accounts[pubkey], nil
}

func (c *RPCClient) GetBalance(_ context.Context, pubkey string) (uint64, error) {
	if err := c.record("getBalance"); err != nil {
		return 0, err
	}
	return c.Balances[pubkey], nil
}

func (c *RPCClient) GetTokenSupply(_ context.Context, mint string) (*solana.TokenAmount, error) {
	if err := c.record("getTokenSupply"); err != nil {
		return nil, err
	}
	if s, ok := c.Supplies[mint]; ok {
		return s, nil
	}
	return &solana.TokenAmount{Amount: "0"}, nil
}

func (c *RPCClient) GetTokenAccountBalance(_ context.Context, account string) (*solana.TokenAmount, error) {
	if err := c.record("getTokenAccountBalance"); err != nil {
		return nil, err
	}
	if b, ok := c.TokenBalances[account]; ok {
		return b, nil
	}
	return &solana.TokenAmount{Amount: "0"}, nil
}

func (c *RPCClient) GetSignaturesForAddress(_ context.Context, address string, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error) {
	if err := c.record("getSignaturesForAddress"); err != nil {
		return nil, err
	}
	sigs := c.Signatures[address]
	if opts != nil && opts.Limit > 0 && opts.Limit < len(sigs) {
		return sigs[:opts.Limit], nil
	}
	return sigs, nil
}

func (c *RPCClient) GetTransaction(_ context.Context, signature string) (*solana.Transaction, error) {
	if err := c.record("getTransaction"); err != nil {
		return nil, err
	}
	return c.Transactions[signature], nil
}

func (c *RPCClient) GetProgramAccounts(_ context.Context, programID string, _ *solana.ProgramAccountsOpts) ([]solana.ProgramAccount, error) {
	if err := c.record("getProgramAccounts"); err != nil {
		return nil, err
	}
	return c.ProgramAccounts[programID], nil
}

func (c *RPCClient) GetSlot(_ context.Context) (int64, error) {
	if err := c.record("getSlot"); err != nil {
		return 0, err
	}
	return c.Slot, nil
}

// SetTokenBalance registers a token account balance from a raw amount.
func (c *RPCClient) SetTokenBalance(account string, amount uint64, decimals int) {
	div := 1.0
	for i := 0; i < decimals; i++ {
		div *= 10
	}
	c.TokenBalances[account] = &solana.TokenAmount{
		Amount:   strconv.FormatUint(amount, 10),
		Decimals: decimals,
		UIAmount: float64(amount) / div,
	}
}

// MintAccountData builds base64-encoded SPL mint account bytes for use
// as AccountInfo.Data. A nil authority encodes the renounced state.
func MintAccountData(supply uint64, decimals byte, mintAuthority, freezeAuthority []byte) string {
	data := make([]byte, solana.MintAccountSize)
	if mintAuthority != nil {
		binary.LittleEndian.PutUint32(data[0:4], 1)
		copy(data[4:36], mintAuthority)
	}
	binary.LittleEndian.PutUint64(data[36:44], supply)
	data[44] = decimals
	data[45] = 1 // initialized
	if freezeAuthority != nil {
		binary.LittleEndian.PutUint32(data[46:50], 1)
		copy(data[50:82], freezeAuthority)
	}
	return base64.StdEncoding.EncodeToString(data)
}

var _ solana.RPCClient = (*RPCClient)(nil)
