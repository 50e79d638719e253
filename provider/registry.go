// Package provider manages per-endpoint JSON-RPC clients: lazy
// connection, nonce lookups, gas estimation and concurrent reachability
// checks. It is the only package that talks to the network directly.
package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	broadcast "github.com/broadcastkit/engine"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Info describes a single RPC endpoint as supplied on the CLI or in a
// multi-chain config file.
type Info struct {
	ChainID uint64
	URL     string
	// Label is an optional human name reported in progress output
	// ("mainnet", "op-sepolia", ...).
	Label string
}

// client bundles the two handles a connected endpoint needs: ethclient
// for the typed surface (BalanceAt, EstimateGas, ...) and the raw
// *rpc.Client underneath it for calls ethclient doesn't expose
// (zks_estimateFee, eth_sendTransaction against an unlocked account, a
// pre-encoded typed-712 eth_sendRawTransaction).
type client struct {
	eth *ethclient.Client
	rpc *rpc.Client
}

// Registry is a thread-safe, lazily-populated cache of connections keyed
// by endpoint URL, so the same RPC connection is reused across every
// nonce lookup, gas estimate and submission that targets it.
type Registry struct {
	mu      sync.Mutex
	clients map[string]*client
	dialCtx func() (context.Context, context.CancelFunc)
}

// NewRegistry returns an empty Registry. Each dial gets a fresh
// 10-second context.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]*client),
		dialCtx: func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 10*time.Second)
		},
	}
}

func (r *Registry) get(endpointURL string) (*client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[endpointURL]; ok {
		return c, nil
	}

	ctx, cancel := r.dialCtx()
	defer cancel()

	rpcClient, err := rpc.DialContext(ctx, endpointURL)
	if err != nil {
		return nil, broadcast.NewRpcError(endpointURL, "dial", err)
	}

	c := &client{eth: ethclient.NewClient(rpcClient), rpc: rpcClient}
	r.clients[endpointURL] = c
	return c, nil
}

// EthClient returns the ethclient.Client for endpointURL, dialing lazily
// on first use.
func (r *Registry) EthClient(endpointURL string) (*ethclient.Client, error) {
	c, err := r.get(endpointURL)
	if err != nil {
		return nil, err
	}
	return c.eth, nil
}

// RPCClient returns the underlying *rpc.Client for endpointURL, used for
// vendor calls ethclient doesn't wrap.
func (r *Registry) RPCClient(endpointURL string) (*rpc.Client, error) {
	c, err := r.get(endpointURL)
	if err != nil {
		return nil, err
	}
	return c.rpc, nil
}

// Close tears down every dialed connection. Safe to call once at
// shutdown; not safe to call concurrently with other Registry methods.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		c.rpc.Close()
	}
	r.clients = make(map[string]*client)
}

// PreflightResult is one endpoint's reachability outcome.
type PreflightResult struct {
	Info    Info
	ChainID uint64
	Err     error
}

// PreflightCheck dials every endpoint concurrently and confirms its
// reported chain id matches the configured one, surfacing misconfigured
// endpoints before any transaction is finalized. Mirrors the
// WaitGroup-plus-buffered-channel fan-out used for concurrent health
// checks elsewhere in this stack.
func (r *Registry) PreflightCheck(ctx context.Context, endpoints []Info) []PreflightResult {
	results := make(chan PreflightResult, len(endpoints))
	var wg sync.WaitGroup

	for _, ep := range endpoints {
		wg.Add(1)
		go func(ep Info) {
			defer wg.Done()
			eth, err := r.EthClient(ep.URL)
			if err != nil {
				results <- PreflightResult{Info: ep, Err: err}
				return
			}
			gotID, err := eth.ChainID(ctx)
			if err != nil {
				results <- PreflightResult{Info: ep, Err: broadcast.NewRpcError(ep.URL, "eth_chainId", err)}
				return
			}
			if gotID.Uint64() != ep.ChainID {
				results <- PreflightResult{Info: ep, ChainID: gotID.Uint64(), Err: fmt.Errorf("endpoint %s reports chain id %d, configured as %d", ep.URL, gotID.Uint64(), ep.ChainID)}
				return
			}
			results <- PreflightResult{Info: ep, ChainID: gotID.Uint64()}
		}(ep)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]PreflightResult, 0, len(endpoints))
	for res := range results {
		out = append(out, res)
	}
	return out
}
