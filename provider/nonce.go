package provider

import (
	"context"
	"sync"

	broadcast "github.com/broadcastkit/engine"
	"github.com/ethereum/go-ethereum/common"
)

// NonceOracle hands out sequential nonces for finalization without a
// round trip per transaction: it queries the latest-block nonce once per
// address and endpoint, then counts up locally as transactions are
// finalized within a single run.
type NonceOracle struct {
	registry *Registry
	mu       sync.Mutex
	next     map[string]uint64 // key: endpointURL + "|" + address
}

// NewNonceOracle returns a NonceOracle backed by registry.
func NewNonceOracle(registry *Registry) *NonceOracle {
	return &NonceOracle{registry: registry, next: make(map[string]uint64)}
}

func nonceKey(endpointURL, address string) string { return endpointURL + "|" + address }

// Next returns the next nonce to use for address on endpointURL, seeding
// from the chain's latest-block nonce on first use for that pair.
func (o *NonceOracle) Next(ctx context.Context, endpointURL, address string) (uint64, error) {
	key := nonceKey(endpointURL, address)

	o.mu.Lock()
	defer o.mu.Unlock()

	if n, ok := o.next[key]; ok {
		o.next[key] = n + 1
		return n, nil
	}

	eth, err := o.registry.EthClient(endpointURL)
	if err != nil {
		return 0, err
	}
	n, err := eth.NonceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return 0, broadcast.NewNonceQueryFailedError(address, err)
	}

	o.next[key] = n + 1
	return n, nil
}

// Reset drops the cached next-nonce for address on endpointURL, forcing
// the next Next call to re-query the chain. The broadcaster calls it
// after a failed send so the unused nonce is not skipped.
func (o *NonceOracle) Reset(endpointURL, address string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.next, nonceKey(endpointURL, address))
}

// Verify checks that the on-chain nonce for address still matches
// expected, returning a *broadcast.NonceDriftError if it has drifted
// (e.g. a competing process sent a transaction from the same account).
func (o *NonceOracle) Verify(ctx context.Context, endpointURL, address string, expected uint64) error {
	eth, err := o.registry.EthClient(endpointURL)
	if err != nil {
		return err
	}
	observed, err := eth.NonceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return broadcast.NewNonceQueryFailedError(address, err)
	}
	if observed != expected {
		return &broadcast.NonceDriftError{Address: address, Expected: expected, Observed: observed}
	}
	return nil
}
