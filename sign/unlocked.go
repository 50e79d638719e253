package sign

import (
	"context"
	"strings"

	broadcast "github.com/broadcastkit/engine"
	"github.com/broadcastkit/engine/provider"
)

// Unlocked delegates both signing and submission to the RPC endpoint's
// own account management via eth_sendTransaction, for nodes running
// with an unlocked account (--unlocked). No private key material ever
// enters this process.
type Unlocked struct {
	address  string
	registry *provider.Registry
}

// NewUnlocked returns an Unlocked signer for address, which must already
// be unlocked on every endpoint it is used against.
func NewUnlocked(address string, registry *provider.Registry) *Unlocked {
	return &Unlocked{address: address, registry: registry}
}

// NewUnlockedSignerMap returns a broadcast.SignerMap with one Unlocked
// signer per address, keyed the way broadcast.SignerMap.Resolve looks
// addresses up (lower-cased). Used for the --unlocked dispatch path,
// where every distinct sender a script produces transactions for still
// routes through a single per-address lookup rather than one signer
// threaded through by hand.
func NewUnlockedSignerMap(addresses []string, registry *provider.Registry) broadcast.SignerMap {
	out := make(broadcast.SignerMap, len(addresses))
	for _, addr := range addresses {
		out[strings.ToLower(addr)] = NewUnlocked(addr, registry)
	}
	return out
}

// Address returns the account this signer sends on behalf of.
func (s *Unlocked) Address() string { return s.address }

// SignAndSend asks endpointURL to sign and submit tx itself.
func (s *Unlocked) SignAndSend(endpointURL string, tx *broadcast.FinalTransaction) (string, error) {
	rpcClient, err := s.registry.RPCClient(endpointURL)
	if err != nil {
		return "", err
	}

	args := map[string]interface{}{
		"from":  s.address,
		"nonce": hexUint64(tx.Nonce),
		"gas":   hexUint64(tx.Gas),
		"data":  hexBytes(tx.Input),
	}
	if tx.To != nil {
		args["to"] = *tx.To
	}
	if tx.Value != nil {
		args["value"] = hexBig(tx.Value)
	}
	switch tx.Kind {
	case broadcast.TxLegacy:
		args["gasPrice"] = hexBig(tx.GasPrice)
	default:
		args["maxFeePerGas"] = hexBig(tx.GasFeeCap)
		args["maxPriorityFeePerGas"] = hexBig(tx.GasTipCap)
	}

	var txHash string
	if err := rpcClient.CallContext(context.Background(), &txHash, "eth_sendTransaction", args); err != nil {
		return "", broadcast.NewRpcError(endpointURL, "eth_sendTransaction", err)
	}
	return txHash, nil
}
