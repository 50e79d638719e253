package provider

import (
	"context"
	"math/big"

	broadcast "github.com/broadcastkit/engine"
	"github.com/broadcastkit/engine/chain"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// GasEstimator queries eth_estimateGas and the EIP-1559 fee market for a
// single endpoint, applying the configured headroom multiplier to raw
// gas estimates.
type GasEstimator struct {
	registry   *Registry
	multiplier uint64
}

// NewGasEstimator returns a GasEstimator backed by registry, applying
// multiplierPercent (e.g. 130 for 30% headroom; 0 means no multiplier)
// to every raw eth_estimateGas result.
func NewGasEstimator(registry *Registry, multiplierPercent uint64) *GasEstimator {
	return &GasEstimator{registry: registry, multiplier: multiplierPercent}
}

// EstimateGas runs eth_estimateGas for the abstract transaction against
// endpointURL and scales the result by the configured multiplier.
func (g *GasEstimator) EstimateGas(ctx context.Context, endpointURL string, tx broadcast.AbstractTransaction) (uint64, error) {
	eth, err := g.registry.EthClient(endpointURL)
	if err != nil {
		return 0, err
	}

	msg := ethereum.CallMsg{
		From:  common.HexToAddress(tx.From),
		Value: tx.Value,
		Data:  tx.Input,
	}
	if tx.To != nil {
		to := common.HexToAddress(*tx.To)
		msg.To = &to
	}

	raw, err := eth.EstimateGas(ctx, msg)
	if err != nil {
		return 0, broadcast.NewGasEstimationError(err)
	}

	return chain.ApplyGasMultiplier(raw, g.multiplier), nil
}

// EstimateFeeMarket returns the EIP-1559 fee cap and priority fee cap to
// use for the next transaction on endpointURL: the priority fee comes
// from eth_maxPriorityFeePerGas, the fee cap from doubling the latest
// block's base fee and adding the priority fee, which tolerates one or
// two blocks of base-fee growth between estimation and inclusion.
func (g *GasEstimator) EstimateFeeMarket(ctx context.Context, endpointURL string) (feeCap, tipCap *big.Int, err error) {
	eth, err := g.registry.EthClient(endpointURL)
	if err != nil {
		return nil, nil, err
	}

	tipCap, err = eth.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, nil, broadcast.NewFeeMarketUnsupportedError(0, err)
	}

	header, err := eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, nil, broadcast.NewRpcError(endpointURL, "eth_getBlockByNumber", err)
	}
	if header.BaseFee == nil {
		return nil, nil, broadcast.NewFeeMarketUnsupportedError(0, errChainHasNoBaseFee)
	}

	feeCap = new(big.Int).Add(new(big.Int).Mul(header.BaseFee, big.NewInt(2)), tipCap)
	return feeCap, tipCap, nil
}

// EstimateLegacyGasPrice returns the legacy eth_gasPrice suggestion for
// endpointURL.
func (g *GasEstimator) EstimateLegacyGasPrice(ctx context.Context, endpointURL string) (*big.Int, error) {
	eth, err := g.registry.EthClient(endpointURL)
	if err != nil {
		return nil, err
	}
	price, err := eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, broadcast.NewRpcError(endpointURL, "eth_gasPrice", err)
	}
	return price, nil
}

// Fee712 is the decoded result of the vendor zks_estimateFee call:
// everything a typed-712 transaction needs priced in one round trip.
type Fee712 struct {
	GasLimit             uint64
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// EstimateFee712 calls the zks_estimateFee vendor RPC method typed-712
// chains (zkSync Era and its testnets) expose in place of
// eth_estimateGas plus a separate fee-market query: one call returns the
// gas limit and both EIP-1559-style fee caps the network expects.
// gasLimit is scaled by the configured headroom multiplier the same way
// EstimateGas scales eth_estimateGas.
func (g *GasEstimator) EstimateFee712(ctx context.Context, endpointURL string, tx broadcast.AbstractTransaction) (Fee712, error) {
	rpcClient, err := g.registry.RPCClient(endpointURL)
	if err != nil {
		return Fee712{}, err
	}

	req := map[string]interface{}{
		"from": common.HexToAddress(tx.From).Hex(),
	}
	if tx.To != nil {
		req["to"] = common.HexToAddress(*tx.To).Hex()
	}
	if tx.Value != nil {
		req["value"] = hexutil.EncodeBig(tx.Value)
	}
	if len(tx.Input) > 0 {
		req["data"] = hexutil.Encode(tx.Input)
	}

	var resp struct {
		GasLimit             hexutil.Uint64 `json:"gas_limit"`
		MaxFeePerGas         hexutil.Big    `json:"max_fee_per_gas"`
		MaxPriorityFeePerGas hexutil.Big    `json:"max_priority_fee_per_gas"`
	}
	if err := rpcClient.CallContext(ctx, &resp, "zks_estimateFee", req); err != nil {
		return Fee712{}, broadcast.NewGasEstimationError(broadcast.NewRpcError(endpointURL, "zks_estimateFee", err))
	}

	return Fee712{
		GasLimit:             chain.ApplyGasMultiplier(uint64(resp.GasLimit), g.multiplier),
		MaxFeePerGas:         (*big.Int)(&resp.MaxFeePerGas),
		MaxPriorityFeePerGas: (*big.Int)(&resp.MaxPriorityFeePerGas),
	}, nil
}

var errChainHasNoBaseFee = chainHasNoBaseFeeError{}

type chainHasNoBaseFeeError struct{}

func (chainHasNoBaseFeeError) Error() string {
	return "endpoint's latest block has no base fee; chain predates eip-1559"
}
