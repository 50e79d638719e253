package broadcast

import "math/big"

// AbstractTransaction is a single on-chain call emitted by a deployment
// script before any chain-specific finalization: it names a sender and
// carries just enough information (target, value, calldata) to be
// finalized once the target chain and its current gas market are known.
type AbstractTransaction struct {
	// From is the sender address, lower-case hex with 0x prefix.
	From string `json:"from"`
	// To is nil for a contract-creation transaction.
	To *string `json:"to,omitempty"`
	// Value is the wei amount attached to the call.
	Value *big.Int `json:"value,omitempty"`
	// Input is the call data (constructor args + bytecode for creation).
	Input []byte `json:"input,omitempty"`
	// ContractName, when non-empty, is reported in progress output and
	// sequence records; it has no on-chain meaning.
	ContractName string `json:"contract_name,omitempty"`
	// IsCreate marks a contract-creation transaction.
	IsCreate bool `json:"is_create,omitempty"`
	// Gas, when non-nil, is a pre-computed gas limit the broadcaster
	// must use as-is rather than calling eth_estimateGas/estimateFee;
	// it becomes TxWithMetadata.IsFixedGasLimit once finalized.
	Gas *uint64 `json:"gas,omitempty"`
	// RPCEndpoint, when non-nil, routes this transaction to a specific
	// RPC endpoint. MultiChainCoordinator uses it to split the abstract
	// transaction stream into contiguous same-endpoint runs; absent, it
	// falls back to the chain's configured default endpoint.
	RPCEndpoint *string `json:"rpc_endpoint,omitempty"`
	// Typed712 carries factory dependencies and paymaster metadata for
	// a typed-712 chain; zero-valued for legacy/fee-market sends.
	Typed712 Typed712Meta `json:"typed712,omitempty"`
}

// TxKind tags which wire shape a FinalTransaction carries.
type TxKind int

const (
	// TxLegacy is a type-0 transaction with a single gas price.
	TxLegacy TxKind = iota
	// TxFeeMarket is an EIP-1559 type-2 transaction with separate base
	// and priority fee caps.
	TxFeeMarket
	// TxTyped712 is the EIP-712-style custom transaction type used by
	// zkSync-family chains, carrying factory dependencies and optional
	// paymaster metadata.
	TxTyped712
)

// Typed712Meta carries the fields unique to the custom EIP-712
// transaction type. Left zero-valued for TxLegacy and TxFeeMarket.
type Typed712Meta struct {
	// FactoryDeps are additional bytecode blobs a contract-creation
	// transaction depends on (e.g. bytecode of contracts deployed via
	// CREATE from within the constructor).
	FactoryDeps [][]byte `json:"factory_deps,omitempty"`
	// PaymasterAddress, when non-nil, delegates fee payment.
	PaymasterAddress *string `json:"paymaster_address,omitempty"`
	// PaymasterInput is the paymaster's calldata, opaque to this engine.
	PaymasterInput []byte `json:"paymaster_input,omitempty"`
}

// FinalTransaction is an AbstractTransaction finalized against a
// specific chain: nonce assigned, gas priced, and tagged with the wire
// shape required by that chain's classification (see package chain).
type FinalTransaction struct {
	AbstractTransaction

	ChainID uint64 `json:"chain_id"`
	Nonce   uint64 `json:"nonce"`
	Gas     uint64 `json:"gas"`
	Kind    TxKind `json:"kind"`

	// GasPrice is populated for TxLegacy; chain.Finalizer also copies it
	// onto TxTyped712 when the pricing it is given carries one.
	GasPrice *big.Int `json:"gas_price,omitempty"`
	// GasFeeCap and GasTipCap are populated for TxFeeMarket and
	// TxTyped712 only.
	GasFeeCap *big.Int `json:"gas_fee_cap,omitempty"`
	GasTipCap *big.Int `json:"gas_tip_cap,omitempty"`

	Typed712 Typed712Meta `json:"typed712,omitempty"`
}

// EstimatedCost returns the worst-case wei cost of this transaction,
// using the fee cap for fee-market and typed-712 shapes.
func (t *FinalTransaction) EstimatedCost() *big.Int {
	price := t.GasPrice
	if price == nil {
		price = t.GasFeeCap
	}
	if price == nil {
		return new(big.Int)
	}
	cost := new(big.Int).Mul(price, new(big.Int).SetUint64(t.Gas))
	if t.Value == nil {
		return cost
	}
	return cost.Add(cost, t.Value)
}

// TxWithMetadata pairs a finalized transaction with the bookkeeping the
// engine accumulates as it moves from "submitted" to "confirmed": the
// resulting hash once sent and the receipt once confirmed.
type TxWithMetadata struct {
	Transaction FinalTransaction `json:"transaction"`
	Hash        string           `json:"hash,omitempty"`
	// Receipt is nil until the transaction is confirmed on-chain.
	Receipt *Receipt `json:"receipt,omitempty"`
	// RPCEndpoint is the endpoint this transaction was actually
	// submitted to.
	RPCEndpoint string `json:"rpc_endpoint,omitempty"`
	// IsFixedGasLimit reports whether Transaction.Gas came from the
	// originating AbstractTransaction's pre-set Gas field rather than a
	// live eth_estimateGas/estimateFee call, freezing it against
	// re-estimation on retry.
	IsFixedGasLimit bool `json:"is_fixed_gas_limit,omitempty"`
}

// Receipt is the subset of an eth_getTransactionReceipt response this
// engine persists and reports on.
type Receipt struct {
	TransactionHash   string   `json:"transaction_hash"`
	BlockNumber       uint64   `json:"block_number"`
	GasUsed           uint64   `json:"gas_used"`
	EffectiveGasPrice *big.Int `json:"effective_gas_price,omitempty"`
	Status            uint64   `json:"status"`
	ContractAddress   *string  `json:"contract_address,omitempty"`
}

// Options is the CLI surface contract: every flag a script invocation
// accepts that changes broadcast behavior, gathered into one struct so
// internal/config and cmd/txbroadcast share a single source of truth.
type Options struct {
	// Broadcast, when false, runs simulation/dry-run only: no
	// transaction is ever sent and the broadcaster saves no per-chain
	// sequence file (the coordinator still writes the bundle file).
	Broadcast bool
	// Unlocked names sending via the remote node's own account
	// management (eth_sendTransaction) instead of signing locally. No
	// package reads this field; cmd/txbroadcast takes that choice from
	// config.Config.Unlocked.
	Unlocked bool
	// Slow forces sequential (await-each-receipt) submission even on
	// chains whose classification would otherwise allow batching.
	Slow bool
	// SkipSimulation mirrors the skip-simulation flag. No package reads
	// it; it does not change when gas is estimated.
	SkipSimulation bool
	// Verify mirrors the verify flag. No package reads it; no source
	// verification is performed.
	Verify bool
	// Legacy forces type-0 transactions on every chain whose
	// classification is not typed-712; typed-712 chains still finalize
	// as TxTyped712.
	Legacy bool
	// WithGasPrice overrides the legacy gas price, in wei.
	WithGasPrice *big.Int
	// PriorityGasPrice overrides the EIP-1559 priority fee, in wei.
	PriorityGasPrice *big.Int
	// GasEstimateMultiplier is the percent multiplier applied to a raw
	// eth_estimateGas result; zero means no multiplier (100%).
	// cmd/txbroadcast's flag defaults it to DefaultGasEstimateMultiplier.
	GasEstimateMultiplier uint64
	// Sender mirrors the sender flag. No package reads it; transactions
	// are not filtered by From.
	Sender *string
	// Resume is set by cmd/txbroadcast's --resume flag. No package reads
	// it: every run creates new sequence files rather than loading an
	// existing one.
	Resume bool
	// TimeoutSeconds bounds how long receipt polling waits before giving up,
	// in seconds. Zero means no timeout.
	TimeoutSeconds uint64
}
