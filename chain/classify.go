// Package chain holds the per-chain classification tables and the
// transaction shapes (legacy, fee-market, typed-712) that a finalized,
// sign-ready transaction can take. It mirrors the "mechanisms/evm"
// layering of the payment-protocol teacher this engine is built from:
// chain-specific behavior lives in one small package instead of being
// smeared across the broadcaster with type switches at every call site.
package chain

// Class is the static, per-chain-id behavior table entry described in
// §9's design note: implementations should encode chain divergence as
// immutable lookup tables, not dynamic polymorphism.
type Class struct {
	// IsLegacy forces legacy (type-0) transactions even on chains that
	// otherwise support EIP-1559.
	IsLegacy bool
	// SupportsBatching reports whether the chain tolerates concurrent,
	// out-of-order-submission transactions from a single signer (e.g.
	// Arbitrum's sequencer does not, so it forces sequential broadcast).
	SupportsBatching bool
	// DifferentGasCalc marks chains whose gas estimation depends on
	// mempool or other in-flight state, forcing a re-estimate
	// immediately before every sequential send.
	DifferentGasCalc bool
	// Typed712 marks chains that use the EIP-712-style custom
	// transaction type (factory dependencies, paymaster metadata, a
	// leading type byte on the wire).
	Typed712 bool
}

// classes is the immutable lookup table. Unknown chain ids fall back to
// DefaultClass (fee-market, batching, standard gas calc).
var classes = map[uint64]Class{
	1:     {SupportsBatching: true},                     // Ethereum mainnet
	11155111: {SupportsBatching: true},                  // Sepolia
	137:   {SupportsBatching: true},                      // Polygon PoS
	56:    {IsLegacy: true, SupportsBatching: true},      // BNB Smart Chain
	10:    {SupportsBatching: true, DifferentGasCalc: true}, // Optimism
	8453:  {SupportsBatching: true, DifferentGasCalc: true}, // Base
	42161: {DifferentGasCalc: true},                      // Arbitrum One: no batching
	421614: {DifferentGasCalc: true},                     // Arbitrum Sepolia
	324:   {DifferentGasCalc: true, Typed712: true},       // zkSync Era
	300:   {DifferentGasCalc: true, Typed712: true},       // zkSync Sepolia
}

// DefaultClass is used for any chain id with no explicit table entry.
var DefaultClass = Class{SupportsBatching: true}

// ClassFor returns the classification for a chain id, falling back to
// DefaultClass for chains not in the table.
func ClassFor(chainID uint64) Class {
	if c, ok := classes[chainID]; ok {
		return c
	}
	return DefaultClass
}

// IsLegacy reports whether chainID should receive legacy transactions
// absent any other override.
func IsLegacy(chainID uint64) bool { return ClassFor(chainID).IsLegacy }

// SupportsBatching reports whether chainID tolerates parallel submission.
func SupportsBatching(chainID uint64) bool { return ClassFor(chainID).SupportsBatching }

// DifferentGasCalc reports whether chainID requires a gas re-estimate
// immediately before each send.
func DifferentGasCalc(chainID uint64) bool { return ClassFor(chainID).DifferentGasCalc }

// UsesTyped712 reports whether chainID uses the custom EIP-712-style
// transaction type.
func UsesTyped712(chainID uint64) bool { return ClassFor(chainID).Typed712 }
