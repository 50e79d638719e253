package chain

import (
	"math/big"

	broadcast "github.com/broadcastkit/engine"
)

// FeePricing carries the gas price inputs a GasEstimator has already
// gathered for a chain; Finalizer only picks which of them apply to the
// wire shape the chain's classification calls for.
type FeePricing struct {
	GasPrice  *big.Int // legacy
	GasFeeCap *big.Int // eip-1559 / typed-712
	GasTipCap *big.Int // eip-1559 / typed-712
}

// Finalizer turns an AbstractTransaction into a FinalTransaction ready
// for signing, applying the chain classification table from classify.go
// and any user overrides from broadcast.Options.
type Finalizer struct {
	Opts broadcast.Options
}

// Finalize assigns chain id, nonce, gas limit and pricing, and tags the
// result with the wire shape (legacy / fee-market / typed-712) the
// target chain requires.
func (f Finalizer) Finalize(tx broadcast.AbstractTransaction, chainID, nonce, gas uint64, pricing FeePricing, meta broadcast.Typed712Meta) broadcast.FinalTransaction {
	final := broadcast.FinalTransaction{
		AbstractTransaction: tx,
		ChainID:             chainID,
		Nonce:               nonce,
		Gas:                 gas,
	}

	class := ClassFor(chainID)
	legacy := class.IsLegacy || f.Opts.Legacy

	switch {
	case class.Typed712:
		final.Kind = broadcast.TxTyped712
		// Some typed-712 endpoints still expect gasPrice populated
		// alongside the fee-market fields; attach both.
		final.GasPrice = pricing.GasPrice
		final.GasFeeCap = pricing.GasFeeCap
		final.GasTipCap = pricing.GasTipCap
		final.Typed712 = meta
	case legacy:
		final.Kind = broadcast.TxLegacy
		final.GasPrice = pricing.GasPrice
		if f.Opts.WithGasPrice != nil {
			final.GasPrice = f.Opts.WithGasPrice
		}
	default:
		final.Kind = broadcast.TxFeeMarket
		final.GasFeeCap = pricing.GasFeeCap
		final.GasTipCap = pricing.GasTipCap
		if f.Opts.PriorityGasPrice != nil {
			final.GasTipCap = f.Opts.PriorityGasPrice
		}
	}

	return final
}

// ApplyGasMultiplier scales a raw eth_estimateGas result by percent
// (e.g. 130 for a 30% headroom), rounding down, matching the
// gas-estimate-multiplier behavior forge script exposes.
func ApplyGasMultiplier(rawGas uint64, percent uint64) uint64 {
	if percent == 0 {
		percent = 100
	}
	scaled := new(big.Int).Mul(new(big.Int).SetUint64(rawGas), new(big.Int).SetUint64(percent))
	scaled.Div(scaled, big.NewInt(100))
	return scaled.Uint64()
}
