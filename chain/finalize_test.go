package chain

import (
	"math/big"
	"testing"

	broadcast "github.com/broadcastkit/engine"
)

func TestFinalizeLegacyChainUsesGasPrice(t *testing.T) {
	f := Finalizer{}
	to := "0x00000000000000000000000000000000000001"
	abstract := broadcast.AbstractTransaction{From: "0xabc", To: &to, Value: big.NewInt(0)}

	final := f.Finalize(abstract, 56, 3, 21000, FeePricing{GasPrice: big.NewInt(5_000_000_000)}, broadcast.Typed712Meta{})

	if final.Kind != broadcast.TxLegacy {
		t.Fatalf("Kind = %v, want TxLegacy", final.Kind)
	}
	if final.GasPrice.Cmp(big.NewInt(5_000_000_000)) != 0 {
		t.Errorf("GasPrice = %v, want 5000000000", final.GasPrice)
	}
	if final.Nonce != 3 {
		t.Errorf("Nonce = %d, want 3", final.Nonce)
	}
}

func TestFinalizeForceLegacyOverridesClassification(t *testing.T) {
	f := Finalizer{Opts: broadcast.Options{Legacy: true, WithGasPrice: big.NewInt(1)}}
	abstract := broadcast.AbstractTransaction{From: "0xabc", Value: big.NewInt(0)}

	final := f.Finalize(abstract, 1, 0, 21000, FeePricing{GasPrice: big.NewInt(9)}, broadcast.Typed712Meta{})

	if final.Kind != broadcast.TxLegacy {
		t.Fatalf("Kind = %v, want TxLegacy under --legacy override", final.Kind)
	}
	if final.GasPrice.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("WithGasPrice override not applied: GasPrice = %v", final.GasPrice)
	}
}

func TestFinalizeTypedChainUsesTyped712(t *testing.T) {
	f := Finalizer{}
	abstract := broadcast.AbstractTransaction{From: "0xabc", Value: big.NewInt(0)}
	meta := broadcast.Typed712Meta{FactoryDeps: [][]byte{{1, 2, 3}}}

	final := f.Finalize(abstract, 324, 0, 100000, FeePricing{GasFeeCap: big.NewInt(1000), GasTipCap: big.NewInt(10)}, meta)

	if final.Kind != broadcast.TxTyped712 {
		t.Fatalf("Kind = %v, want TxTyped712", final.Kind)
	}
	if len(final.Typed712.FactoryDeps) != 1 {
		t.Errorf("factory deps not carried through: %v", final.Typed712.FactoryDeps)
	}
}

func TestApplyGasMultiplier(t *testing.T) {
	if got := ApplyGasMultiplier(100000, 130); got != 130000 {
		t.Errorf("ApplyGasMultiplier(100000, 130) = %d, want 130000", got)
	}
	if got := ApplyGasMultiplier(100000, 0); got != 100000 {
		t.Errorf("ApplyGasMultiplier(100000, 0) = %d, want 100000 (0 means no multiplier)", got)
	}
}
