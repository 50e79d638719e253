package chain

import (
	"math/big"
	"testing"

	broadcast "github.com/broadcastkit/engine"
	"github.com/ethereum/go-ethereum/common"
)

func TestToGethTxLegacy(t *testing.T) {
	to := "0x0000000000000000000000000000000000000001"
	final := &broadcast.FinalTransaction{
		AbstractTransaction: broadcast.AbstractTransaction{To: &to, Value: big.NewInt(5)},
		Nonce:               2,
		Gas:                 21000,
		Kind:                broadcast.TxLegacy,
		GasPrice:            big.NewInt(100),
	}

	tx, err := ToGethTx(final)
	if err != nil {
		t.Fatalf("ToGethTx: %v", err)
	}
	if tx.Nonce() != 2 {
		t.Errorf("Nonce() = %d, want 2", tx.Nonce())
	}
	if tx.GasPrice().Cmp(big.NewInt(100)) != 0 {
		t.Errorf("GasPrice() = %v, want 100", tx.GasPrice())
	}
	if tx.To() == nil || *tx.To() != common.HexToAddress(to) {
		t.Errorf("To() = %v, want %s", tx.To(), to)
	}
}

func TestToGethTxRejectsTyped712(t *testing.T) {
	final := &broadcast.FinalTransaction{Kind: broadcast.TxTyped712}
	if _, err := ToGethTx(final); err == nil {
		t.Fatal("expected an error for a typed-712 transaction")
	}
}

func TestAssembleTyped712RawPrependsTypeByte(t *testing.T) {
	final := &broadcast.FinalTransaction{
		AbstractTransaction: broadcast.AbstractTransaction{Value: big.NewInt(0)},
		ChainID:             324,
		Nonce:               1,
		Gas:                 100000,
		Kind:                broadcast.TxTyped712,
		GasFeeCap:           big.NewInt(1000),
		GasTipCap:           big.NewInt(10),
	}

	raw, err := AssembleTyped712Raw(final, []byte{1, 2, 3}, common.HexToAddress("0x1"))
	if err != nil {
		t.Fatalf("AssembleTyped712Raw: %v", err)
	}
	if len(raw) == 0 || raw[0] != Typed712TxType {
		t.Fatalf("raw[0] = %x, want type byte %x", raw[:1], Typed712TxType)
	}
}

func TestTyped712DomainUsesZkSyncPrimaryType(t *testing.T) {
	final := &broadcast.FinalTransaction{ChainID: 324, Kind: broadcast.TxTyped712}
	domain := Typed712Domain(final)
	if domain.PrimaryType != "Transaction" {
		t.Errorf("PrimaryType = %s, want Transaction", domain.PrimaryType)
	}
	if _, ok := domain.Types["Transaction"]; !ok {
		t.Error("expected a Transaction type definition")
	}
}
