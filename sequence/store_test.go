package sequence

import (
	"math/big"
	"path/filepath"
	"testing"

	broadcast "github.com/broadcastkit/engine"
)

func sampleTx() broadcast.TxWithMetadata {
	return broadcast.TxWithMetadata{
		Transaction: broadcast.FinalTransaction{
			AbstractTransaction: broadcast.AbstractTransaction{From: "0xabc", Value: big.NewInt(0)},
			ChainID:             1,
			Nonce:               0,
			Gas:                 21000,
			Kind:                broadcast.TxLegacy,
			GasPrice:            big.NewInt(1),
		},
		Hash: "0xdeadbeef",
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run-1.json")

	store := NewStore()
	seq := store.Create(path, 1)
	seq.Transactions = append(seq.Transactions, sampleTx())
	store.AddPending(seq, "0xdeadbeef")

	if err := store.Save(seq); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ChainID != 1 {
		t.Errorf("ChainID = %d, want 1", loaded.ChainID)
	}
	if len(loaded.Transactions) != 1 {
		t.Fatalf("Transactions = %d, want 1", len(loaded.Transactions))
	}
	if len(loaded.Pending) != 1 || loaded.Pending[0] != "0xdeadbeef" {
		t.Errorf("Pending = %v, want [0xdeadbeef]", loaded.Pending)
	}
}

func TestReceiptCountReflectsConfirmedPrefix(t *testing.T) {
	seq := &ScriptSequence{Transactions: []broadcast.TxWithMetadata{sampleTx(), sampleTx(), sampleTx()}}
	if got := seq.ReceiptCount(); got != 0 {
		t.Fatalf("ReceiptCount on fresh sequence = %d, want 0", got)
	}

	seq.Transactions[0].Receipt = &broadcast.Receipt{TransactionHash: "0x1", Status: 1}
	if got := seq.ReceiptCount(); got != 1 {
		t.Fatalf("ReceiptCount after one receipt = %d, want 1", got)
	}

	seq.Transactions[1].Receipt = &broadcast.Receipt{TransactionHash: "0x2", Status: 1}
	seq.Transactions[2].Receipt = &broadcast.Receipt{TransactionHash: "0x3", Status: 1}
	if got := seq.ReceiptCount(); got != 3 {
		t.Fatalf("ReceiptCount after all receipts = %d, want 3", got)
	}
}

func TestAddReceiptRemovesFromPending(t *testing.T) {
	store := NewStore()
	seq := store.Create(filepath.Join(t.TempDir(), "seq.json"), 1)
	seq.Transactions = append(seq.Transactions, sampleTx())
	store.AddPending(seq, "0xdeadbeef")

	store.AddReceipt(seq, 0, broadcast.Receipt{TransactionHash: "0xdeadbeef", Status: 1})

	if seq.Transactions[0].Receipt == nil {
		t.Fatal("expected receipt to be attached")
	}
	if len(seq.Pending) != 0 {
		t.Errorf("Pending = %v, want empty after receipt confirmed", seq.Pending)
	}
}

func TestLoadRejectsRecordMissingRequiredFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := atomicWriteJSON(path, map[string]interface{}{"transactions": []interface{}{}}); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	store := NewStore()
	if _, err := store.Load(path); err == nil {
		t.Fatal("expected a schema validation error for a record missing chain_id/version")
	}
}
