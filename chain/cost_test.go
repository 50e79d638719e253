package chain

import (
	"math/big"
	"testing"

	broadcast "github.com/broadcastkit/engine"
)

func TestEstimateAggregatesGasAndCost(t *testing.T) {
	txs := []broadcast.FinalTransaction{
		{AbstractTransaction: broadcast.AbstractTransaction{Value: big.NewInt(0)}, Gas: 21000, GasPrice: big.NewInt(10)},
		{AbstractTransaction: broadcast.AbstractTransaction{Value: big.NewInt(0)}, Gas: 50000, GasPrice: big.NewInt(20)},
	}

	est := Estimate(1, txs)
	if est.TransactionCount != 2 {
		t.Errorf("TransactionCount = %d, want 2", est.TransactionCount)
	}
	if est.TotalGas != 71000 {
		t.Errorf("TotalGas = %d, want 71000", est.TotalGas)
	}
	wantTotal := big.NewInt(21000*10 + 50000*20)
	if est.EstimatedTotalWei.Cmp(wantTotal) != 0 {
		t.Errorf("EstimatedTotalWei = %s, want %s", est.EstimatedTotalWei, wantTotal)
	}
}

func TestEstimateWithNoTransactions(t *testing.T) {
	est := Estimate(1, nil)
	if est.TransactionCount != 0 {
		t.Errorf("TransactionCount = %d, want 0", est.TransactionCount)
	}
	if est.EstimatedTotalWei.Sign() != 0 {
		t.Errorf("EstimatedTotalWei = %s, want 0", est.EstimatedTotalWei)
	}
}
