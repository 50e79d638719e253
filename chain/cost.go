package chain

import (
	"math/big"

	broadcast "github.com/broadcastkit/engine"
)

// CostEstimate summarizes the worst-case spend of a batch of finalized
// transactions against a single endpoint, reported to the user before
// broadcast actually begins (forge script's "estimated gas price" /
// "estimated total gas used" / "estimated amount required" lines).
type CostEstimate struct {
	ChainID           uint64
	TransactionCount  int
	TotalGas          uint64
	AverageGasPrice   *big.Int
	EstimatedTotalWei *big.Int
}

// Estimate aggregates a slice of finalized transactions into a single
// CostEstimate. All transactions must share a chain id; the caller (the
// coordinator) partitions by chain before calling this.
func Estimate(chainID uint64, txs []broadcast.FinalTransaction) CostEstimate {
	est := CostEstimate{ChainID: chainID, TransactionCount: len(txs), EstimatedTotalWei: new(big.Int)}
	if len(txs) == 0 {
		est.AverageGasPrice = new(big.Int)
		return est
	}

	priceSum := new(big.Int)
	for _, tx := range txs {
		est.TotalGas += tx.Gas
		est.EstimatedTotalWei.Add(est.EstimatedTotalWei, tx.EstimatedCost())
		price := tx.GasPrice
		if price == nil {
			price = tx.GasFeeCap
		}
		if price != nil {
			priceSum.Add(priceSum, price)
		}
	}
	est.AverageGasPrice = priceSum.Div(priceSum, big.NewInt(int64(len(txs))))
	return est
}
