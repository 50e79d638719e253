package broadcaster

import (
	"context"
	"time"

	broadcast "github.com/broadcastkit/engine"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// pollReceipt polls endpointURL for hash's receipt, backing off
// exponentially from DefaultReceiptPollMinIntervalMillis up to
// DefaultReceiptPollMaxIntervalMillis until either a receipt arrives,
// ctx is done, or Opts.TimeoutSeconds elapses.
func (b *Broadcaster) pollReceipt(ctx context.Context, endpointURL, hash string) (*broadcast.Receipt, error) {
	eth, err := b.Registry.EthClient(endpointURL)
	if err != nil {
		return nil, err
	}

	deadline := time.Time{}
	if b.Opts.TimeoutSeconds > 0 {
		deadline = time.Now().Add(time.Duration(b.Opts.TimeoutSeconds) * time.Second)
	}

	interval := time.Duration(broadcast.DefaultReceiptPollMinIntervalMillis) * time.Millisecond
	maxInterval := time.Duration(broadcast.DefaultReceiptPollMaxIntervalMillis) * time.Millisecond

	for {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, &broadcast.PendingReceiptsIncompleteError{Pending: []string{hash}}
		}

		receipt, err := eth.TransactionReceipt(ctx, common.HexToHash(hash))
		if err == nil {
			return toReceipt(receipt), nil
		}

		select {
		case <-ctx.Done():
			return nil, &broadcast.PendingReceiptsIncompleteError{Pending: []string{hash}}
		case <-time.After(interval):
		}

		interval *= 2
		if interval > maxInterval {
			interval = maxInterval
		}
	}
}

func toReceipt(r *types.Receipt) *broadcast.Receipt {
	out := &broadcast.Receipt{
		TransactionHash:   r.TxHash.Hex(),
		BlockNumber:       r.BlockNumber.Uint64(),
		GasUsed:           r.GasUsed,
		EffectiveGasPrice: r.EffectiveGasPrice,
		Status:            r.Status,
	}
	if r.ContractAddress != (common.Address{}) {
		addr := r.ContractAddress.Hex()
		out.ContractAddress = &addr
	}
	return out
}
