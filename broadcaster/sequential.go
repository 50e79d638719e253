package broadcaster

import (
	"context"

	broadcast "github.com/broadcastkit/engine"
	"github.com/broadcastkit/engine/chain"
	"github.com/broadcastkit/engine/sequence"
)

// runSequentialBatch finalizes, signs, submits and awaits the receipt of
// each transaction in batch one at a time, in order. Used for chains
// whose classification (or --slow, or more than one distinct sender)
// disallows concurrent submission.
func (b *Broadcaster) runSequentialBatch(ctx context.Context, endpointURL string, signers broadcast.SignerMap, seq *sequence.ScriptSequence, batch []broadcast.AbstractTransaction, batchStart int) error {
	finalizer := chain.Finalizer{Opts: b.Opts}

	for i, tx := range batch {
		index := batchStart + i
		b.Sink.Update(index)

		signer, err := signers.Resolve(tx.From)
		if err != nil {
			return err
		}
		address := signer.Address()

		nonce, err := b.Nonces.Next(ctx, endpointURL, address)
		if err != nil {
			return err
		}
		// Verified on every send, not just the first: the oracle's local
		// counter only reflects what this process has submitted, and
		// can't observe a competing process or account activity landing
		// in between two of this run's own sends.
		if err := b.Nonces.Verify(ctx, endpointURL, address, nonce); err != nil {
			return err
		}

		// Unlike the pre-broadcast dry run, a gas or fee estimation
		// failure immediately before a real send is fatal: there is no
		// safe default to fall back to mid-sequence.
		gas, pricing, meta, isFixed, err := b.resolveGasAndPricing(ctx, endpointURL, seq.ChainID, tx)
		if err != nil {
			return err
		}

		final := finalizer.Finalize(tx, seq.ChainID, nonce, gas, pricing, meta)

		hash, err := signer.SignAndSend(endpointURL, &final)
		if err != nil {
			b.Nonces.Reset(endpointURL, address)
			return err
		}

		seq.Transactions = append(seq.Transactions, broadcast.TxWithMetadata{
			Transaction:     final,
			Hash:            hash,
			RPCEndpoint:     endpointURL,
			IsFixedGasLimit: isFixed,
		})
		b.Store.AddPending(seq, hash)
		b.Sink.Println("submitted " + hash)

		receipt, err := b.pollReceipt(ctx, endpointURL, hash)
		if err != nil {
			return err
		}
		b.Store.AddReceipt(seq, index, *receipt)
		recordConfirmation(b.Sink, receipt.Status)
	}

	return nil
}
