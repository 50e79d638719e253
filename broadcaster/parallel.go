package broadcaster

import (
	"context"
	"sync"

	broadcast "github.com/broadcastkit/engine"
	"github.com/broadcastkit/engine/chain"
	"github.com/broadcastkit/engine/sequence"
	"go.uber.org/ratelimit"
)

// runParallelBatch finalizes and submits every transaction in batch
// concurrently, bounded to ParallelWidth in-flight sends at a time, and
// writes results back into seq.Transactions in their original order
// once every slot completes. Only used on chains whose classification
// marks them safe for a single signer to submit out of strict
// await-each-receipt order (see chain.SupportsBatching), which Run only
// selects when the batch has exactly one distinct sender.
func (b *Broadcaster) runParallelBatch(ctx context.Context, endpointURL string, signers broadcast.SignerMap, seq *sequence.ScriptSequence, batch []broadcast.AbstractTransaction, batchStart int) error {
	finalizer := chain.Finalizer{Opts: b.Opts}
	signer, err := signers.Resolve(batch[0].From)
	if err != nil {
		return err
	}
	address := signer.Address()

	// Nonces must be assigned sequentially and up front: concurrent
	// goroutines racing provider.NonceOracle.Next would otherwise be
	// free to interleave in any order.
	type slot struct {
		tx    broadcast.AbstractTransaction
		nonce uint64
	}
	slots := make([]slot, len(batch))
	for i, tx := range batch {
		nonce, err := b.Nonces.Next(ctx, endpointURL, address)
		if err != nil {
			return err
		}
		slots[i] = slot{tx: tx, nonce: nonce}
	}

	limiter := ratelimit.New(b.ParallelWidth)
	sem := make(chan struct{}, b.ParallelWidth)
	var wg sync.WaitGroup

	results := make([]broadcast.TxWithMetadata, len(batch))
	errs := make([]error, len(batch))

	for i, s := range slots {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, s slot) {
			defer wg.Done()
			defer func() { <-sem }()

			limiter.Take()

			gas, pricing, meta, isFixed, err := b.resolveGasAndPricing(ctx, endpointURL, seq.ChainID, s.tx)
			if err != nil {
				errs[i] = err
				return
			}

			final := finalizer.Finalize(s.tx, seq.ChainID, s.nonce, gas, pricing, meta)

			hash, err := signer.SignAndSend(endpointURL, &final)
			if err != nil {
				errs[i] = err
				return
			}
			b.Sink.Update(batchStart + i)

			entry := broadcast.TxWithMetadata{Transaction: final, Hash: hash, RPCEndpoint: endpointURL, IsFixedGasLimit: isFixed}
			receipt, err := b.pollReceipt(ctx, endpointURL, hash)
			if err != nil {
				results[i] = entry
				errs[i] = err
				return
			}
			entry.Receipt = receipt
			results[i] = entry
		}(i, s)
	}

	wg.Wait()

	var firstErr error
	for i, res := range results {
		seq.Transactions = append(seq.Transactions, res)
		if res.Receipt == nil && res.Hash != "" {
			b.Store.AddPending(seq, res.Hash)
		}
		if res.Receipt != nil {
			recordConfirmation(b.Sink, res.Receipt.Status)
		}
		if errs[i] != nil && firstErr == nil {
			firstErr = errs[i]
		}
	}

	return firstErr
}
