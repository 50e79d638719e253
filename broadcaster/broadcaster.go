// Package broadcaster drives the actual submission of a chain's
// finalized transactions: sequential (await each receipt before
// finalizing the next) or parallel (bounded completion-ordered buffer),
// checkpointing the sequence to disk after every batch so a crash or
// Ctrl-C loses at most one batch's worth of progress.
package broadcaster

import (
	"context"
	"fmt"
	"math/big"

	broadcast "github.com/broadcastkit/engine"
	"github.com/broadcastkit/engine/chain"
	"github.com/broadcastkit/engine/provider"
	"github.com/broadcastkit/engine/sequence"
)

// Broadcaster executes one chain's worth of a broadcast run.
type Broadcaster struct {
	Registry *provider.Registry
	Nonces   *provider.NonceOracle
	Gas      *provider.GasEstimator
	Store    *sequence.Store
	Sink     broadcast.ProgressSink
	Opts     broadcast.Options

	BatchSize     int
	ParallelWidth int
}

// New returns a Broadcaster with the default batch size and parallel
// width, reporting through sink (broadcast.NoopSink{} if nil).
func New(registry *provider.Registry, store *sequence.Store, opts broadcast.Options, sink broadcast.ProgressSink) *Broadcaster {
	if sink == nil {
		sink = broadcast.NoopSink{}
	}
	return &Broadcaster{
		Registry:      registry,
		Nonces:        provider.NewNonceOracle(registry),
		Gas:           provider.NewGasEstimator(registry, opts.GasEstimateMultiplier),
		Store:         store,
		Sink:          sink,
		Opts:          opts,
		BatchSize:     broadcast.DefaultBatchSize,
		ParallelWidth: broadcast.DefaultParallelWidth,
	}
}

// Run finalizes and submits every transaction in abstractTxs against
// endpointURL using signers, appending to seq and checkpointing after
// every BatchSize transactions. It resumes from seq.ReceiptCount() if
// seq was loaded from a prior, interrupted run.
func (b *Broadcaster) Run(ctx context.Context, endpointURL string, signers broadcast.SignerMap, seq *sequence.ScriptSequence, abstractTxs []broadcast.AbstractTransaction) error {
	if !b.Opts.Broadcast {
		return b.dryRun(ctx, endpointURL, seq.ChainID, abstractTxs)
	}
	if len(abstractTxs) == 0 {
		return broadcast.ErrNoTransactions
	}

	start := seq.ReceiptCount()
	if start > 0 {
		b.Sink.Println(fmt.Sprintf("resuming chain %d from transaction %d/%d", seq.ChainID, start, len(abstractTxs)))
	}

	signerCount := len(broadcast.DistinctSenders(abstractTxs))
	parallel := chain.SupportsBatching(seq.ChainID) && !b.Opts.Slow && signerCount == 1

	for batchStart := start; batchStart < len(abstractTxs); batchStart += b.BatchSize {
		batchEnd := min(batchStart+b.BatchSize, len(abstractTxs))
		batch := abstractTxs[batchStart:batchEnd]

		var err error
		if parallel {
			err = b.runParallelBatch(ctx, endpointURL, signers, seq, batch, batchStart)
		} else {
			err = b.runSequentialBatch(ctx, endpointURL, signers, seq, batch, batchStart)
		}

		if saveErr := b.Store.Save(seq); saveErr != nil {
			return saveErr
		}
		if err != nil {
			return err
		}
	}

	if len(seq.Pending) > 0 {
		return &broadcast.PendingReceiptsIncompleteError{Pending: seq.Pending}
	}

	b.Sink.Println(fmt.Sprintf("ONCHAIN EXECUTION COMPLETE on chain %d: %s", seq.ChainID, totalPaid(seq)))
	return nil
}

// recordConfirmation reports a receipt's status to sink if it exposes the
// optional RecordConfirmation hook (internal/metrics.Sink does); a plain
// broadcast.ProgressSink without it is left untouched.
func recordConfirmation(sink broadcast.ProgressSink, status uint64) {
	if recorder, ok := sink.(interface{ RecordConfirmation(uint64) }); ok {
		recorder.RecordConfirmation(status)
	}
}

// totalPaid folds every confirmed receipt's gas-used times effective
// price into the total amount spent on this chain, reported once a run
// finishes the way forge script's final settlement line does.
func totalPaid(seq *sequence.ScriptSequence) string {
	total := new(big.Int)
	for _, tx := range seq.Transactions {
		if tx.Receipt == nil || tx.Receipt.EffectiveGasPrice == nil {
			continue
		}
		spent := new(big.Int).Mul(tx.Receipt.EffectiveGasPrice, new(big.Int).SetUint64(tx.Receipt.GasUsed))
		total.Add(total, spent)
	}
	return total.String() + " wei"
}

// dryRun reports the finalized cost estimate without sending anything.
func (b *Broadcaster) dryRun(ctx context.Context, endpointURL string, chainID uint64, abstractTxs []broadcast.AbstractTransaction) error {
	finals := make([]broadcast.FinalTransaction, 0, len(abstractTxs))
	finalizer := chain.Finalizer{Opts: b.Opts}
	for _, tx := range abstractTxs {
		gas, pricing, meta, _, err := b.resolveGasAndPricing(ctx, endpointURL, chainID, tx)
		if err != nil {
			if _, ok := err.(*broadcast.GasEstimationError); ok {
				// Simulation-time estimation failures are reported but not
				// fatal: forge script still prints the rest of the dry run.
				b.Sink.Println(fmt.Sprintf("warning: gas estimation failed for %s: %v", tx.ContractName, err))
				continue
			}
			return err
		}
		finals = append(finals, finalizer.Finalize(tx, chainID, 0, gas, pricing, meta))
	}

	est := chain.Estimate(chainID, finals)
	b.Sink.Println(fmt.Sprintf("chain %d dry run: %d transaction(s), ~%d total gas, ~%s wei estimated", est.ChainID, est.TransactionCount, est.TotalGas, est.EstimatedTotalWei.String()))
	return nil
}

// resolveGasAndPricing decides the gas limit, fee pricing and typed-712
// metadata a transaction finalizes with. A typed-712 chain prices
// through the single zks_estimateFee vendor call (gas limit included);
// every other chain prices through pricingFor and estimates gas
// separately. Either way, a tx.Gas already set on the abstract
// transaction is used as-is instead of calling out to re-estimate it —
// the resulting isFixed flag is carried onto TxWithMetadata so a retry
// never re-estimates a gas limit the caller pinned.
func (b *Broadcaster) resolveGasAndPricing(ctx context.Context, endpointURL string, chainID uint64, tx broadcast.AbstractTransaction) (gas uint64, pricing chain.FeePricing, meta broadcast.Typed712Meta, isFixed bool, err error) {
	isFixed = tx.Gas != nil

	if chain.ClassFor(chainID).Typed712 {
		fee, ferr := b.Gas.EstimateFee712(ctx, endpointURL, tx)
		if ferr != nil {
			return 0, chain.FeePricing{}, broadcast.Typed712Meta{}, isFixed, ferr
		}
		gas = fee.GasLimit
		if isFixed {
			gas = *tx.Gas
		}
		return gas, chain.FeePricing{GasFeeCap: fee.MaxFeePerGas, GasTipCap: fee.MaxPriorityFeePerGas}, tx.Typed712, isFixed, nil
	}

	if isFixed {
		gas = *tx.Gas
	} else {
		gas, err = b.Gas.EstimateGas(ctx, endpointURL, tx)
		if err != nil {
			return 0, chain.FeePricing{}, broadcast.Typed712Meta{}, isFixed, err
		}
	}

	pricing, err = b.pricingFor(ctx, endpointURL, chainID)
	if err != nil {
		return 0, chain.FeePricing{}, broadcast.Typed712Meta{}, isFixed, err
	}
	return gas, pricing, broadcast.Typed712Meta{}, isFixed, nil
}

func (b *Broadcaster) pricingFor(ctx context.Context, endpointURL string, chainID uint64) (chain.FeePricing, error) {
	if chain.IsLegacy(chainID) || b.Opts.Legacy {
		price, err := b.Gas.EstimateLegacyGasPrice(ctx, endpointURL)
		if err != nil {
			return chain.FeePricing{}, err
		}
		return chain.FeePricing{GasPrice: price}, nil
	}

	feeCap, tipCap, err := b.Gas.EstimateFeeMarket(ctx, endpointURL)
	if err != nil {
		return chain.FeePricing{}, err
	}
	return chain.FeePricing{GasFeeCap: feeCap, GasTipCap: tipCap}, nil
}
