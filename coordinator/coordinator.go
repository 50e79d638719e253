// Package coordinator partitions a single script run's abstract
// transactions into contiguous same-endpoint runs and drives one
// ScriptSequence per run under a shared MultiChainSequence bundle,
// printing a cost estimate before anything is sent for each target the
// caller supplies finalized transactions for.
package coordinator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	broadcast "github.com/broadcastkit/engine"
	"github.com/broadcastkit/engine/chain"
	"github.com/broadcastkit/engine/sequence"
	"github.com/google/uuid"
)

// Target is one contiguous run this run should broadcast to: its chain
// and RPC endpoint, the signer map to use, and the abstract transactions
// destined for it.
type Target struct {
	ChainID      uint64
	EndpointURL  string
	Signers      broadcast.SignerMap
	Transactions []broadcast.AbstractTransaction
}

// Group is a contiguous run of transactions destined for the same
// endpoint — the unit Partition splits the stream into and Coordinator
// turns into one ScriptSequence.
type Group struct {
	ChainID      uint64
	EndpointURL  string
	Transactions []broadcast.AbstractTransaction
}

// Partition walks txs in source order and closes out a group every time
// the resolved endpoint changes, or the stream ends — it never merges
// non-adjacent runs bound for the same chain. This mirrors
// bundle_transactions' peek-ahead loop: transactions [A, A, B, B, A]
// yield three groups (lengths 2, 2, 1), not two, because the final A
// starts a fresh run once B has interrupted it.
func Partition(txs []broadcast.AbstractTransaction, endpointOf func(broadcast.AbstractTransaction) (chainID uint64, endpointURL string)) []Group {
	var groups []Group
	for _, tx := range txs {
		chainID, endpointURL := endpointOf(tx)
		if len(groups) == 0 || groups[len(groups)-1].EndpointURL != endpointURL {
			groups = append(groups, Group{ChainID: chainID, EndpointURL: endpointURL})
		}
		last := &groups[len(groups)-1]
		last.Transactions = append(last.Transactions, tx)
	}
	return groups
}

// Coordinator owns the store used to persist the MultiChainSequence
// bundle and drives one Runner invocation per target chain.
type Coordinator struct {
	Store *sequence.Store
	Sink  broadcast.ProgressSink
}

// Runner executes the broadcast (or dry-run) of a single chain's
// finalized transactions against its ScriptSequence. Implemented by
// package broadcaster; declared here to avoid coordinator depending on
// broadcaster's concrete type.
type Runner interface {
	Run(ctx context.Context, endpointURL string, signers broadcast.SignerMap, seq *sequence.ScriptSequence, abstractTxs []broadcast.AbstractTransaction) error
}

// sequencePath derives the on-disk path for the i'th target's
// ScriptSequence from the bundle's path, so two targets sharing a
// ChainID (two non-adjacent runs for the same chain) never collide on
// the same file the way they would sharing bundlePath outright.
func sequencePath(bundlePath string, chainID uint64, i int) string {
	dir, base := filepath.Dir(bundlePath), filepath.Base(bundlePath)
	ext := filepath.Ext(base)
	base = strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf("%s.%d-%d%s", base, chainID, i, ext))
}

// New returns a Coordinator persisting bundles through store and
// reporting through sink.
func New(store *sequence.Store, sink broadcast.ProgressSink) *Coordinator {
	if sink == nil {
		sink = broadcast.NoopSink{}
	}
	return &Coordinator{Store: store, Sink: sink}
}

// Run assumes targets is already partitioned by the caller (one Target
// per contiguous endpoint run, via Partition); it prints a cost
// estimate for each target whose chain id has an entry in finalized
// (none when finalized is nil), creates the bundle, then drives each
// target's Runner in turn. The estimates are not returned.
func (c *Coordinator) Run(ctx context.Context, bundlePath string, targets []Target, finalized map[uint64][]broadcast.FinalTransaction, runner Runner) (*sequence.MultiChainSequence, error) {
	if len(targets) == 0 {
		return nil, broadcast.ErrNoTransactions
	}

	// Each target gets its own ScriptSequence even when another target
	// shares its ChainID: Partition can legitimately emit two
	// non-adjacent runs for the same chain (e.g. A,B,A), and those must
	// stay two separate sequences in the bundle rather than collapsing
	// into one.
	sequences := make([]*sequence.ScriptSequence, len(targets))
	for i, t := range targets {
		seq := c.Store.Create(sequencePath(bundlePath, t.ChainID, i), t.ChainID)
		sequences[i] = seq

		if txs, ok := finalized[t.ChainID]; ok {
			est := chain.Estimate(t.ChainID, txs)
			c.Sink.Println(fmt.Sprintf("chain %d: %d transaction(s), ~%d gas total", est.ChainID, est.TransactionCount, est.TotalGas))
		}
	}

	bundle := c.Store.CreateBundle(bundlePath, uuid.NewString(), sequences)
	if err := c.Store.SaveBundle(bundle); err != nil {
		return nil, err
	}

	for i, t := range targets {
		if err := runner.Run(ctx, t.EndpointURL, t.Signers, sequences[i], t.Transactions); err != nil {
			return bundle, fmt.Errorf("chain %d: %w", t.ChainID, err)
		}
		if err := c.Store.SaveBundle(bundle); err != nil {
			return bundle, err
		}
	}

	return bundle, nil
}
