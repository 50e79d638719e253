// Package sequence defines the on-disk record of a broadcast run — a
// ScriptSequence for a single contiguous same-endpoint run, or a
// MultiChainSequence bundling one ScriptSequence per such run — and the
// atomic store that reads
// and writes them, so an interrupted broadcast can resume exactly where
// it left off.
package sequence

import (
	broadcast "github.com/broadcastkit/engine"
)

// ScriptSequence is the persisted record of one chain's worth of a
// broadcast run. Transactions are appended as they are submitted, and
// each entry's Receipt is attached once it confirms. ReceiptCount, the
// length of the leading run of entries that have a receipt, is the
// offset Broadcaster.Run starts from.
type ScriptSequence struct {
	Version   int                         `json:"version"`
	ChainID   uint64                      `json:"chain_id"`
	Libraries []string                    `json:"libraries,omitempty"`
	Transactions []broadcast.TxWithMetadata `json:"transactions"`
	// Pending holds hashes of transactions that have been submitted but
	// not yet confirmed, preserved across a save. No code polls these
	// hashes when a saved sequence is loaded again.
	Pending []string `json:"pending,omitempty"`

	// path is where this sequence is persisted; not serialized.
	path string `json:"-"`
}

// Path returns the file path this sequence is (or will be) persisted to.
func (s *ScriptSequence) Path() string { return s.path }

// ReceiptCount returns how many transactions in this sequence have a
// confirmed receipt, which is also the resume offset into Transactions.
func (s *ScriptSequence) ReceiptCount() int {
	n := 0
	for _, tx := range s.Transactions {
		if tx.Receipt != nil {
			n++
		} else {
			break
		}
	}
	return n
}

// MultiChainSequence bundles one ScriptSequence per target (contiguous
// same-endpoint run, so one chain can appear more than once) under a
// single identifier.
type MultiChainSequence struct {
	BundleID  string            `json:"bundle_id"`
	Sequences []*ScriptSequence `json:"deployments"`

	path string `json:"-"`
}

// Path returns the file path this bundle is (or will be) persisted to.
func (m *MultiChainSequence) Path() string { return m.path }
