package sequence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	broadcast "github.com/broadcastkit/engine"
)

// Store reads and writes ScriptSequence and MultiChainSequence records
// to disk. Every write goes through a temp-file-then-rename so a crash
// mid-write never leaves a truncated or partially-written record behind
// for the next --resume to choke on.
type Store struct {
	mu sync.Mutex
}

// NewStore returns a ready-to-use Store.
func NewStore() *Store { return &Store{} }

// Create returns a new, empty ScriptSequence for chainID that will
// persist to path.
func (s *Store) Create(path string, chainID uint64) *ScriptSequence {
	return &ScriptSequence{
		Version: broadcast.SequenceRecordVersion,
		ChainID: chainID,
		path:    path,
	}
}

// Load reads and schema-validates a ScriptSequence from path, for
// --resume.
func (s *Store) Load(path string) (*ScriptSequence, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, broadcast.NewPersistError(path, err)
	}

	if err := validateSequenceSchema(raw); err != nil {
		return nil, broadcast.NewPersistError(path, fmt.Errorf("schema validation: %w", err))
	}

	var seq ScriptSequence
	if err := json.Unmarshal(raw, &seq); err != nil {
		return nil, broadcast.NewPersistError(path, err)
	}
	seq.path = path
	return &seq, nil
}

// Save atomically writes seq to its configured path: marshal to a
// sibling temp file, fsync, then rename over the destination. Rename is
// atomic on POSIX filesystems, so concurrent readers (or a crash) never
// observe a half-written file.
func (s *Store) Save(seq *ScriptSequence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return atomicWriteJSON(seq.path, seq)
}

// AddPending records hash as awaiting confirmation.
func (s *Store) AddPending(seq *ScriptSequence, hash string) {
	seq.Pending = append(seq.Pending, hash)
}

// AddReceipt attaches receipt to the transaction at index and drops its
// hash from Pending.
func (s *Store) AddReceipt(seq *ScriptSequence, index int, receipt broadcast.Receipt) {
	if index < 0 || index >= len(seq.Transactions) {
		return
	}
	seq.Transactions[index].Receipt = &receipt

	filtered := seq.Pending[:0]
	for _, h := range seq.Pending {
		if h != receipt.TransactionHash {
			filtered = append(filtered, h)
		}
	}
	seq.Pending = filtered
}

// AddLibraries records the library addresses a deployment script linked
// against, for inclusion in the persisted record.
func (s *Store) AddLibraries(seq *ScriptSequence, libraries []string) {
	seq.Libraries = append(seq.Libraries, libraries...)
}

// CreateBundle returns a new MultiChainSequence with the given bundle id
// (the coordinator passes a freshly generated uuid), persisting to path.
func (s *Store) CreateBundle(path string, bundleID string, sequences []*ScriptSequence) *MultiChainSequence {
	return &MultiChainSequence{BundleID: bundleID, Sequences: sequences, path: path}
}

// SaveBundle atomically writes bundle to its configured path.
func (s *Store) SaveBundle(bundle *MultiChainSequence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return atomicWriteJSON(bundle.path, bundle)
}

func atomicWriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return broadcast.NewPersistError(path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".sequence-*.tmp")
	if err != nil {
		return broadcast.NewPersistError(path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return broadcast.NewPersistError(path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return broadcast.NewPersistError(path, err)
	}
	if err := tmp.Close(); err != nil {
		return broadcast.NewPersistError(path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return broadcast.NewPersistError(path, err)
	}
	return nil
}
