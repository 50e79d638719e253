package broadcast

import (
	"fmt"
	"strings"
)

// ProgressSink receives broadcast progress notifications. The engine
// never writes to stdout directly; every status line and counter update
// goes through a sink so CLI, test, and metrics-backed callers can each
// supply their own.
type ProgressSink interface {
	// Update advances the progress indicator to the given 0-based
	// transaction index within the current sequence.
	Update(index int)
	// Println reports a one-line, human-readable status message.
	Println(message string)
}

// NoopSink discards every update. Useful as a default and in tests that
// don't care about reporting.
type NoopSink struct{}

func (NoopSink) Update(int)     {}
func (NoopSink) Println(string) {}

// Signer produces a signed, wire-ready transaction for an abstract
// transaction already finalized for a specific chain. Declared at the
// root so both the sign and broadcaster packages can depend on it
// without broadcaster importing sign's concrete types.
type Signer interface {
	// Address is the account this signer sends on behalf of.
	Address() string
	// SignAndSend signs a finalized transaction and submits it to the
	// given endpoint, returning the transaction hash.
	SignAndSend(endpointURL string, tx *FinalTransaction) (txHash string, err error)
}

// SignerMap resolves a Signer by the sender address it signs for. The
// Raw dispatch path uses one to hold a distinct local key per `from`
// address a script may send from; the Unlocked path uses one so every
// distinct sender still routes through a single per-address lookup.
type SignerMap map[string]Signer

// Resolve looks up the signer for address, case-insensitively. Returns
// a *ConfigError — "unknown signer for a required from" — if address
// has no entry.
func (m SignerMap) Resolve(address string) (Signer, error) {
	if s, ok := m[strings.ToLower(address)]; ok {
		return s, nil
	}
	return nil, NewConfigError(fmt.Sprintf("no signer configured for sender %s", address), nil)
}

// Count returns the number of distinct signer addresses in the map.
func (m SignerMap) Count() int { return len(m) }

// DistinctSenders returns the distinct, lower-cased From addresses among
// txs, in first-seen order. The Broadcaster uses its length as
// signers_count() when deciding whether a batch is safe to submit in
// parallel.
func DistinctSenders(txs []AbstractTransaction) []string {
	seen := make(map[string]bool, len(txs))
	out := make([]string, 0, len(txs))
	for _, tx := range txs {
		addr := strings.ToLower(tx.From)
		if !seen[addr] {
			seen[addr] = true
			out = append(out, addr)
		}
	}
	return out
}
