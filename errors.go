package broadcast

import "fmt"

// ConfigError reports a pre-flight configuration problem: a missing
// sender, an unknown signer for a required `from`, or an incompatible
// flag combination. Always fatal; cmd/txbroadcast checks for these
// before any transaction is sent.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError wraps a pre-flight configuration failure.
func NewConfigError(reason string, err error) *ConfigError {
	return &ConfigError{Reason: reason, Err: err}
}

// RpcError wraps a transport-level JSON-RPC failure surfaced after the
// RPC client's own retries have exhausted.
type RpcError struct {
	Endpoint string
	Method   string
	Err      error
}

func (e *RpcError) Error() string {
	return fmt.Sprintf("rpc error: %s (%s): %v", e.Method, e.Endpoint, e.Err)
}

func (e *RpcError) Unwrap() error { return e.Err }

// NewRpcError wraps a failed JSON-RPC call.
func NewRpcError(endpoint, method string, err error) *RpcError {
	return &RpcError{Endpoint: endpoint, Method: method, Err: err}
}

// FeeMarketUnsupportedError reports that a chain rejected an EIP-1559
// fee estimation request. Fatal, with a hint to retry under --legacy.
type FeeMarketUnsupportedError struct {
	ChainID uint64
	Err     error
}

func (e *FeeMarketUnsupportedError) Error() string {
	return fmt.Sprintf("chain %d does not support eip-1559 fee estimation (retry with --legacy): %v", e.ChainID, e.Err)
}

func (e *FeeMarketUnsupportedError) Unwrap() error { return e.Err }

// NonceDriftError reports that the sequential pre-submit nonce check
// found the on-chain nonce did not match the finalized transaction's
// nonce. Fatal for the current run; the sequence file is left intact.
type NonceDriftError struct {
	Address  string
	Expected uint64
	Observed uint64
}

func (e *NonceDriftError) Error() string {
	return fmt.Sprintf("nonce drift for %s: expected %d, rpc reports %d", e.Address, e.Expected, e.Observed)
}

// GasEstimationError wraps a failed gas estimation call. Whether it is
// fatal depends on the caller: non-fatal during multi-chain pre-broadcast
// estimation, fatal during actual submission (see §9 Open Question,
// resolved in DESIGN.md).
type GasEstimationError struct {
	Err error
}

func (e *GasEstimationError) Error() string {
	return fmt.Sprintf("gas estimation failed: %v", e.Err)
}

func (e *GasEstimationError) Unwrap() error { return e.Err }

// SigningFailedError wraps a failure from either the local raw signer or
// the remote unlocked-account facility. Fatal.
type SigningFailedError struct {
	Address string
	Err     error
}

func (e *SigningFailedError) Error() string {
	return fmt.Sprintf("signing failed for %s: %v", e.Address, e.Err)
}

func (e *SigningFailedError) Unwrap() error { return e.Err }

// PendingReceiptsIncompleteError reports that the receipt-polling
// deadline expired with hashes still unconfirmed. Non-fatal for the
// engine (the sequence is saved with the pending hashes intact so
// --resume can pick them up); callers typically still exit non-zero.
type PendingReceiptsIncompleteError struct {
	Pending []string
}

func (e *PendingReceiptsIncompleteError) Error() string {
	return fmt.Sprintf("%d transaction(s) still pending after the polling deadline; resume to continue waiting", len(e.Pending))
}

// PersistError wraps a failed on-disk write of a sequence record. Fatal.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist sequence to %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// NonceQueryFailedError wraps a failed on-chain nonce lookup.
type NonceQueryFailedError struct {
	Address string
	Err     error
}

func (e *NonceQueryFailedError) Error() string {
	return fmt.Sprintf("failed to query nonce for %s: %v", e.Address, e.Err)
}

func (e *NonceQueryFailedError) Unwrap() error { return e.Err }

// NewFeeMarketUnsupportedError wraps a failed EIP-1559 fee estimation.
func NewFeeMarketUnsupportedError(chainID uint64, err error) *FeeMarketUnsupportedError {
	return &FeeMarketUnsupportedError{ChainID: chainID, Err: err}
}

// NewGasEstimationError wraps a failed gas estimation call.
func NewGasEstimationError(err error) *GasEstimationError {
	return &GasEstimationError{Err: err}
}

// NewSigningFailedError wraps a signing failure for address.
func NewSigningFailedError(address string, err error) *SigningFailedError {
	return &SigningFailedError{Address: address, Err: err}
}

// NewPersistError wraps a failed sequence write to path.
func NewPersistError(path string, err error) *PersistError {
	return &PersistError{Path: path, Err: err}
}

// NewNonceQueryFailedError wraps a failed nonce lookup for address.
func NewNonceQueryFailedError(address string, err error) *NonceQueryFailedError {
	return &NonceQueryFailedError{Address: address, Err: err}
}

// ErrNoTransactions is returned when --broadcast is set but the abstract
// transaction stream produced by simulation is empty.
var ErrNoTransactions = fmt.Errorf("no onchain transactions generated in script")
