package broadcast

// Empirical constants chosen because several public JSON-RPC endpoints
// throttle above them (§9). Kept as named constants, not inlined magic
// numbers, so a deployment can override them without touching the
// broadcaster's control flow.
const (
	// DefaultBatchSize is the maximum number of transactions finalized
	// and submitted together before a checkpoint save.
	DefaultBatchSize = 100

	// DefaultParallelWidth is the width of the completion-ordered buffer
	// used for parallel (non-sequential) submission.
	DefaultParallelWidth = 7

	// DefaultReceiptPollMinIntervalMillis is the starting interval between
	// receipt polling attempts; it backs off exponentially up to
	// DefaultReceiptPollMaxIntervalMillis.
	DefaultReceiptPollMinIntervalMillis = 500

	// DefaultReceiptPollMaxIntervalMillis caps the exponential back-off.
	DefaultReceiptPollMaxIntervalMillis = 8000

	// DefaultGasEstimateMultiplier is the percent multiplier applied to a
	// raw eth_estimateGas result when the user supplies none.
	DefaultGasEstimateMultiplier = 130
)

// SequenceRecordVersion identifies the on-disk sequence record schema,
// written into every persisted file so sequence.Store.Load can reject a
// record of a different version.
const SequenceRecordVersion = 1
