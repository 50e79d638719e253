// Package metrics exposes broadcast progress as Prometheus gauges and
// counters, following the same NewCounterVec/NewGaugeVec plus
// MustRegister pattern used for the other services in this codebase.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	transactionsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_transactions_submitted_total",
			Help: "Transactions submitted, labeled by chain id.",
		},
		[]string{"chain_id"},
	)

	transactionsConfirmed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_transactions_confirmed_total",
			Help: "Transactions confirmed with a receipt, labeled by chain id and status.",
		},
		[]string{"chain_id", "status"},
	)

	currentIndex = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "broadcast_sequence_index",
			Help: "0-based index of the transaction currently being processed, labeled by chain id.",
		},
		[]string{"chain_id"},
	)
)

func init() {
	prometheus.MustRegister(transactionsSubmitted, transactionsConfirmed, currentIndex)
}

// Handler returns the HTTP handler that serves the registered metrics,
// meant to be mounted at /metrics.
func Handler() http.Handler { return promhttp.Handler() }

// Sink is a broadcast.ProgressSink backed by the package's Prometheus
// metrics, scoped to a single chain id.
type Sink struct {
	ChainID string
	// Fallback, if set, additionally receives every Println call (e.g.
	// a stdout sink), since metrics have no room for free-text status.
	Fallback interface{ Println(string) }
}

// Update advances the gauge tracking this chain's current index and
// increments the submitted counter.
func (s Sink) Update(index int) {
	currentIndex.WithLabelValues(s.ChainID).Set(float64(index))
	transactionsSubmitted.WithLabelValues(s.ChainID).Inc()
}

// Println forwards to Fallback if one is configured; metrics have no
// text-message surface of their own.
func (s Sink) Println(message string) {
	if s.Fallback != nil {
		s.Fallback.Println(message)
	}
}

// RecordConfirmation increments the confirmed-transactions counter for
// this chain, labeled by receipt status ("success" or "failed").
func (s Sink) RecordConfirmation(status uint64) {
	label := "failed"
	if status == 1 {
		label = "success"
	}
	transactionsConfirmed.WithLabelValues(s.ChainID, label).Inc()
}
