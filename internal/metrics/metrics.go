// Package metrics exposes the engine's buffer pool, lock table, and
// transaction counters as Prometheus gauges/counters, served over
// /metrics alongside the SQL server's TCP listener.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	BufferPoolAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arcdb_buffer_pool_available",
		Help: "Number of unpinned buffer frames currently available.",
	})

	BufferPoolSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arcdb_buffer_pool_size",
		Help: "Total number of buffer frames configured.",
	})

	LockWaitTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcdb_lock_wait_timeouts_total",
		Help: "Number of lock acquisitions that timed out.",
	})

	TransactionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcdb_transactions_started_total",
		Help: "Number of transactions begun.",
	})

	TransactionsCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcdb_transactions_committed_total",
		Help: "Number of transactions committed.",
	})

	TransactionsRolledBack = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcdb_transactions_rolled_back_total",
		Help: "Number of transactions rolled back.",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arcdb_active_sessions",
		Help: "Number of currently connected TCP sessions.",
	})

	StatementsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arcdb_statements_executed_total",
		Help: "Number of statements executed, by command kind.",
	}, []string{"kind"})
)

// Serve starts an HTTP server exposing /metrics on addr. It runs until
// the process exits or the listener fails; callers typically invoke
// it in its own goroutine.
func Serve(addr string, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info().Str("addr", addr).Msg("metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}
