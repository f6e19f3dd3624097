// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/allinbank/internal/models"
)

const namespace = "allinbank"

var (
	rpcDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "Duration of Connect RPCs by procedure and result code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure", "code"})

	entriesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_recorded_total",
		Help:      "Ledger entries recorded by kind.",
	}, []string{"kind"})

	settlements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlements_total",
		Help:      "Settlement computations by result.",
	}, []string{"result"})

	transfersPerSettlement = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "settlement_transfers",
		Help:      "Number of transfers produced per successful settlement.",
		Buckets:   prometheus.LinearBuckets(0, 1, 12),
	})
)

// ObserveRPC records one RPC call. code is "ok" or a Connect error code.
func ObserveRPC(procedure, code string, d time.Duration) {
	rpcDuration.WithLabelValues(procedure, code).Observe(d.Seconds())
}

// EntryRecorded counts one ledger entry of the given kind.
func EntryRecorded(kind models.EntryKind) {
	entriesRecorded.WithLabelValues(string(kind)).Inc()
}

// SettlementComputed records the outcome of one settlement.
func SettlementComputed(transfers int, err error) {
	if err != nil {
		settlements.WithLabelValues("unbalanced").Inc()
		return
	}
	settlements.WithLabelValues("ok").Inc()
	transfersPerSettlement.Observe(float64(transfers))
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
