package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(sweepsTotal, sweepDurationSec, alertsSentTotal, sweepDocErrors)
}

var sweepsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sweeps_total",
		Help: "Alert sweeps by outcome (completed/skipped_lock/skipped_market/failed).",
	},
	[]string{"outcome"},
)

var sweepDurationSec = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "sweep_duration_seconds",
		Help:    "Wall time of one full alert sweep.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 160},
	},
)

var alertsSentTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "alerts_sent_total",
		Help: "Alerts delivered, labeled by kind (zone_approach/zone_entry/zone_breach/trade_approach/trade_entry).",
	},
	[]string{"kind"},
)

var sweepDocErrors = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "sweep_document_errors_total",
		Help: "Zones or trades that errored during a sweep without aborting it.",
	},
)

func IncSweep(outcome string) {
	sweepsTotal.WithLabelValues(norm(outcome)).Inc()
}

func ObserveSweepDuration(seconds float64) {
	sweepDurationSec.Observe(seconds)
}

func IncAlertSent(kind string) {
	alertsSentTotal.WithLabelValues(norm(kind)).Inc()
}

func IncSweepDocError() {
	sweepDocErrors.Inc()
}
