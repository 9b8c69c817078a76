package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(screenerProcessedTotal, screenerIlliquidTotal) }

var screenerProcessedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "screener_instruments_processed_total",
		Help: "Instruments examined by the liquidity screener.",
	},
)

var screenerIlliquidTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "screener_illiquid_total",
		Help: "Instruments flagged illiquid, labeled by first matching reason.",
	},
	[]string{"reason"},
)

func IncScreenerProcessed() {
	screenerProcessedTotal.Inc()
}

func IncScreenerIlliquid(reason string) {
	screenerIlliquidTotal.WithLabelValues(norm(reason)).Inc()
}
