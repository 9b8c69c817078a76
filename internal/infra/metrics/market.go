package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(quoteFetchLatencyMs, quoteFetchErrors, quoteCacheHits)
}

var quoteFetchLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "quote_fetch_latency_ms",
		Help:    "Quote provider call latency distribution in milliseconds.",
		Buckets: []float64{25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
	},
	[]string{"success"},
)

var quoteFetchErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quote_fetch_errors_total",
		Help: "Quote provider failures by reason (http/decode/empty).",
	},
	[]string{"reason"},
)

var quoteCacheHits = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quote_cache_total",
		Help: "Day-low cache lookups by result (hit/miss).",
	},
	[]string{"result"},
)

func ObserveQuoteFetch(latencyMs int, success bool) {
	quoteFetchLatencyMs.WithLabelValues(strconv.FormatBool(success)).Observe(float64(latencyMs))
}

func IncQuoteFetchError(reason string) {
	quoteFetchErrors.WithLabelValues(norm(reason)).Inc()
}

func IncQuoteCache(result string) {
	quoteCacheHits.WithLabelValues(norm(result)).Inc()
}
