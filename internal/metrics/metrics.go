package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ticks_total", Help: "Count of market ticks ingested"},
		[]string{"symbol"},
	)
	TicksDefaulted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ticks_defaulted_total", Help: "Ticks stored with a zero-defaulted price or size after a parse failure"},
		[]string{"symbol"},
	)
	ReconnectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "feed_reconnects_total", Help: "Reconnect attempts per symbol stream"},
		[]string{"symbol"},
	)
	FlushesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "flushes_total", Help: "Buffer flushes attempted"},
	)
	FlushFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "flush_failures_total", Help: "Buffer flushes that failed; the batch is dropped"},
	)
	FlushedTicks = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "flushed_ticks_total", Help: "Ticks persisted via batched flushes"},
	)
	BarsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "bars_total", Help: "OHLC bars upserted"},
		[]string{"symbol", "timeframe"},
	)
	AggregateErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "aggregate_errors_total", Help: "Per-symbol aggregation cycle failures"},
		[]string{"timeframe"},
	)
)

func init() {
	prometheus.MustRegister(
		TicksTotal, TicksDefaulted, ReconnectsTotal,
		FlushesTotal, FlushFailures, FlushedTicks,
		BarsTotal, AggregateErrors,
	)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{ Addr: addr, Handler: mux }
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
