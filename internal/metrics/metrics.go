package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OptimizeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ffbo_optimize_total", Help: "Optimizer runs by outcome"},
		[]string{"optimizer", "result"},
	)
	OptimizeSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "ffbo_optimize_seconds", Help: "Optimizer run time", Buckets: prometheus.DefBuckets},
		[]string{"optimizer"},
	)
	ScenarioBatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ffbo_scenario_batches_total", Help: "Scenario batches by outcome"},
		[]string{"mode", "result"},
	)
	ScenariosTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "ffbo_scenarios_total", Help: "Scenarios optimized"},
	)
	MarketPlayers = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "ffbo_market_players", Help: "Players in the last built market"},
	)
	UnresolvedRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ffbo_unresolved_rows_total", Help: "Source rows that matched no player"},
		[]string{"source"},
	)
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ffbo_http_requests_total", Help: "API requests"},
		[]string{"method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(OptimizeTotal, OptimizeSeconds, ScenarioBatchesTotal, ScenariosTotal,
		MarketPlayers, UnresolvedRows, HTTPRequestsTotal)
}

// Result labels an outcome as "ok" or "error".
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveOptimize records one optimizer run that started at start.
func ObserveOptimize(optimizer string, start time.Time, err error) {
	OptimizeSeconds.WithLabelValues(optimizer).Observe(time.Since(start).Seconds())
	OptimizeTotal.WithLabelValues(optimizer, Result(err)).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
