package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arachne_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arachne_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"worker"},
	)

	WorkerLastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "arachne_worker_last_run_timestamp",
			Help: "Unix timestamp of last worker execution",
		},
		[]string{"worker"},
	)

	// Mining metrics
	MiningRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arachne_mining_runs_total",
			Help: "Total number of mining runs",
		},
		[]string{"symbol", "status"}, // status: success|error
	)

	MiningDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arachne_mining_duration_seconds",
			Help:    "Mining run duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"symbol"},
	)

	PatternsFound = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "arachne_patterns_found",
			Help: "Patterns found by the most recent run, by type",
		},
		[]string{"symbol", "type"}, // type: bullish|bearish|neutral
	)

	WindowsSurviving = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "arachne_windows_surviving",
			Help: "Windows past the noise filter in the most recent run",
		},
		[]string{"symbol"},
	)

	// Provider metrics
	SeriesLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arachne_series_loads_total",
			Help: "Total number of series loads from providers",
		},
		[]string{"provider", "status"}, // status: success|error
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
	prometheus.MustRegister(WorkerLastRun)

	prometheus.MustRegister(MiningRuns)
	prometheus.MustRegister(MiningDuration)
	prometheus.MustRegister(PatternsFound)
	prometheus.MustRegister(WindowsSurviving)

	prometheus.MustRegister(SeriesLoads)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordWorkerExecution records one scheduler-driven worker iteration
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
	WorkerLastRun.WithLabelValues(worker).SetToCurrentTime()
}

// RecordMiningRun records one engine run for a symbol
func RecordMiningRun(symbol string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	MiningRuns.WithLabelValues(symbol, status).Inc()
	if err == nil {
		MiningDuration.WithLabelValues(symbol).Observe(duration.Seconds())
	}
}

// RecordPatterns publishes the latest run's pattern counts for a symbol.
// byType keys are pattern type names.
func RecordPatterns(symbol string, byType map[string]int, surviving int) {
	for typ, count := range byType {
		PatternsFound.WithLabelValues(symbol, typ).Set(float64(count))
	}
	WindowsSurviving.WithLabelValues(symbol).Set(float64(surviving))
}

// RecordSeriesLoad records a provider fetch
func RecordSeriesLoad(provider string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	SeriesLoads.WithLabelValues(provider, status).Inc()
}
