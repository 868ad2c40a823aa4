// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Replay metrics
	BarsProcessed  prometheus.Counter
	TradesOpened   prometheus.Counter
	TradesClosed   *prometheus.CounterVec
	RunsTotal      *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	OpenSlots      prometheus.Gauge
	CurrentEquity  prometheus.Gauge
	SeriesRejected *prometheus.CounterVec

	// Feed metrics
	TicksCaptured  prometheus.Counter
	BarsAggregated prometheus.Counter
	BarsIngested   prometheus.Counter
	FeedErrors     *prometheus.CounterVec

	// Sweep metrics
	SweepRunsTotal *prometheus.CounterVec
	SweepDuration  prometheus.Histogram

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun    prometheus.Gauge
	LastSuccessfulIngest prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "fx_backtest_lab"
	}

	return &Metrics{
		// Replay metrics
		BarsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "replay",
			Name:      "bars_processed_total",
			Help:      "Total number of bars processed across all runs",
		}),
		TradesOpened: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "replay",
			Name:      "trades_opened_total",
			Help:      "Total number of positions opened",
		}),
		TradesClosed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "replay",
			Name:      "trades_closed_total",
			Help:      "Total number of positions closed by exit reason",
		}, []string{"exit_reason"}),
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "replay",
			Name:      "runs_total",
			Help:      "Total number of replay runs by status",
		}, []string{"status"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "replay",
			Name:      "run_duration_seconds",
			Help:      "Replay run duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}),
		OpenSlots: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "replay",
			Name:      "open_slots",
			Help:      "Number of currently open position slots",
		}),
		CurrentEquity: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "replay",
			Name:      "current_equity_usd",
			Help:      "Equity of the run in progress in USD",
		}),
		SeriesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "replay",
			Name:      "series_rejected_total",
			Help:      "Total number of input series rejected by validation",
		}, []string{"reason"}),

		// Feed metrics
		TicksCaptured: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "ticks_captured_total",
			Help:      "Total number of ticks captured from the websocket feed",
		}),
		BarsAggregated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "bars_aggregated_total",
			Help:      "Total number of bars aggregated from ticks",
		}),
		BarsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "bars_ingested_total",
			Help:      "Total number of bars written to the bar store",
		}),
		FeedErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "errors_total",
			Help:      "Total number of feed errors by type",
		}, []string{"error_type"}),

		// Sweep metrics
		SweepRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "runs_total",
			Help:      "Total number of sweep runs by status",
		}, []string{"status"}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "duration_seconds",
			Help:      "Full sweep duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful replay run",
		}),
		LastSuccessfulIngest: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_ingest_timestamp",
			Help:      "Unix timestamp of last successful bar ingestion",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordBarsProcessed adds to the bars processed counter.
func RecordBarsProcessed(n int) {
	DefaultMetrics.BarsProcessed.Add(float64(n))
}

// RecordTradeOpened increments the trades opened counter.
func RecordTradeOpened() {
	DefaultMetrics.TradesOpened.Inc()
}

// RecordTradeClosed increments the trades closed counter for the exit reason.
func RecordTradeClosed(exitReason string) {
	DefaultMetrics.TradesClosed.WithLabelValues(exitReason).Inc()
}

// RecordRun records a completed replay run.
func RecordRun(status string, durationSeconds float64) {
	DefaultMetrics.RunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.RunDuration.Observe(durationSeconds)
}

// RecordSeriesRejected increments the validation rejection counter.
func RecordSeriesRejected(reason string) {
	DefaultMetrics.SeriesRejected.WithLabelValues(reason).Inc()
}

// UpdateReplayState updates the open slots and equity gauges.
func UpdateReplayState(openSlots int, equity float64) {
	DefaultMetrics.OpenSlots.Set(float64(openSlots))
	DefaultMetrics.CurrentEquity.Set(equity)
}

// RecordTickCaptured increments the ticks captured counter.
func RecordTickCaptured() {
	DefaultMetrics.TicksCaptured.Inc()
}

// RecordBarsIngested adds to the aggregated and ingested bar counters.
func RecordBarsIngested(n int) {
	DefaultMetrics.BarsAggregated.Add(float64(n))
	DefaultMetrics.BarsIngested.Add(float64(n))
}

// RecordFeedError records a feed error by type.
func RecordFeedError(errorType string) {
	DefaultMetrics.FeedErrors.WithLabelValues(errorType).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordSweepRun records a sweep outcome.
func RecordSweepRun(status string, durationSeconds float64) {
	DefaultMetrics.SweepRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.SweepDuration.Observe(durationSeconds)
}
