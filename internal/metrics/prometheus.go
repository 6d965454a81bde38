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
			Name: "aura_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aura_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"worker"},
	)

	WorkerLastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aura_worker_last_run_timestamp",
			Help: "Unix timestamp of last worker execution",
		},
		[]string{"worker"},
	)

	// Ingestion metrics
	ArticlesFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_articles_fetched_total",
			Help: "Total number of raw articles fetched from the news API",
		},
		[]string{"country"},
	)

	ArticlesFiltered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_articles_filtered_total",
			Help: "Total number of articles dropped by the pre-analysis filter",
		},
		[]string{"country"},
	)

	RecordsInserted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_records_inserted_total",
			Help: "Total number of new records persisted",
		},
		[]string{"country"},
	)

	RecordsByRiskLevel = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_records_by_risk_level_total",
			Help: "Total number of analyzed records by risk level",
		},
		[]string{"risk_level"},
	)

	AlertsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_alerts_sent_total",
			Help: "Total number of critical alerts dispatched",
		},
		[]string{"country"},
	)

	// Model metrics
	InferenceCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_inference_calls_total",
			Help: "Total number of model inference calls",
		},
		[]string{"task", "status"}, // task: sentiment|classify, status: success|error
	)

	InferenceLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aura_inference_latency_seconds",
			Help:    "Model inference latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"task"},
	)

	// News API metrics
	NewsAPICalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_newsapi_calls_total",
			Help: "Total number of news API calls",
		},
		[]string{"country", "status"}, // status: success|error
	)

	// Database metrics
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DuplicatesSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aura_duplicates_skipped_total",
			Help: "Total number of records skipped as duplicates on insert",
		},
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
	prometheus.MustRegister(WorkerLastRun)

	prometheus.MustRegister(ArticlesFetched)
	prometheus.MustRegister(ArticlesFiltered)
	prometheus.MustRegister(RecordsInserted)
	prometheus.MustRegister(RecordsByRiskLevel)
	prometheus.MustRegister(AlertsSent)

	prometheus.MustRegister(InferenceCalls)
	prometheus.MustRegister(InferenceLatency)

	prometheus.MustRegister(NewsAPICalls)

	prometheus.MustRegister(DBQueries)
	prometheus.MustRegister(DuplicatesSkipped)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
	WorkerLastRun.WithLabelValues(worker).SetToCurrentTime()
}
