package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	reportExporter = "report_exporter"

	jobsProcessedTotal = "jobs_processed_total"
	queueDroppedTotal  = "queue_dropped_total"
	queueDepth         = "queue_depth"

	reportTypeLabel = "type"
	jobStatusLabel  = "status"
)

var jobsProcessedLabels = []string{
	reportTypeLabel,
	jobStatusLabel,
}

/**
* Metrics definition
**/
var jobsProcessedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: reportExporter,
		Name:      jobsProcessedTotal,
		Help:      "number of export jobs driven to a terminal state, by report type and outcome",
	},
	jobsProcessedLabels,
)

var queueDroppedTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: reportExporter,
		Name:      queueDroppedTotal,
		Help:      "number of submissions dropped because the queue was full",
	},
)

var queueDepthMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: reportExporter,
		Name:      queueDepth,
		Help:      "number of job ids currently buffered in the submission queue",
	},
)

func IncJobProcessed(reportType, status string) {
	jobsProcessedTotalMetric.With(prometheus.Labels{
		reportTypeLabel: reportType,
		jobStatusLabel:  status,
	}).Inc()
}

func IncQueueDropped() {
	queueDroppedTotalMetric.Inc()
}

func SetQueueDepth(depth int) {
	queueDepthMetric.Set(float64(depth))
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(jobsProcessedTotalMetric)
	prometheus.MustRegister(queueDroppedTotalMetric)
	prometheus.MustRegister(queueDepthMetric)
}
