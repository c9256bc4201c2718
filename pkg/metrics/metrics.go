package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timekeep_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	timesheetTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timekeep_timesheet_transitions_total",
			Help: "Timesheet lifecycle transitions by action and outcome",
		},
		[]string{"action", "success"},
	)
	batchItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timekeep_batch_items_total",
			Help: "Bulk sync and week copy items by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// 批量操作名称
const (
	OpBulkSync = "bulk_sync"
	OpCopyWeek = "copy_week"
)

// 批量条目结果
const (
	OutcomeCreated     = "created"
	OutcomeUpdated     = "updated"
	OutcomeOverwritten = "overwritten"
	OutcomeSkipped     = "skipped"
	OutcomeError       = "error"
)

// ObserveRequest 记录一次 HTTP 请求耗时
func ObserveRequest(method, route string, status int, seconds float64) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}

// RecordTransition 记录一次状态流转尝试
func RecordTransition(action string, success bool) {
	timesheetTransitions.WithLabelValues(action, strconv.FormatBool(success)).Inc()
}

// RecordBatchItems 累加批量操作的条目结果
func RecordBatchItems(operation, outcome string, n int) {
	if n <= 0 {
		return
	}
	batchItems.WithLabelValues(operation, outcome).Add(float64(n))
}
