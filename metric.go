package w3ledger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricNameSpace = "w3ledger"
)

var (
	submitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: MetricNameSpace,
			Name:      "da_submit_seconds",
			Help:      "duration of blob submissions to the da network",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 8),
		},
		[]string{"result"},
	)

	recordedTx = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "recorded_transactions",
			Help:      "transactions recorded on the ledger",
		},
		[]string{"tx_type"},
	)

	pendingIndexGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "pending_index",
			Help:      "submitted records whose index write is waiting for a retry",
		},
	)
)

func init() {
	prometheus.MustRegister(
		submitDuration,
		recordedTx,
		pendingIndexGauge,
	)
}

func result(err error) string {
	if err != nil {
		return "fail"
	}
	return "ok"
}

func metricSubmit(d time.Duration, err error) {
	submitDuration.WithLabelValues(result(err)).Observe(d.Seconds())
}

func metricRecorded(txType string) {
	recordedTx.WithLabelValues(txType).Inc()
}

func metricPendingIndex(n int) {
	pendingIndexGauge.Set(float64(n))
}
