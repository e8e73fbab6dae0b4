package labeld

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the service counters exposed on /metrics.
type Metrics struct {
	Ingested   prometheus.Counter
	Rejected   *prometheus.CounterVec
	Labeled    *prometheus.CounterVec
	WindowSize prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ingested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "labeld_ingested_total",
			Help: "Sensor readings stored.",
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "labeld_rejected_total",
			Help: "Requests rejected by validation, by endpoint.",
		}, []string{"endpoint"}),
		Labeled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "labeld_labeled_total",
			Help: "Samples labeled, by label value.",
		}, []string{"label"}),
		WindowSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "labeld_unlabeled_window_size",
			Help:    "Number of samples returned per unlabeled window request.",
			Buckets: []float64{0, 50, 200, 500, 1000, 2000, 5000},
		}),
	}
	reg.MustRegister(m.Ingested, m.Rejected, m.Labeled, m.WindowSize)
	return m
}

func (m *Metrics) labeled(label int, n int64) {
	m.Labeled.WithLabelValues(strconv.Itoa(label)).Add(float64(n))
}
