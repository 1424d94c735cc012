package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the file service's Prometheus collectors.
type Metrics struct {
	operations   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	bytesRead    prometheus.Counter
	bytesWritten prometheus.Counter
}

// NewMetrics registers the collectors on reg. A nil reg yields unregistered
// collectors, which is what tests and library callers without a registry get.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fileservice_operations_total",
				Help: "Total number of file service operations",
			},
			[]string{"op", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fileservice_operation_duration_seconds",
				Help:    "File service operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fileservice_bytes_read_total",
			Help: "Total bytes read from file content",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fileservice_bytes_written_total",
			Help: "Total bytes written as file content",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.operations, m.duration, m.bytesRead, m.bytesWritten)
	}
	return m
}

// Observe records one finished operation. result is the error kind or "ok".
func (m *Metrics) Observe(op, result string, started time.Time) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

func (m *Metrics) AddBytesRead(n int) {
	if m == nil {
		return
	}
	m.bytesRead.Add(float64(n))
}

func (m *Metrics) AddBytesWritten(n int) {
	if m == nil {
		return
	}
	m.bytesWritten.Add(float64(n))
}

// Operations exposes the operation counter for inspection.
func (m *Metrics) Operations() *prometheus.CounterVec {
	return m.operations
}

// BytesRead exposes the read counter for inspection.
func (m *Metrics) BytesRead() prometheus.Counter {
	return m.bytesRead
}

// BytesWritten exposes the write counter for inspection.
func (m *Metrics) BytesWritten() prometheus.Counter {
	return m.bytesWritten
}
