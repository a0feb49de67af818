package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	DirectionToISO    = "to_iso"
	DirectionToFrench = "to_french"
)

// Metrics provides observability for address conversion and storage.
type Metrics struct {
	// Conversions by direction and address kind
	Conversions *prometheus.CounterVec

	// Validation failures by format and field
	ValidationFailures *prometheus.CounterVec

	// Repository call latency by operation and result
	StorageLatency *prometheus.HistogramVec
}

// New registers all address metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fraddr_conversions_total",
			Help: "Total address conversions by direction and kind",
		}, []string{"direction", "kind"}),

		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fraddr_validation_failures_total",
			Help: "Total validation failures by address format and offending field",
		}, []string{"format", "field"}),

		StorageLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fraddr_storage_duration_seconds",
			Help:    "Duration of repository operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"op", "result"}),
	}
}

func (m *Metrics) IncConversion(direction, kind string) {
	if m != nil {
		m.Conversions.WithLabelValues(direction, kind).Inc()
	}
}

func (m *Metrics) IncValidationFailure(format, field string) {
	if m != nil {
		m.ValidationFailures.WithLabelValues(format, field).Inc()
	}
}

// ObserveStorage records how long a repository call took. result is "ok" or "error".
func (m *Metrics) ObserveStorage(op string, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.StorageLatency.WithLabelValues(op, result).Observe(d.Seconds())
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
