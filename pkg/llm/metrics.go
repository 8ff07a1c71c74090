package llm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "fast_note_ai",
	Subsystem: "llm",
	Name:      "request_duration_seconds",
	Help:      "Latency of chat completion requests.",
	Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
}, []string{"model", "outcome"})

func init() {
	prometheus.MustRegister(requestDuration)
}

func observe(model string, err error, d time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	requestDuration.WithLabelValues(model, outcome).Observe(d.Seconds())
}
