package service

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeSuccess          = "success"
	outcomeFallback         = "fallback"
	outcomeCompletionError  = "completion_error"
	outcomePersistenceError = "persistence_error"
)

var ingestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fast_note_ai",
	Subsystem: "ingest",
	Name:      "requests_total",
	Help:      "Natural language ingest requests by outcome.",
}, []string{"outcome"})

func init() {
	prometheus.MustRegister(ingestTotal)
}
