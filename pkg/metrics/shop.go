package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommendation engine, model rerank included
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "smartshop_recommend_latency_seconds",
		Help:    "Latency of recommendation requests",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of recommendation lists served
	RecommendRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "smartshop_recommend_requests_total",
		Help: "Total number of recommendation requests",
	})

	// Chat turns by resolved intent
	ChatIntents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartshop_chat_intents_total",
		Help: "Chat messages routed, by intent",
	}, []string{"intent"})

	// Model adapter calls by operation and outcome (ok|failed)
	ModelCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartshop_model_calls_total",
		Help: "External model calls by operation and outcome",
	}, []string{"operation", "outcome"})

	// How often a caller dropped back to its heuristic result
	ModelFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smartshop_model_fallbacks_total",
		Help: "Heuristic fallbacks taken after a failed model call",
	}, []string{"operation"})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendRequests,
		ChatIntents,
		ModelCalls,
		ModelFallbacks,
	)
}
