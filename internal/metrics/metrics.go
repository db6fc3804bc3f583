package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edutrack_http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edutrack_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AuthRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edutrack_auth_rejections_total",
			Help: "Requests rejected by the auth gate, by reason.",
		},
		[]string{"reason"},
	)

	InteractionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edutrack_interaction_transitions_total",
			Help: "Applied like/dislike transitions.",
		},
		[]string{"action", "from", "to"},
	)

	RecommendationChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edutrack_recommendation_changes_total",
			Help: "Recommend and unrecommend calls by outcome.",
		},
		[]string{"operation", "outcome"},
	)
)
