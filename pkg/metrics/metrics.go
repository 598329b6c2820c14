package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "elearn_http_requests_total",
		Help: "Total HTTP requests processed, by method, path and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "elearn_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Gamification metrics
var (
	XPAwardedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "elearn_xp_awarded_total",
		Help: "Total experience points awarded, by content type",
	}, []string{"content_type"})

	AchievementsUnlockedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "elearn_achievements_unlocked_total",
		Help: "Total achievements unlocked, by metric type",
	}, []string{"metric"})

	LevelUpsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "elearn_level_ups_total",
		Help: "Total user level-ups",
	})
)
