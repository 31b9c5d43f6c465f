// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibeshare_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// VibesSent counts vibes delivered between users.
	VibesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vibeshare_vibes_sent_total",
		Help: "Total number of vibes sent",
	})

	// PointsAwarded sums points granted, by reason.
	PointsAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibeshare_points_awarded_total",
		Help: "Total points awarded by reason",
	}, []string{"reason"})

	// QuestsCompleted counts pending to completed quest transitions.
	QuestsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibeshare_quests_completed_total",
		Help: "Total number of daily quests completed",
	}, []string{"quest_type"})

	// BadgesAwarded counts automatically granted badges.
	BadgesAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibeshare_badges_awarded_total",
		Help: "Total number of badges awarded",
	}, []string{"badge_type"})

	// FeedAssemblyLatency records how long building a feed takes.
	FeedAssemblyLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vibeshare_feed_assembly_latency_seconds",
		Help:    "Feed assembly latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// FeedItemsDropped counts feed posts skipped because the author was missing.
	FeedItemsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vibeshare_feed_items_dropped_total",
		Help: "Posts dropped from feeds because their author could not be resolved",
	})

	// ExternalRequests counts calls to third-party APIs by service and outcome.
	ExternalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibeshare_external_requests_total",
		Help: "Total calls to external services",
	}, []string{"service", "endpoint", "outcome"})
)

// Point award reasons.
const (
	ReasonVibeSent       = "vibe_sent"
	ReasonQuestCompleted = "quest_completed"
)

// ObserveSince records the elapsed time since start on h.
func ObserveSince(h prometheus.Observer, start time.Time) {
	h.Observe(time.Since(start).Seconds())
}
