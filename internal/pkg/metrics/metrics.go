// Package metrics defines and registers the custom Prometheus metrics of the
// blog API. Metrics are registered with the default registry at package
// initialisation; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── GraphQL ──────────────────────────────────────────────────────────────────

// GraphQLOperationsTotal counts resolver invocations.
// Labels:
//   - operation: root field name (e.g. "createPost")
//   - outcome: "ok" or the HTTP-equivalent status of the failure (e.g. "401")
var GraphQLOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graphql_operations_total",
		Help:      "Total number of GraphQL root resolver invocations.",
	},
	[]string{"operation", "outcome"},
)

// GraphQLDuration measures resolver latency per operation.
var GraphQLDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "graphql_duration_seconds",
		Help:      "Duration of GraphQL root resolvers.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// PostsCreatedTotal counts posts created through createPost.
var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)

// ── Images ───────────────────────────────────────────────────────────────────

// ImagesStoredTotal counts images accepted by PUT /post-image.
var ImagesStoredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "images_stored_total",
		Help:      "Total number of uploaded images written to storage.",
	},
)

// ImageCleanupTotal counts image removals.
// Label:
//   - result: "removed", "failed" or "dropped" (queue full)
var ImageCleanupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_cleanup_total",
		Help:      "Total number of image removal attempts, by result.",
	},
	[]string{"result"},
)

// ImageCleanupQueueDepth tracks pending removals per cleanup worker.
var ImageCleanupQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "image_cleanup_queue_depth",
		Help:      "Current number of image removals pending in each cleanup worker.",
	},
	[]string{"worker_id"},
)
