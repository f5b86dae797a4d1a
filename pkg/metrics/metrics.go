// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequestDuration tracks upstream API request duration.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream API request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "method", "status"},
	)

	// UpstreamRequestsTotal tracks total upstream API requests.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total upstream API requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	// PollTicksTotal tracks poller fetch cycles by view and outcome.
	PollTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_ticks_total",
			Help: "Total poll fetch cycles",
		},
		[]string{"view", "outcome"},
	)

	// MarkReadCallsTotal tracks mark-as-read round trips.
	MarkReadCallsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mark_read_calls_total",
			Help: "Total mark-as-read calls issued to the upstream API",
		},
	)

	// UnreadConversations tracks conversations currently flagged unread.
	UnreadConversations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "unread_conversations",
			Help: "Number of conversations with the unread flag set",
		},
	)

	// OutboxDepth tracks pending notification records in the outbox.
	OutboxDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "outbox_depth",
			Help: "Pending notification records in the outbox",
		},
	)

	// OutboxDeliveredTotal tracks notifications delivered upstream.
	OutboxDeliveredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outbox_delivered_total",
			Help: "Notification records delivered upstream",
		},
	)

	// OutboxDroppedTotal tracks notifications dropped after retry exhaustion
	// or queue overflow.
	OutboxDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_dropped_total",
			Help: "Notification records dropped",
		},
		[]string{"reason"},
	)

	// WatchersActive tracks open conversation watchers.
	WatchersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "conversation_watchers_active",
			Help: "Number of open conversation watchers",
		},
	)

	// EventsPublishedTotal tracks state-change events published to NATS.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "State-change events published to the fan-out bus",
		},
		[]string{"entity", "outcome"},
	)
)

// RecordUpstreamRequest records metrics for one upstream API request.
func RecordUpstreamRequest(endpoint, method, status string, duration float64) {
	UpstreamRequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
	UpstreamRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

// RecordPollTick records one poller fetch cycle.
func RecordPollTick(view string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	PollTicksTotal.WithLabelValues(view, outcome).Inc()
}
