// Package outbox delivers notification records best-effort after a primary
// action has already succeeded. Enqueueing never blocks and never fails the
// caller; delivery is retried a bounded number of times and then dropped, so
// notifications are at-most-once end to end.
package outbox

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crewhub-app/sync-agent/internal/model"
	"github.com/crewhub-app/sync-agent/pkg/logger"
	"github.com/crewhub-app/sync-agent/pkg/metrics"
)

// Publisher delivers one notification record upstream.
type Publisher interface {
	Publish(ctx context.Context, n model.Notification) error
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, n model.Notification) error

// Publish implements Publisher.
func (f PublisherFunc) Publish(ctx context.Context, n model.Notification) error {
	return f(ctx, n)
}

type entry struct {
	id           string
	notification model.Notification
	enqueuedAt   time.Time
}

// Outbox is a bounded in-memory queue with a background dispatcher.
type Outbox struct {
	publisher  Publisher
	queue      chan entry
	maxRetries int
	logger     *logger.Logger
	depth      atomic.Int64

	// newBackOff is a test seam; production uses an exponential policy.
	newBackOff func() backoff.BackOff
}

// New creates an outbox with the given queue capacity and per-record retry
// budget.
func New(pub Publisher, capacity, maxRetries int, log *logger.Logger) *Outbox {
	if capacity < 1 {
		capacity = 1
	}
	return &Outbox{
		publisher:  pub,
		queue:      make(chan entry, capacity),
		maxRetries: maxRetries,
		logger:     log,
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 500 * time.Millisecond
			bo.MaxElapsedTime = 30 * time.Second
			return bo
		},
	}
}

// Enqueue accepts a notification record without blocking. A full queue drops
// the record; the primary action has already succeeded and must not be held
// up or rolled back.
func (o *Outbox) Enqueue(n model.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	e := entry{
		id:           uuid.New().String(),
		notification: n,
		enqueuedAt:   time.Now(),
	}

	select {
	case o.queue <- e:
		metrics.OutboxDepth.Set(float64(o.depth.Add(1)))
	default:
		metrics.OutboxDroppedTotal.WithLabelValues("overflow").Inc()
		if o.logger != nil {
			o.logger.Warn("outbox full, notification dropped",
				zap.String("kind", string(n.Kind)),
				zap.String("recipient_id", n.RecipientID))
		}
	}
}

// Run dispatches queued records until the context is cancelled.
func (o *Outbox) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-o.queue:
			metrics.OutboxDepth.Set(float64(o.depth.Add(-1)))
			o.deliver(ctx, e)
		}
	}
}

// Depth returns the number of queued records.
func (o *Outbox) Depth() int {
	return int(o.depth.Load())
}

func (o *Outbox) deliver(ctx context.Context, e entry) {
	attempts := 0
	op := func() error {
		attempts++
		return o.publisher.Publish(ctx, e.notification)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(o.newBackOff(), uint64(o.maxRetries)), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		metrics.OutboxDroppedTotal.WithLabelValues("exhausted").Inc()
		if o.logger != nil {
			o.logger.Warn("notification dropped after retries",
				zap.String("id", e.id),
				zap.String("kind", string(e.notification.Kind)),
				zap.String("recipient_id", e.notification.RecipientID),
				zap.Int("attempts", attempts),
				zap.Error(err))
		}
		return
	}

	metrics.OutboxDeliveredTotal.Inc()
}
