// Package poll implements the per-view refresh controllers: interval-driven
// fetch loops with user-triggered refreshes, and the registry that owns every
// timer so view teardown cannot leak one.
package poll

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/crewhub-app/sync-agent/pkg/logger"
	"github.com/crewhub-app/sync-agent/pkg/metrics"
)

// FetchFunc performs one fetch cycle for a view.
type FetchFunc func(ctx context.Context) error

// Poller re-runs a fetch on a fixed interval and on explicit triggers. A
// failed fetch records the error and keeps ticking; it never stops the loop.
type Poller struct {
	view     string
	interval time.Duration
	fetch    FetchFunc
	logger   *logger.Logger

	trigger chan struct{}

	mu      sync.Mutex
	lastErr error
}

// NewPoller creates a poller for one view.
func NewPoller(view string, interval time.Duration, fetch FetchFunc, log *logger.Logger) *Poller {
	return &Poller{
		view:     view,
		interval: interval,
		fetch:    fetch,
		logger:   log,
		trigger:  make(chan struct{}, 1),
	}
}

// Run fetches immediately, then on every tick or trigger, until the context
// is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.runFetch(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runFetch(ctx)
		case <-p.trigger:
			p.runFetch(ctx)
		}
	}
}

// Trigger requests an immediate fetch, typically after a user action that
// changed server state. Coalesces when a trigger is already pending.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Err returns the error of the most recent fetch, or nil.
func (p *Poller) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Poller) runFetch(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	err := p.fetch(ctx)
	metrics.RecordPollTick(p.view, err)

	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()

	if err != nil && p.logger != nil {
		p.logger.Warn("poll fetch failed", zap.String("view", p.view), zap.Error(err))
	}
}
