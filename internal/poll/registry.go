package poll

import (
	"context"
	"sync"
)

// Registry owns the timers of every active view. Each loop runs under a
// cancel function registered here, so disposing a view (or the whole agent)
// tears down all of its timers and waits for the loops to exit.
type Registry struct {
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
	closed  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{cancels: make(map[string]context.CancelFunc)}
}

// Go starts run in its own goroutine under a child context registered by
// name. Starting a name that is already registered stops the old loop first.
func (r *Registry) Go(ctx context.Context, name string, run func(ctx context.Context)) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if cancel, ok := r.cancels[name]; ok {
		cancel()
	}
	child, cancel := context.WithCancel(ctx)
	r.cancels[name] = cancel
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		run(child)
	}()
}

// Stop cancels the loop registered under name, if any.
func (r *Registry) Stop(name string) {
	r.mu.Lock()
	cancel, ok := r.cancels[name]
	if ok {
		delete(r.cancels, name)
	}
	r.mu.Unlock()

	if ok {
		cancel()
	}
}

// Close cancels every registered loop and waits for all of them to exit.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	cancels := r.cancels
	r.cancels = make(map[string]context.CancelFunc)
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	r.wg.Wait()
}
