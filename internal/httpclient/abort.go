package httpclient

import (
	"context"
	"sync"
)

// abortRegistry groups request cancellation functions under string ids so
// whole flows can be aborted at once.
type abortRegistry struct {
	mu     sync.Mutex
	groups map[string][]context.CancelFunc
}

func newAbortRegistry() *abortRegistry {
	return &abortRegistry{groups: make(map[string][]context.CancelFunc)}
}

func (r *abortRegistry) register(ctx context.Context, group string) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.groups[group] = append(r.groups[group], cancel)
	r.mu.Unlock()
	return ctx
}

func (r *abortRegistry) cancel(group string) {
	r.mu.Lock()
	cancels := r.groups[group]
	delete(r.groups, group)
	r.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}
