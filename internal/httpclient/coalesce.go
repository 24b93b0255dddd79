package httpclient

import (
	"sync"
	"time"
)

// defaultCoalesceGrace keeps a completed GET shareable for a short window so
// bursts landing just after completion still reuse the result.
const defaultCoalesceGrace = 100 * time.Millisecond

type inflight struct {
	done chan struct{}
	body []byte
	err  error
}

// coalescer deduplicates concurrent GETs by key. At most one request per key
// is in flight; followers wait on the leader's result. Entries are evicted
// by a scheduled callback after the grace window.
type coalescer struct {
	mu      sync.Mutex
	entries map[string]*inflight
	grace   time.Duration
}

func newCoalescer(grace time.Duration) *coalescer {
	return &coalescer{
		entries: make(map[string]*inflight),
		grace:   grace,
	}
}

func (c *coalescer) do(key string, fn func() ([]byte, error)) ([]byte, error) {
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.mu.Unlock()
		<-entry.done
		return entry.body, entry.err
	}
	entry := &inflight{done: make(chan struct{})}
	c.entries[key] = entry
	c.mu.Unlock()

	entry.body, entry.err = fn()
	close(entry.done)

	// Failed results are evicted immediately so a retry reaches the server.
	if entry.err != nil || c.grace <= 0 {
		c.evict(key, entry)
	} else {
		time.AfterFunc(c.grace, func() { c.evict(key, entry) })
	}
	return entry.body, entry.err
}

// evict removes the entry only if it is still the one we completed; a newer
// in-flight request for the same key must not be dropped.
func (c *coalescer) evict(key string, entry *inflight) {
	c.mu.Lock()
	if cur, ok := c.entries[key]; ok && cur == entry {
		delete(c.entries, key)
	}
	c.mu.Unlock()
}
