//go:build linux

package top

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	gocache "github.com/patrickmn/go-cache"
)

// rowTTL bounds how long a derived row may be served from cache within one
// refresh interval; a slow single scan must not hand out stale rows.
const rowTTL = time.Second

// Entry is the per-identity memory of the last observed cumulative counters.
type Entry struct {
	TotalTicks uint64
	At         time.Time
}

// History is a bounded, staleness-evicted map from identity to its last-seen
// counters, used as the delta baseline across refresh cycles. It doubles as a
// short-TTL cache of derived rows so repeated lookups within one interval
// skip re-parsing. Access is mutex-guarded; a parallelized scanner needs no
// further discipline.
type History struct {
	mu      sync.Mutex
	entries *lru.Cache // Identity -> Entry, capacity-bounded, recency-kept
	rows    *gocache.Cache
}

// NewHistory builds a store holding at most capacity identities. The rowTTL
// parameter exists for tests; production callers pass 0 for the default.
func NewHistory(capacity int, ttl time.Duration) (*History, error) {
	if ttl <= 0 {
		ttl = rowTTL
	}
	entries, err := lru.New(capacity)
	if err != nil {
		return nil, err
	}
	return &History{
		entries: entries,
		rows:    gocache.New(ttl, 2*ttl),
	}, nil
}

// Get returns the last-seen counters for an identity.
func (h *History) Get(id Identity) (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.entries.Get(id)
	if !ok {
		return Entry{}, false
	}
	return v.(Entry), true
}

// Put records the counters observed for an identity, replacing any previous
// entry and evicting the least recently touched identity when over capacity.
func (h *History) Put(id Identity, totalTicks uint64, at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries.Add(id, Entry{TotalTicks: totalTicks, At: at})
}

// Len reports the current identity count.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries.Len()
}

// EvictStale drops identities not re-observed within maxAge. A process absent
// for several refresh cycles has almost certainly exited; its baseline must
// not survive pid reuse.
func (h *History) EvictStale(now time.Time, maxAge time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, k := range h.entries.Keys() {
		v, ok := h.entries.Peek(k)
		if !ok {
			continue
		}
		if now.Sub(v.(Entry).At) > maxAge {
			h.entries.Remove(k)
		}
	}
}

// EvictOverCapacity shrinks the store to at most max entries, discarding the
// least recently updated first.
func (h *History) EvictOverCapacity(max int) {
	if max < 1 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries.Resize(max)
}

// CachedRow returns the derived row for an identity if one was produced
// within the row TTL.
func (h *History) CachedRow(id Identity) (Sample, bool) {
	v, ok := h.rows.Get(id.String())
	if !ok {
		return Sample{}, false
	}
	return v.(Sample), true
}

// CacheRow stores a freshly derived row for the TTL window.
func (h *History) CacheRow(s Sample) {
	h.rows.Set(s.Identity().String(), s, gocache.DefaultExpiration)
}
