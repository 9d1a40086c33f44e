//go:build linux

package top

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_PutGet(t *testing.T) {
	h, err := NewHistory(16, 0)
	require.NoError(t, err)

	now := time.Now()
	id := Identity{PID: 42}

	_, ok := h.Get(id)
	assert.False(t, ok)

	h.Put(id, 1000, now)
	ent, ok := h.Get(id)
	require.True(t, ok)
	assert.Equal(t, uint64(1000), ent.TotalTicks)
	assert.Equal(t, now, ent.At)

	// replace on subsequent sample
	h.Put(id, 1500, now.Add(time.Second))
	ent, _ = h.Get(id)
	assert.Equal(t, uint64(1500), ent.TotalTicks)
	assert.Equal(t, 1, h.Len(), "at most one entry per identity")
}

func TestHistory_ThreadIdentityIsDistinct(t *testing.T) {
	h, err := NewHistory(16, 0)
	require.NoError(t, err)
	now := time.Now()

	h.Put(Identity{PID: 42}, 10, now)
	h.Put(Identity{PID: 42, TID: 43}, 20, now)
	assert.Equal(t, 2, h.Len())

	ent, ok := h.Get(Identity{PID: 42, TID: 43})
	require.True(t, ok)
	assert.Equal(t, uint64(20), ent.TotalTicks)
}

func TestHistory_CapacityNeverExceeded(t *testing.T) {
	const maxEntries = 8
	h, err := NewHistory(maxEntries, 0)
	require.NoError(t, err)

	now := time.Now()
	for pid := 1; pid <= 1000; pid++ {
		h.Put(Identity{PID: pid}, uint64(pid), now)
		assert.LessOrEqual(t, h.Len(), maxEntries)
	}
	// most recently touched entries survive
	for pid := 993; pid <= 1000; pid++ {
		_, ok := h.Get(Identity{PID: pid})
		assert.True(t, ok, "pid %d should have survived", pid)
	}
	_, ok := h.Get(Identity{PID: 1})
	assert.False(t, ok)
}

func TestHistory_EvictStale(t *testing.T) {
	h, err := NewHistory(16, 0)
	require.NoError(t, err)

	base := time.Now()
	h.Put(Identity{PID: 1}, 1, base.Add(-30*time.Second))
	h.Put(Identity{PID: 2}, 2, base.Add(-3*time.Second))
	h.Put(Identity{PID: 3}, 3, base)

	h.EvictStale(base, 8*time.Second)

	_, ok := h.Get(Identity{PID: 1})
	assert.False(t, ok, "entry older than threshold must be gone")
	_, ok = h.Get(Identity{PID: 2})
	assert.True(t, ok)
	_, ok = h.Get(Identity{PID: 3})
	assert.True(t, ok)
}

func TestHistory_EvictOverCapacity(t *testing.T) {
	h, err := NewHistory(64, 0)
	require.NoError(t, err)
	now := time.Now()
	for pid := 1; pid <= 64; pid++ {
		h.Put(Identity{PID: pid}, uint64(pid), now)
	}
	h.EvictOverCapacity(10)
	assert.Equal(t, 10, h.Len())
	// the newest updates are the keepers
	_, ok := h.Get(Identity{PID: 64})
	assert.True(t, ok)
	_, ok = h.Get(Identity{PID: 1})
	assert.False(t, ok)
}

func TestHistory_RowCacheTTL(t *testing.T) {
	h, err := NewHistory(16, 30*time.Millisecond)
	require.NoError(t, err)

	row := Sample{PID: 42, CPUPercent: 12.5, Kind: KindProcess}
	h.CacheRow(row)

	got, ok := h.CachedRow(Identity{PID: 42})
	require.True(t, ok)
	assert.Equal(t, row, got)

	time.Sleep(60 * time.Millisecond)
	_, ok = h.CachedRow(Identity{PID: 42})
	assert.False(t, ok, "row must expire after the TTL")
}
