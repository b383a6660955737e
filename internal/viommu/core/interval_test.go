package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntervalTree_InsertLookupRemove(t *testing.T) {
	t.Parallel()

	tr := NewIntervalTree[int]()

	assert.True(t, tr.Insert(Interval{Low: 0x1000, High: 0x1fff}, 1))
	assert.True(t, tr.Insert(Interval{Low: 0x3000, High: 0x3fff}, 2))
	assert.Equal(t, 2, tr.Len())

	_, v, ok := tr.LookupContaining(0x1800)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, _, ok = tr.LookupContaining(0x2800)
	assert.False(t, ok)

	v, ok = tr.LookupExact(0x3000, 0x3fff)
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	assert.True(t, tr.Remove(Interval{Low: 0x1000, High: 0x1000}))
	assert.Equal(t, 1, tr.Len())
	_, _, ok = tr.LookupContaining(0x1800)
	assert.False(t, ok)
}

func TestIntervalTree_OverlapRejected(t *testing.T) {
	t.Parallel()

	tr := NewIntervalTree[int]()
	assert.True(t, tr.Insert(Interval{Low: 0, High: 0xffff}, 1))

	// exact duplicate
	assert.False(t, tr.Insert(Interval{Low: 0, High: 0xffff}, 2))
	// partial overlap
	assert.False(t, tr.Insert(Interval{Low: 0x0800, High: 0x0fff}, 2))
	// containing overlap
	assert.False(t, tr.Insert(Interval{Low: 0, High: 0x1ffff}, 2))
	assert.Equal(t, 1, tr.Len())
}

func TestIntervalTree_ForEachOrdered(t *testing.T) {
	t.Parallel()

	tr := NewIntervalTree[int]()
	tr.Insert(Interval{Low: 0x3000, High: 0x3fff}, 3)
	tr.Insert(Interval{Low: 0x1000, High: 0x1fff}, 1)
	tr.Insert(Interval{Low: 0x2000, High: 0x2fff}, 2)

	var seen []int
	tr.ForEach(func(_ Interval, v int) { seen = append(seen, v) })
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestIntervalTree_FirstOverlapping(t *testing.T) {
	t.Parallel()

	tr := NewIntervalTree[int]()
	tr.Insert(Interval{Low: 0, High: 0xfff}, 1)
	tr.Insert(Interval{Low: 0x1000, High: 0x1fff}, 2)
	tr.Insert(Interval{Low: 0x3000, High: 0x4fff}, 3)

	key, v, ok := tr.FirstOverlapping(0, 0x3fff)
	assert.True(t, ok)
	assert.Equal(t, Interval{Low: 0, High: 0xfff}, key)
	assert.Equal(t, 1, v)

	_, _, ok = tr.FirstOverlapping(0x2000, 0x2fff)
	assert.False(t, ok)
}

func TestIntervalTree_SequentialInsertRemoveKeepsRestReachable(t *testing.T) {
	t.Parallel()

	tr := NewIntervalTree[int]()
	for i := 0; i < 64; i++ {
		low := uint64(i * 0x1000)
		high := low + 0xfff
		assert.True(t, tr.Insert(Interval{Low: low, High: high}, i))
	}
	assert.Equal(t, 64, tr.Len())

	// remove every other entry, then confirm the rest are still reachable.
	for i := 0; i < 64; i += 2 {
		low := uint64(i * 0x1000)
		assert.True(t, tr.Remove(Interval{Low: low, High: low}))
	}
	assert.Equal(t, 32, tr.Len())

	for i := 1; i < 64; i += 2 {
		low := uint64(i * 0x1000)
		_, v, ok := tr.LookupContaining(low + 4)
		assert.True(t, ok)
		assert.Equal(t, i, v)
	}
}
