package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFO_PushPop(t *testing.T) {
	q := newFIFO()

	for i := uint64(1); i <= 3; i++ {
		q.push(&task{seq: i})
	}
	require.Equal(t, 3, q.len())

	for i := uint64(1); i <= 3; i++ {
		got := q.pop()
		require.NotNil(t, got)
		assert.Equal(t, i, got.seq)
	}
	assert.Nil(t, q.pop(), "pop from empty queue should return nil")
	assert.Equal(t, 0, q.len())
}

func TestFIFO_GrowPreservesOrderAcrossWrap(t *testing.T) {
	q := newFIFO()

	// Advance head so the next pushes wrap around the ring.
	for i := uint64(0); i < 10; i++ {
		q.push(&task{seq: i})
	}
	for i := 0; i < 8; i++ {
		q.pop()
	}
	for i := uint64(10); i < 50; i++ {
		q.push(&task{seq: i})
	}

	require.Equal(t, 42, q.len())
	for want := uint64(8); want < 50; want++ {
		got := q.pop()
		require.NotNil(t, got)
		assert.Equal(t, want, got.seq)
	}
}

func TestFIFO_PopReleasesSlot(t *testing.T) {
	q := newFIFO()
	q.push(&task{seq: 1})
	q.pop()
	for _, slot := range q.buf {
		assert.Nil(t, slot)
	}
}
