package seq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ringalloc/alloc"
	"github.com/joshuapare/ringalloc/alloc/verify"
)

func newTestHeap(t *testing.T, n int) *alloc.Allocator {
	t.Helper()
	return alloc.New(alloc.NewRegion(0x1000, make([]byte, n)), nil)
}

func TestNew_AllocatesInitialCapacity(t *testing.T) {
	h := newTestHeap(t, 1024)
	s, err := New(h)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, InitialCap, s.Cap())
	assert.Equal(t, 1, h.Stats().AllocCalls)
}

func TestNew_RegionTooSmall(t *testing.T) {
	_, err := New(newTestHeap(t, 8))
	assert.ErrorIs(t, err, alloc.ErrRegionTooSmall)
}

func TestAppendPop(t *testing.T) {
	s, err := New(newTestHeap(t, 1024))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(int32(i*10)))
	}
	assert.Equal(t, []int32{0, 10, 20, 30, 40}, s.Values())

	v, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, int32(40), v)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, int32(30), s.At(3))
	assert.Panics(t, func() { s.At(4) })

	require.NoError(t, s.Append(-7))
	assert.Equal(t, []int32{0, 10, 20, 30, -7}, s.Values())
}

func TestPopEmpty(t *testing.T) {
	s, err := New(newTestHeap(t, 1024))
	require.NoError(t, err)

	_, ok := s.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestGrowthCopiesAndReleasesOldBlock(t *testing.T) {
	h := newTestHeap(t, 4096)
	s, err := New(h)
	require.NoError(t, err)
	first := s.Addr()

	for i := 0; i < InitialCap+1; i++ {
		require.NoError(t, s.Append(int32(i)))
	}
	assert.Equal(t, 2*InitialCap, s.Cap())
	assert.NotEqual(t, first, s.Addr())
	for i := 0; i < InitialCap+1; i++ {
		assert.Equal(t, int32(i), s.At(i))
	}

	// The old block is free again.
	blocks, err := h.Blocks()
	require.NoError(t, err)
	for _, b := range blocks {
		if b.Payload == first {
			assert.True(t, b.Free)
		}
	}
	assert.Equal(t, 1, h.Stats().FreeCalls)
	require.NoError(t, verify.Ring(h))
}

func TestGrowthFailureKeepsContents(t *testing.T) {
	// Room for the initial 32-byte block and little else.
	h := newTestHeap(t, 2*alloc.HeaderSize+32+alloc.HeaderSize+16)
	s, err := New(h)
	require.NoError(t, err)

	for i := 0; i < InitialCap; i++ {
		require.NoError(t, s.Append(int32(i)))
	}
	err = s.Append(99)
	require.ErrorIs(t, err, alloc.ErrNoSpace)

	assert.Equal(t, InitialCap, s.Len())
	assert.Equal(t, []int32{0, 1, 2, 3, 4, 5, 6, 7}, s.Values())
	require.NoError(t, s.Release())
	require.NoError(t, verify.Ring(h))
}

func TestRelease(t *testing.T) {
	h := newTestHeap(t, 1024)
	s, err := New(h)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		require.NoError(t, s.Append(int32(i)))
	}

	require.NoError(t, s.Release())
	require.NoError(t, s.Release(), "second release is a no-op")
	assert.ErrorIs(t, s.Append(1), ErrReleased)
	_, ok := s.Pop()
	assert.False(t, ok)

	blocks, err := h.Blocks()
	require.NoError(t, err)
	assert.Len(t, blocks, 2, "all storage returned and merged")
}

func TestLockedHeap(t *testing.T) {
	h := newTestHeap(t, 1024)
	s, err := New(alloc.NewLocked(h))
	require.NoError(t, err)
	for i := 0; i < 40; i++ {
		require.NoError(t, s.Append(int32(i)))
	}
	assert.Equal(t, 40, s.Len())
	require.NoError(t, s.Release())
	require.NoError(t, verify.Ring(h))
}
