// Package seq implements a growable int32 sequence whose storage lives in an
// alloc.Heap. Growth never resizes in place: a larger block is allocated, the
// elements are copied over and the old block is released.
package seq

import (
	"errors"
	"fmt"

	"github.com/joshuapare/ringalloc/alloc"
	"github.com/joshuapare/ringalloc/internal/buf"
)

const (
	// elemSize is the encoded size of one element (little-endian int32).
	elemSize = 4

	// InitialCap is the number of elements the first storage block holds.
	InitialCap = 8
)

// ErrReleased indicates use of a sequence after Release.
var ErrReleased = errors.New("seq: sequence released")

// Ints is a resizable int32 sequence backed by heap-allocated storage.
type Ints struct {
	h    alloc.Heap
	addr alloc.Addr
	data []byte
	n    int
	cap  int

	released bool
}

// New allocates storage for InitialCap elements from h.
func New(h alloc.Heap) (*Ints, error) {
	s := &Ints{h: h}
	if err := s.resize(InitialCap); err != nil {
		return nil, err
	}
	return s, nil
}

// Append adds v at the end, doubling the capacity when full. On allocation
// failure the sequence is left unchanged and still owns its storage.
func (s *Ints) Append(v int32) error {
	if s.released {
		return ErrReleased
	}
	if s.n == s.cap {
		if err := s.resize(s.cap * 2); err != nil {
			return err
		}
	}
	buf.PutI32LE(s.data[s.n*elemSize:], v)
	s.n++
	return nil
}

// Pop removes the last element. ok is false when the sequence is empty.
func (s *Ints) Pop() (v int32, ok bool) {
	if s.released || s.n == 0 {
		return 0, false
	}
	v = s.At(s.n - 1)
	s.n--
	return v, true
}

// At returns element i. It panics when i is out of range, like a slice index.
func (s *Ints) At(i int) int32 {
	if i < 0 || i >= s.n {
		panic(fmt.Sprintf("seq: index %d out of range [0:%d]", i, s.n))
	}
	return buf.I32LE(s.data[i*elemSize:])
}

// Len returns the number of elements.
func (s *Ints) Len() int { return s.n }

// Cap returns the number of elements the current storage block can hold.
func (s *Ints) Cap() int { return s.cap }

// Addr returns the payload address of the current storage block.
func (s *Ints) Addr() alloc.Addr { return s.addr }

// Values copies the elements out.
func (s *Ints) Values() []int32 {
	out := make([]int32, s.n)
	for i := range out {
		out[i] = s.At(i)
	}
	return out
}

// Release returns the storage to the heap. Later calls do nothing.
func (s *Ints) Release() error {
	if s.released {
		return nil
	}
	s.released = true
	s.n, s.cap = 0, 0
	s.data = nil
	if err := s.h.Free(s.addr); err != nil {
		return fmt.Errorf("seq: release storage: %w", err)
	}
	return nil
}

// resize moves the elements into a fresh block of newCap elements.
func (s *Ints) resize(newCap int) error {
	size, ok := buf.MulOverflowSafe(newCap, elemSize)
	if !ok {
		return fmt.Errorf("seq: capacity %d: %w", newCap, alloc.ErrNoSpace)
	}
	addr, data, err := s.h.Alloc(size)
	if err != nil {
		return fmt.Errorf("seq: grow to %d elements: %w", newCap, err)
	}

	old, hadOld := s.addr, s.data != nil
	copy(data, s.data[:s.n*elemSize])
	s.addr, s.data, s.cap = addr, data, newCap

	if hadOld {
		if err := s.h.Free(old); err != nil {
			return fmt.Errorf("seq: release old storage: %w", err)
		}
	}
	return nil
}
