package alloc

import "sync"

// Locked serialises every call on a Heap with a single mutex. The next-fit cursor
// is shared between Alloc and Free, so the whole operation is the critical section.
type Locked struct {
	mu sync.Mutex
	h  Heap
}

// NewLocked wraps h.
func NewLocked(h Heap) *Locked {
	return &Locked{h: h}
}

// Init lays out the wrapped heap.
func (l *Locked) Init() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.h.Init()
}

// Alloc allocates from the wrapped heap.
func (l *Locked) Alloc(size int) (Addr, []byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.h.Alloc(size)
}

// Free releases to the wrapped heap.
func (l *Locked) Free(p Addr) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.h.Free(p)
}

// Do runs fn with the lock held, for callers that need a consistent view of the
// wrapped heap (statistics, verification).
func (l *Locked) Do(fn func(h Heap)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.h)
}

var _ Heap = (*Locked)(nil)
