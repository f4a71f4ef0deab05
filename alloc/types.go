package alloc

// Addr is an absolute byte address inside a Region.
type Addr = uint64

const (
	// Alignment is the boundary every header, payload and block size is rounded to.
	Alignment = 8

	// alignMask clears the low bits below Alignment.
	alignMask = Alignment - 1

	// HeaderSize is the size of the in-band block header (one link word).
	HeaderSize = 8

	// MinPayload is the smallest payload a non-sentinel block may carry.
	MinPayload = 8

	// freeBit is the low bit of a header word. Header addresses are 8-aligned so
	// the bit is never part of a link.
	freeBit = 1
)

// Heap is the allocate/release surface consumed by callers such as seq.Ints.
//
// Implementations:
//   - *Allocator: the next-fit ring allocator
//   - *Locked: a mutex-guarded wrapper around any Heap
type Heap interface {
	// Init lays out the region. It is idempotent and also runs lazily on the
	// first Alloc.
	Init() error

	// Alloc returns the address of a payload of at least size bytes (rounded up
	// to Alignment, never below MinPayload) and a slice covering that payload.
	Alloc(size int) (Addr, []byte, error)

	// Free releases a payload returned by Alloc. Invalid and repeated releases
	// are ignored; the error only reports why.
	Free(p Addr) error
}

// Block describes one header in the ring as seen by Walk.
type Block struct {
	Header   Addr // address of the header word
	Payload  Addr // Header + HeaderSize
	Size     int  // derived payload size in bytes
	Free     bool
	Sentinel bool // zero-size end marker
}

// End returns the address just past the block's payload.
func (b Block) End() Addr {
	return b.Payload + Addr(b.Size)
}

// Stats holds allocator counters.
type Stats struct {
	AllocCalls       int // total Alloc calls
	AllocFailures    int // Alloc calls that returned an error
	Splits           int // allocations that carved a free remainder
	WholeBlocks      int // allocations that took a block unsplit
	SearchCoalesces  int // free headers absorbed while searching
	FreeCalls        int // total Free calls
	FreeIgnored      int // Free calls with a bad address or on a free block
	CoalesceForward  int // headers absorbed forward during Free
	CoalesceBackward int // blocks merged into a free predecessor during Free
}
