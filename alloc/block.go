package alloc

import (
	"fmt"

	"github.com/joshuapare/ringalloc/internal/buf"
)

// Header accessors. All address arithmetic on the region goes through here; a
// header address outside the region is a broken ring and panics.

// headerBytes returns the 8-byte header slot at h.
func (a *Allocator) headerBytes(h Addr) []byte {
	if h >= a.r.Start && h-a.r.Start <= uint64(len(a.r.mem)) {
		if b, ok := buf.Slice(a.r.mem, int(h-a.r.Start), HeaderSize); ok {
			return b
		}
	}
	panic(fmt.Sprintf("alloc: header 0x%X outside region [0x%X, 0x%X)", h, a.r.Start, a.r.End))
}

func (a *Allocator) word(h Addr) uint64 {
	return buf.U64LE(a.headerBytes(h))
}

func (a *Allocator) putWord(h Addr, w uint64) {
	buf.PutU64LE(a.headerBytes(h), w)
}

// pack builds a header word from a link and a free flag.
func pack(next Addr, free bool) uint64 {
	w := next &^ freeBit
	if free {
		w |= freeBit
	}
	return w
}

// next returns the successor of h with the free flag masked out.
func (a *Allocator) next(h Addr) Addr {
	return a.word(h) &^ freeBit
}

// setNext relinks h, preserving its free flag.
func (a *Allocator) setNext(h, n Addr) {
	a.putWord(h, pack(n, a.isFree(h)))
}

func (a *Allocator) isFree(h Addr) bool {
	return a.word(h)&freeBit != 0
}

// setFree flips the free flag of h, preserving its link.
func (a *Allocator) setFree(h Addr, free bool) {
	a.putWord(h, pack(a.next(h), free))
}

func payloadOf(h Addr) Addr {
	return h + HeaderSize
}

// size is the derived payload size of h: the distance from the end of its
// header to the start of the next one. The sentinel links back to the first
// header, so its size is fixed at zero. Negative only on a corrupt ring.
func (a *Allocator) size(h Addr) int {
	if h == a.sentinel {
		return 0
	}
	return int(int64(a.next(h) - payloadOf(h)))
}

// window returns the payload bytes of h.
func (a *Allocator) window(h Addr) []byte {
	p, n := payloadOf(h), a.size(h)
	b, ok := buf.Slice(a.r.mem, int(p-a.r.Start), n)
	if !ok {
		panic(fmt.Sprintf("alloc: payload 0x%X+%d outside region [0x%X, 0x%X)", p, n, a.r.Start, a.r.End))
	}
	return b
}

// block snapshots h for Walk.
func (a *Allocator) block(h Addr) Block {
	return Block{
		Header:   h,
		Payload:  payloadOf(h),
		Size:     a.size(h),
		Free:     a.isFree(h),
		Sentinel: h == a.sentinel,
	}
}
