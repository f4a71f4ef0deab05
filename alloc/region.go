package alloc

import (
	"math"
	"unsafe"
)

// Region is a contiguous byte range [Start, End) owned by the caller.
// mem[0] sits at address Start.
type Region struct {
	Start Addr
	End   Addr
	mem   []byte
}

// NewRegion describes mem as living at address start. Use it when the addresses
// handed out should be offsets in some other space (a file, a test fixture)
// rather than real pointers. A range that would wrap past the top of the address
// space yields an empty region.
func NewRegion(start Addr, mem []byte) Region {
	n := uint64(len(mem))
	if n > math.MaxUint64-start {
		return Region{Start: start, End: start}
	}
	return Region{Start: start, End: start + n, mem: mem}
}

// RegionOf describes mem at its real address, so payload addresses returned by
// the allocator are genuine pointers into mem.
func RegionOf(mem []byte) Region {
	if len(mem) == 0 {
		return Region{}
	}
	return NewRegion(Addr(uintptr(unsafe.Pointer(unsafe.SliceData(mem)))), mem)
}

// Len returns the number of bytes in the region.
func (r Region) Len() int {
	return len(r.mem)
}

func alignUp(a Addr) Addr {
	return (a + alignMask) &^ alignMask
}

func alignDown(a Addr) Addr {
	return a &^ alignMask
}

// align8 rounds n up to the next multiple of Alignment.
func align8(n int) int {
	return (n + alignMask) &^ alignMask
}
