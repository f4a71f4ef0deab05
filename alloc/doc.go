// Package alloc provides a next-fit block allocator over a single caller-supplied
// memory region.
//
// # Overview
//
// The allocator never acquires memory of its own. It is handed a contiguous byte
// range (a Region) and imposes a layout on it: an in-band, circular, singly-linked
// list of 8-byte block headers, each immediately followed by its payload.
//
//	+--------+-----------+--------+-----------+-----+----------+
//	| hdr(F) | payload   | hdr(U) | payload   | ... | sentinel |
//	+--------+-----------+--------+-----------+-----+----------+
//	    |                    ^  |                ^        |
//	    +--------------------+  +------ ... -----+        |
//	    ^-------------------------------------------------+
//
// A header word stores the absolute address of the next header with the low bit
// used as the free flag. Block sizes are never stored; a block's size is the
// distance from the end of its header to the start of the next one. The last
// header is a zero-size sentinel that is permanently in use and links back to the
// first header, closing the ring.
//
// # Placement
//
// Alloc uses next-fit: the search resumes at the cursor left by the previous
// operation and walks the ring at most once. A free block is first merged with any
// free blocks directly after it, then either handed out whole (when the leftover
// would be smaller than a header plus MinPayload) or split, leaving a free
// remainder that becomes the new cursor.
//
// # Release
//
// Free locates the owning header by scanning from the first block, marks it free,
// merges it with the free blocks that follow it and with a free predecessor, and
// moves the cursor to the merged block. Unknown addresses and double frees leave
// the ring untouched; the returned error is a diagnostic callers may ignore.
//
// # Usage Example
//
//	mem := make([]byte, 64<<10)
//	a := alloc.New(alloc.RegionOf(mem), nil)
//
//	p, payload, err := a.Alloc(100)
//	if err != nil {
//	    return err // alloc.ErrNoSpace or alloc.ErrRegionTooSmall
//	}
//	copy(payload, data)
//
//	_ = a.Free(p)
//
// # Concurrency
//
// An Allocator is not safe for concurrent use. Wrap it with NewLocked when several
// goroutines share one region.
package alloc
