package alloc

import "errors"

var (
	// ErrRegionTooSmall indicates the aligned region cannot hold a free block,
	// its minimum payload and the sentinel. The allocator stays uninitialized.
	ErrRegionTooSmall = errors.New("alloc: region too small")

	// ErrNoSpace indicates that no free block large enough was found.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrBadSize indicates a negative allocation request.
	ErrBadSize = errors.New("alloc: negative size")

	// ErrBadAddr indicates Free was given an address that is not the payload of
	// any block. The call had no effect.
	ErrBadAddr = errors.New("alloc: address does not belong to a block")

	// ErrDoubleFree indicates Free was given the payload of a block that is
	// already free. The call had no effect.
	ErrDoubleFree = errors.New("alloc: block already free")

	// ErrCorrupt indicates the header ring does not close on itself.
	ErrCorrupt = errors.New("alloc: header ring corrupt")
)
