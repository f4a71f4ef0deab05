// Package verify checks the structural invariants of an alloc ring.
// These helpers are used in tests and by ringctl check.
package verify

import (
	"errors"
	"fmt"

	"github.com/joshuapare/ringalloc/alloc"
)

// Walker is the read-only view of an allocator needed for verification.
type Walker interface {
	Bounds() (start, end alloc.Addr, ok bool)
	Cursor() alloc.Addr
	Walk(fn func(alloc.Block) bool) error
}

// ValidationError describes the first invariant violation found.
type ValidationError struct {
	Type    string
	Message string
	Addr    alloc.Addr
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s at 0x%X: %s", e.Type, e.Addr, e.Message)
}

// Error types.
const (
	TypeCycle        = "Cycle"
	TypeTiling       = "Tiling"
	TypeSize         = "Size"
	TypeAlignment    = "Alignment"
	TypeSentinel     = "Sentinel"
	TypeCursor       = "Cursor"
	TypeAdjacentFree = "AdjacentFree"
)

// Ring validates every invariant of w in one walk and returns the first
// violation, or nil. An allocator that has not been laid out yet is valid.
//
// Checked:
//   - the headers form one cycle starting at the aligned region start
//   - each block starts where the previous one ends and the blocks tile the
//     aligned region exactly, ending with the sentinel
//   - every payload is 8-aligned and every non-sentinel size is a positive
//     multiple of 8, at least alloc.MinPayload
//   - the sentinel is zero-size and in use
//   - the cursor names a header in the ring
//   - no two neighbouring blocks are both free
func Ring(w Walker) error {
	start, end, ok := w.Bounds()
	if !ok {
		return nil
	}

	var (
		verr     *ValidationError
		seen     = make(map[alloc.Addr]struct{})
		expect   = start
		prevFree bool
		last     alloc.Block
		count    int
	)
	fail := func(typ string, at alloc.Addr, format string, args ...any) bool {
		verr = &ValidationError{Type: typ, Addr: at, Message: fmt.Sprintf(format, args...)}
		return false
	}

	walkErr := w.Walk(func(b alloc.Block) bool {
		if _, dup := seen[b.Header]; dup {
			return fail(TypeCycle, b.Header, "header visited twice")
		}
		seen[b.Header] = struct{}{}
		count++

		if b.Header != expect {
			return fail(TypeTiling, b.Header, "block starts at 0x%X, previous block ends at 0x%X", b.Header, expect)
		}
		if b.Payload%alloc.Alignment != 0 {
			return fail(TypeAlignment, b.Header, "payload 0x%X not %d-aligned", b.Payload, alloc.Alignment)
		}

		if b.Sentinel {
			if b.Size != 0 {
				return fail(TypeSentinel, b.Header, "sentinel size %d, want 0", b.Size)
			}
			if b.Free {
				return fail(TypeSentinel, b.Header, "sentinel marked free")
			}
		} else {
			if b.Size < alloc.MinPayload || b.Size%alloc.Alignment != 0 {
				return fail(TypeSize, b.Header, "size %d not a multiple of %d >= %d", b.Size, alloc.Alignment, alloc.MinPayload)
			}
			if b.Free && prevFree {
				return fail(TypeAdjacentFree, b.Header, "free block follows free block 0x%X", last.Header)
			}
		}

		prevFree = b.Free
		last = b
		expect = b.End()
		return true
	})
	if verr != nil {
		return verr
	}
	if walkErr != nil {
		if errors.Is(walkErr, alloc.ErrCorrupt) {
			return &ValidationError{Type: TypeCycle, Addr: last.Header, Message: walkErr.Error()}
		}
		return walkErr
	}

	if count == 0 || !last.Sentinel {
		return &ValidationError{Type: TypeSentinel, Addr: last.Header, Message: "ring does not end with the sentinel"}
	}
	if last.End() != end {
		return &ValidationError{
			Type:    TypeTiling,
			Addr:    last.Header,
			Message: fmt.Sprintf("blocks cover 0x%X..0x%X, region is 0x%X..0x%X", start, last.End(), start, end),
		}
	}
	if _, ok := seen[w.Cursor()]; !ok {
		return &ValidationError{Type: TypeCursor, Addr: w.Cursor(), Message: "cursor is not a header in the ring"}
	}
	return nil
}

// Span sums header overhead and payload sizes over the ring. For a valid ring it
// equals the aligned region length.
func Span(w Walker) (int, error) {
	total := 0
	err := w.Walk(func(b alloc.Block) bool {
		total += alloc.HeaderSize + b.Size
		return true
	})
	return total, err
}
