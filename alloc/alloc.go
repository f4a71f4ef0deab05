package alloc

import (
	"context"
	"io"
	"log/slog"
	"strconv"
)

// Options configures an Allocator. A nil *Options uses the defaults.
type Options struct {
	// Logger receives debug records for bootstrap, placement and release.
	// Defaults to a logger that discards everything.
	Logger *slog.Logger
}

// Allocator is a next-fit allocator over one Region.
//
// The zero value is not usable; create one with New.
type Allocator struct {
	r Region

	ready    bool // bootstrap succeeded
	start    Addr // aligned region start
	end      Addr // aligned region end
	first    Addr // entry point into the ring, fixed after bootstrap
	current  Addr // next-fit cursor
	sentinel Addr // zero-size end header

	log     *slog.Logger
	logging bool

	stats Stats
}

// New creates an allocator for r. The region is laid out on the first call to
// Init or Alloc.
func New(r Region, opts *Options) *Allocator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts != nil && opts.Logger != nil {
		logger = opts.Logger
	}
	return &Allocator{
		r:       r,
		log:     logger,
		logging: logger.Enabled(context.Background(), slog.LevelDebug),
	}
}

// Init aligns the region bounds and places the first free block and the
// sentinel. It does nothing once it has succeeded. When the aligned region is
// too small it returns ErrRegionTooSmall and leaves the allocator uninitialized.
func (a *Allocator) Init() error {
	if a.ready {
		return nil
	}

	const minSpan = 2*HeaderSize + MinPayload
	if a.r.End <= a.r.Start || a.r.End-a.r.Start < minSpan {
		return ErrRegionTooSmall
	}
	start, end := alignUp(a.r.Start), alignDown(a.r.End)
	if end < start || end-start < minSpan {
		return ErrRegionTooSmall
	}

	first := start
	last := end - HeaderSize
	a.start, a.end = start, end
	a.first, a.sentinel = first, last

	a.putWord(first, pack(last, true))
	a.putWord(last, pack(first, false))

	a.current = first
	a.ready = true

	if a.logging {
		a.log.Debug("bootstrap",
			"start", hexAddr(start), "end", hexAddr(end), "free", a.size(first))
	}
	return nil
}

// Alloc finds room for size bytes using next-fit and returns the payload address
// together with the payload bytes. The slice may be longer than requested when a
// block is handed out whole.
func (a *Allocator) Alloc(size int) (Addr, []byte, error) {
	a.stats.AllocCalls++

	if size < 0 {
		a.stats.AllocFailures++
		return 0, nil, ErrBadSize
	}
	if err := a.Init(); err != nil {
		a.stats.AllocFailures++
		return 0, nil, err
	}
	if uint64(size) > a.end-a.start {
		a.stats.AllocFailures++
		return 0, nil, ErrNoSpace
	}

	need := max(align8(size), MinPayload)

	searchStart := a.current
	for {
		h := a.current
		if a.isFree(h) {
			wrapped := a.absorbFollowing(h, searchStart)

			if sz := a.size(h); sz >= need {
				a.place(h, sz, need)
				if a.logging {
					a.log.Debug("alloc",
						"size", size, "need", need, "addr", hexAddr(payloadOf(h)), "block", a.size(h))
				}
				return payloadOf(h), a.window(h), nil
			}
			if wrapped {
				// h now covers the search start, so every block has been seen.
				a.current = h
				break
			}
		}
		a.current = a.next(h)
		if a.current == searchStart {
			break
		}
	}

	a.stats.AllocFailures++
	if a.logging {
		a.log.Debug("alloc failed", "size", size, "need", need)
	}
	return 0, nil, ErrNoSpace
}

// absorbFollowing splices every free header directly after h out of the ring so
// h grows over them. It reports whether stop was among the absorbed headers.
func (a *Allocator) absorbFollowing(h, stop Addr) bool {
	swallowed := false
	for {
		n := a.next(h)
		if n == h || !a.isFree(n) {
			return swallowed
		}
		if n == stop {
			swallowed = true
		}
		a.setNext(h, a.next(n))
		a.stats.SearchCoalesces++
	}
}

// place marks the free block h (of payload size sz) in use for a request of
// need bytes, splitting off a free remainder when it is large enough to be a
// block of its own, and advances the cursor.
func (a *Allocator) place(h Addr, sz, need int) {
	if sz-need < HeaderSize+MinPayload {
		a.setFree(h, false)
		a.current = a.next(h)
		a.stats.WholeBlocks++
		return
	}

	rest := payloadOf(h) + Addr(need)
	a.putWord(rest, pack(a.next(h), true))
	a.putWord(h, pack(rest, false))
	a.current = rest
	a.stats.Splits++

	if a.logging {
		a.log.Debug("split", "block", hexAddr(h), "need", need, "remainder", a.size(rest))
	}
}

// Ready reports whether the region has been laid out.
func (a *Allocator) Ready() bool {
	return a.ready
}

// Bounds returns the aligned region bounds. ok is false before bootstrap.
func (a *Allocator) Bounds() (start, end Addr, ok bool) {
	return a.start, a.end, a.ready
}

// First returns the header that anchors the ring.
func (a *Allocator) First() Addr {
	return a.first
}

// Cursor returns the header where the next search starts.
func (a *Allocator) Cursor() Addr {
	return a.current
}

// Stats returns a copy of the allocator counters.
func (a *Allocator) Stats() Stats {
	return a.stats
}

// hexAddr formats an address for log records.
type hexAddr Addr

func (h hexAddr) LogValue() slog.Value {
	return slog.StringValue("0x" + strconv.FormatUint(uint64(h), 16))
}

// Compile-time interface check
var _ Heap = (*Allocator)(nil)
