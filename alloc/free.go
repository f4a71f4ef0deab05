package alloc

// Free releases the block whose payload starts at p.
//
// An address that is not the payload of any block, a call before bootstrap and a
// second release of the same block all leave the allocator untouched; the error
// (ErrBadAddr or ErrDoubleFree) is informational and may be ignored.
func (a *Allocator) Free(p Addr) error {
	a.stats.FreeCalls++

	if !a.ready {
		a.stats.FreeIgnored++
		return ErrBadAddr
	}

	block, found := a.find(p)
	if !found {
		a.stats.FreeIgnored++
		if a.logging {
			a.log.Debug("free ignored", "addr", hexAddr(p), "reason", "unknown address")
		}
		return ErrBadAddr
	}
	if a.isFree(block) {
		a.stats.FreeIgnored++
		if a.logging {
			a.log.Debug("free ignored", "addr", hexAddr(p), "reason", "already free")
		}
		return ErrDoubleFree
	}

	a.setFree(block, true)

	for {
		n := a.next(block)
		if n == block || !a.isFree(n) {
			break
		}
		a.setNext(block, a.next(n))
		a.stats.CoalesceForward++
	}

	if prev := a.prev(block); prev != block && a.isFree(prev) {
		a.setNext(prev, a.next(block))
		block = prev
		a.stats.CoalesceBackward++
	}

	a.current = block

	if a.logging {
		a.log.Debug("free", "addr", hexAddr(p), "block", hexAddr(block), "size", a.size(block))
	}
	return nil
}

// find scans the ring from first for the header whose payload starts at p.
func (a *Allocator) find(p Addr) (Addr, bool) {
	// Payloads are aligned and never below the first payload or past the
	// sentinel, so most garbage is rejected without a scan.
	if p&alignMask != 0 || p < payloadOf(a.first) || p > a.sentinel {
		return 0, false
	}
	h := a.first
	for {
		if payloadOf(h) == p {
			return h, true
		}
		h = a.next(h)
		if h == a.first {
			return 0, false
		}
	}
}

// prev scans the ring from first for the header linking to h. It returns h
// itself when h is the only header or no predecessor is found.
func (a *Allocator) prev(h Addr) Addr {
	p := a.first
	for a.next(p) != h {
		p = a.next(p)
		if p == a.first {
			return h
		}
	}
	return p
}
