package alloc

// Walk calls fn for each block in ring order starting at the first block, and
// stops early when fn returns false. It returns ErrCorrupt when the ring does not
// close within the number of headers the region can hold. Walk does nothing
// before bootstrap.
func (a *Allocator) Walk(fn func(Block) bool) error {
	if !a.ready {
		return nil
	}

	limit := int((a.end-a.start)/HeaderSize) + 1
	h := a.first
	for n := 0; n < limit; n++ {
		if !a.inRing(h) {
			return ErrCorrupt
		}
		if !fn(a.block(h)) {
			return nil
		}
		h = a.next(h)
		if h == a.first {
			return nil
		}
	}
	return ErrCorrupt
}

// Blocks returns a snapshot of the ring in walk order.
func (a *Allocator) Blocks() ([]Block, error) {
	var out []Block
	err := a.Walk(func(b Block) bool {
		out = append(out, b)
		return true
	})
	return out, err
}

// inRing reports whether h is an aligned header address inside the laid-out region.
func (a *Allocator) inRing(h Addr) bool {
	return h&alignMask == 0 && h >= a.start && h <= a.sentinel
}
