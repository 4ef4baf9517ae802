// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchpool

// slab is a single bump-allocated arena, linked into a chain from most to
// least recently created. Allocation only ever touches the chain head;
// slabs behind the head are kept alive purely so pointers handed out
// earlier remain valid until the owning Pool is destroyed.
type slab struct {
	buf   []byte
	pos   int
	next  *slab
	class Class
}

// allocAlign is the alignment every bump allocation is rounded up to. 8
// bytes covers every scalar and pointer type this package hands pointers
// into; callers needing stricter alignment must over-allocate themselves.
const allocAlign = 8

func alignUp(n int) int {
	return (n + allocAlign - 1) &^ (allocAlign - 1)
}

func (s *slab) remaining() int {
	return len(s.buf) - alignUp(s.pos)
}

func (s *slab) bump(n int) []byte {
	s.pos = alignUp(s.pos)
	b := s.buf[s.pos : s.pos+n : s.pos+n]
	s.pos += n
	return b
}

// chain tracks the head slab for one allocation Class; older slabs hang
// off the head through their next links.
type chain struct {
	head  *slab
	class Class
}

// newSlabSize picks how large the next slab in the chain should be,
// consulting the entry-point suggestion for the pool's tag before falling
// back to defaultSlabSize. The slab must always be large enough to satisfy
// the allocation that triggered its creation.
func newSlabSize(requested int, suggestion uint32) int {
	size := int(suggestion)
	if size < minSlabSize {
		size = defaultSlabSize
	}
	need := requested + eltLen
	if need > size {
		size = need
	}
	if size > maxSlabSize && need <= maxSlabSize {
		size = maxSlabSize
	}
	return size
}

// grow puts a fresh slab able to satisfy n bytes at the head of the chain,
// adding the departing head's unused space to the fragmentation total in
// the pool's entry-point ring slot. The slot's leftover is written, and the
// ring cursor advanced, only at Delete.
func (c *chain) grow(p *Pool, n int) {
	size := newSlabSize(n, p.entry.suggestedSize())
	var buf []byte
	if c.class == Shared {
		buf = allocSharedBytes(size)
	} else {
		buf = make([]byte, size)
	}

	// A chain's first slab retires nothing, but still claims the pool's
	// ring slot.
	var frag uint32
	if c.head != nil {
		if r := c.head.remaining(); r > 0 {
			frag = uint32(r)
		}
	}
	p.accumulateFragmentation(frag)

	next := &slab{buf: buf, class: c.class, next: c.head}
	c.head = next

	p.stats.recordChunk(size, c.class)
}

// alloc returns n bytes from the chain, growing it first if the head slab
// cannot satisfy the request.
func (c *chain) alloc(p *Pool, n int) []byte {
	if c.head == nil || c.head.remaining() < n {
		c.grow(p, n)
	}
	return c.head.bump(n)
}

// reset detaches every slab in the chain, used by Pool.CleanupTmp. The
// slabs are left for the garbage collector; nothing in this package keeps
// a stray reference once reset returns.
func (c *chain) reset() {
	c.head = nil
}
