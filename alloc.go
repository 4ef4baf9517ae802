// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchpool

import (
	"os"
	"sync"
)

var alwaysMallocOnce = sync.OnceValue(func() bool {
	return os.Getenv("MATCHPOOL_ALWAYS_MALLOC") != ""
})

// Pool is a region-based allocator: a set of bump-allocated slab chains,
// one per Class, plus the bookkeeping (destructors, named variables) that
// lets a single Delete call tear down everything allocated from it.
//
// A Pool has a single owner. Concurrent Alloc calls from multiple
// goroutines are not supported; share a Pool across goroutines only by
// serializing access to it yourself, or use matchpool/shmlock to guard a
// Shared-class region handed to a cooperating process.
type Pool struct {
	mu sync.Mutex

	tag  string
	site string

	chains [3]chain

	entry         *entry
	entrySlot     int
	entryReserved bool
	stats         poolStats

	destructors []*destructor
	variables   map[string]*variable

	alwaysMalloc bool
	trash        [][]byte
}

// PoolOption configures a Pool at construction time.
type PoolOption func(*Pool)

// WithAlwaysMalloc forces every allocation, regardless of class, to be
// satisfied by a dedicated heap allocation instead of a shared slab. This
// makes tools like the race detector and memory sanitizers able to see
// each logical allocation as its own object; it otherwise behaves exactly
// like the bump path.
func WithAlwaysMalloc(on bool) PoolOption {
	return func(p *Pool) { p.alwaysMalloc = on }
}

// NewPool creates a Pool tagged with tag (used to key the process-global
// entry-point sizing row, see entryFor) and site (kept on the pool as a
// diagnostic label; destructors carry the site passed to AddDestructor).
func NewPool(tag, site string, opts ...PoolOption) *Pool {
	p := &Pool{
		tag:          tag,
		site:         site,
		entry:        entryFor(tag),
		alwaysMalloc: alwaysMallocOnce(),
	}
	for i := range p.chains {
		p.chains[i].class = Class(i)
	}
	for _, opt := range opts {
		opt(p)
	}
	recordPoolCreated()
	return p
}

// Alloc returns n bytes from the pool, drawn from the chain for class.
func (p *Pool) Alloc(n int, class Class) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.alwaysMalloc {
		// Every logical allocation becomes its own heap object for tools
		// like the race detector to see individually, the same role the
		// original's VALGRIND-gated g_malloc(size) fallback plays.
		b := make([]byte, n)
		p.trash = append(p.trash, b)
		p.stats.recordChunk(n, class)
		return b
	}
	return p.chains[class].alloc(p, n)
}

// accumulateFragmentation adds to the pool's running fragmentation total,
// claiming its ring slot in the tag's entry-point row on first use. Callers
// must hold p.mu.
func (p *Pool) accumulateFragmentation(n uint32) {
	if !p.entryReserved {
		p.entrySlot = p.entry.reserve()
		p.entryReserved = true
	}
	p.entry.accumulateFragmentation(p.entrySlot, n)
}

// Alloc0 is Alloc with the returned slice explicitly zeroed. Bump
// allocations in Go are already zero on first use (fresh slabs come from
// make/mmap), so this only matters when a slab's space has been reused
// within the process lifetime, which this allocator never does; it exists
// for API parity with rspamd_mempool_alloc0 and as a guard against future
// slab-reuse optimizations.
func (p *Pool) Alloc0(n int, class Class) []byte {
	b := p.Alloc(n, class)
	clear(b)
	return b
}

// StrDup copies s into pool-owned memory and returns the copy.
func (p *Pool) StrDup(s string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.strdupLocked(s)
}

func (p *Pool) strdupLocked(s string) string {
	if s == "" {
		return ""
	}
	buf := p.chains[Normal].alloc(p, len(s))
	copy(buf, s)
	return string(buf)
}

// BytesDup copies b into pool-owned memory and returns the copy.
func (p *Pool) BytesDup(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	dup := p.Alloc(len(b), Normal)
	copy(dup, b)
	return dup
}

// CleanupTmp discards every Tmp-class allocation made so far. Pointers
// previously returned for Tmp allocations must not be used afterward.
func (p *Pool) CleanupTmp() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chains[Tmp].reset()
}

// Delete runs every pending destructor and releases the pool's slabs.
// After Delete, the Pool must not be used again.
func (p *Pool) Delete() {
	p.EnforceDestructors()

	p.mu.Lock()
	variables := p.variables
	p.variables = nil
	var leftover uint32
	for i := range p.chains {
		if p.chains[i].head != nil {
			leftover += uint32(p.chains[i].head.remaining())
		}
		p.chains[i].reset()
	}
	if p.entryReserved {
		p.entry.finish(p.entrySlot, leftover)
		p.entryReserved = false
	}
	p.trash = nil
	p.mu.Unlock()

	for _, v := range variables {
		if v.dtor != nil {
			v.dtor(v.value)
		}
	}
	recordPoolFreed()
}
