// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchpool

import (
	"math/rand"
	"sort"
	"sync"
)

const entryRingLen = 64

// entryObservation is one pool lifetime's {fragmentation, leftover} sample:
// the unused space of every head slab the pool's chains retired, and the
// space still free when the pool was deleted. It is the same pair the
// original entry-point row in mem_pool.c accumulates per allocation site.
type entryObservation struct {
	fragmentation uint32
	leftover      uint32
}

// entry is a process-global, tag-keyed row of recent slab-sizing
// observations, used to self-tune the slab size new pools created with the
// same tag start from.
type entry struct {
	mu         sync.Mutex
	ring       [entryRingLen]entryObservation
	filled     int
	cur        int
	suggestion uint32
}

func newEntry() *entry {
	return &entry{suggestion: defaultSlabSize}
}

func (e *entry) suggestedSize() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.suggestion
}

// observe records one complete {fragmentation, leftover} sample in a single
// step and, once the ring has enough history, re-runs the stochastic-
// quantile adjustment. It is the single-shot form of reserve/
// accumulateFragmentation/finish, used where a caller has both numbers
// ready at once instead of accumulating fragmentation across a pool's
// lifetime.
func (e *entry) observe(fragmentation, leftover uint32) {
	e.mu.Lock()
	slot := e.cur
	e.ring[slot] = entryObservation{}
	e.mu.Unlock()

	e.accumulateFragmentation(slot, fragmentation)
	e.finish(slot, leftover)
}

// reserve claims the ring slot a pool's observations will accumulate into
// for the rest of its lifetime, clearing any stale sample left there by
// whichever pool last wrapped around to this slot. The slot is not
// published to other pools until finish advances the cursor past it.
func (e *entry) reserve() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	slot := e.cur
	e.ring[slot] = entryObservation{}
	return slot
}

// accumulateFragmentation adds to the fragmentation total recorded in slot,
// mirroring the original's per-allocation-site row being updated with += on
// every fresh-slab event within a pool's lifetime.
func (e *entry) accumulateFragmentation(slot int, fragmentation uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ring[slot].fragmentation += fragmentation
}

// finish records the final leftover space for slot and advances the ring
// cursor, done exactly once per pool, at deletion. Once the ring has enough
// history, it re-runs the stochastic-quantile adjustment.
func (e *entry) finish(slot int, leftover uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ring[slot].leftover = leftover
	e.cur = (e.cur + 1) % entryRingLen
	if e.filled < entryRingLen {
		e.filled++
	}
	if e.filled == entryRingLen {
		e.adjust()
	}
}

// adjust implements the same quantile-sampling rule as
// rspamd_mempool_adjust_entry: sort the signed fragmentation/leftover
// difference across the ring, sample a high quantile (jittered around the
// 50th slot) and a low quantile (jittered around the 4th slot). Grow when
// even the low quantile shows net fragmentation, shrink when the low
// quantile's net leftover outweighs the high quantile, and otherwise still
// grow, each step scaled by how far the deciding sample strayed from zero.
func (e *entry) adjust() {
	var sz [entryRingLen]int64
	for i, o := range e.ring {
		sz[i] = int64(o.fragmentation) - int64(o.leftover)
	}
	sort.Slice(sz[:], func(i, j int) bool { return sz[i] < sz[j] })

	jitter := rand.Intn(10)
	selPos := sz[50+jitter]
	selNeg := sz[4+jitter]

	suggestion := float64(e.suggestion)
	switch {
	case selNeg > 0:
		suggestion *= 1.5 * (1 + float64(selPos)/suggestion)
	case -selNeg > selPos:
		suggestion /= 1.5 * (1 + float64(-selNeg)/suggestion)
	default:
		suggestion *= 1.5 * (1 + float64(selPos)/suggestion)
	}

	if suggestion < minSlabSize {
		suggestion = minSlabSize
	}
	if suggestion > maxSlabSize {
		suggestion = maxSlabSize
	}
	e.suggestion = uint32(suggestion)
}

var (
	entriesMu sync.Mutex
	entries   = map[string]*entry{}
)

// entryFor returns the process-global entry-point row for tag, creating it
// on first use. Every Pool created with the same tag shares one row, which
// is the point: sizing knowledge learned from one pool's lifetime carries
// over to the next.
func entryFor(tag string) *entry {
	entriesMu.Lock()
	defer entriesMu.Unlock()
	e, ok := entries[tag]
	if !ok {
		e = newEntry()
		entries[tag] = e
	}
	return e
}
