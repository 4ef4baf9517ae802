// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchpool

import "sync"

// Stats is a point-in-time snapshot of the process-global allocator
// counters, the Go analogue of rspamd_mempool_stat_t.
type Stats struct {
	PoolsAllocated  uint64
	PoolsFreed      uint64
	BytesAllocated  uint64
	ChunksAllocated uint64
	ChunksFreed     uint64
	SharedChunks    uint64
	OversizedChunks uint64
}

var globalStats struct {
	mu sync.Mutex
	s  Stats
}

// GlobalStats returns a snapshot of the process-wide counters accumulated
// across every Pool created in this process.
func GlobalStats() Stats {
	globalStats.mu.Lock()
	defer globalStats.mu.Unlock()
	return globalStats.s
}

// ResetGlobalStats zeroes the process-wide counters. Intended for tests
// that want a clean baseline between cases.
func ResetGlobalStats() {
	globalStats.mu.Lock()
	defer globalStats.mu.Unlock()
	globalStats.s = Stats{}
}

type poolStats struct{}

func (poolStats) recordChunk(size int, class Class) {
	globalStats.mu.Lock()
	defer globalStats.mu.Unlock()
	globalStats.s.ChunksAllocated++
	globalStats.s.BytesAllocated += uint64(size)
	if class == Shared {
		globalStats.s.SharedChunks++
	}
	if size > maxSlabSize/2 {
		globalStats.s.OversizedChunks++
	}
}

func recordPoolCreated() {
	globalStats.mu.Lock()
	defer globalStats.mu.Unlock()
	globalStats.s.PoolsAllocated++
}

func recordPoolFreed() {
	globalStats.mu.Lock()
	defer globalStats.mu.Unlock()
	globalStats.s.PoolsFreed++
}
