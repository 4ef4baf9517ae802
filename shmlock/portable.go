// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shmlock

import (
	"sync/atomic"

	"code.hybscloud.com/spin"
)

const spinBudget = 100

// portableMutex is an atomics-only mutual exclusion lock safe to embed in
// shared memory. It recovers from a holder that died while the lock was
// held by checking the recorded owner PID's liveness once the spin budget
// for a round is exhausted.
type portableMutex struct {
	locked atomic.Int32
	owner  atomic.Int32
}

// NewMutex constructs a Mutex backed by the requested Variant. Robust is
// only available on unix-like targets; see robust.go.
func NewMutex(variant Variant) Mutex {
	switch variant {
	case Robust:
		return newRobustMutex()
	default:
		return &portableMutex{}
	}
}

func (m *portableMutex) TryLock() bool {
	if m.locked.CompareAndSwap(0, 1) {
		m.owner.Store(currentPID())
		return true
	}
	return false
}

func (m *portableMutex) Lock() {
	var sw spin.Wait
	for {
		budget := spinBudget
		for budget > 0 {
			if m.TryLock() {
				return
			}
			budget--
			sw.Once()
		}

		owner := m.owner.Load()
		if owner == currentPID() {
			// Re-entrant acquisition is a programming error for this
			// lock; keep spinning rather than corrupt the lock word.
			continue
		}
		if owner != 0 && m.locked.Load() == 1 && !pidAlive(owner) {
			// The previous holder died without releasing the lock.
			// Steal it: whichever waiter wins the CAS becomes the new
			// owner, the rest fall back to the normal spin path.
			if m.owner.CompareAndSwap(owner, currentPID()) {
				return
			}
		}
	}
}

func (m *portableMutex) Unlock() {
	m.owner.Store(0)
	m.locked.Store(0)
}

// portableRWMutex layers a reader counter on top of one portableMutex
// word: the mutex arbitrates writers against each other, and a writer that
// holds it waits for the reader counter to drain before proceeding.
type portableRWMutex struct {
	writers portableMutex
	readers atomic.Int32
}

// NewRWMutex constructs an RWMutex. Every variant, Robust included, gets
// the portable implementation; there is no flock-backed RWMutex.
func NewRWMutex(variant Variant) RWMutex {
	return &portableRWMutex{}
}

func (rw *portableRWMutex) Lock() {
	rw.writers.Lock()
	var sw spin.Wait
	for rw.readers.Load() > 0 {
		sw.Once()
	}
}

func (rw *portableRWMutex) Unlock() {
	rw.writers.Unlock()
}

func (rw *portableRWMutex) RLock() {
	var sw spin.Wait
	for {
		rw.readers.Add(1)
		if rw.writers.locked.Load() == 0 {
			return
		}
		// A writer holds the lock; back off and let it proceed rather
		// than starve it.
		rw.readers.Add(-1)
		sw.Once()
	}
}

func (rw *portableRWMutex) RUnlock() {
	rw.readers.Add(-1)
}
