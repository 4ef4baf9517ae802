// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package shmlock provides mutexes and reader/writer locks safe to place
// inside a matchpool Shared-class region, so unrelated processes mapping
// the same slab can coordinate access to it.
//
// Two interchangeable implementations are offered:
//
//   - Portable: an atomics-based spin/yield emulation with PID-liveness
//     crash recovery, usable on any platform Go supports.
//   - Robust: backed by an advisory flock(2) held on a file descriptor that
//     the kernel releases automatically if the holding process dies,
//     giving genuine crash recovery without relying on liveness polling.
package shmlock

// Variant selects which lock implementation NewMutex builds. NewRWMutex
// builds the portable implementation for every Variant.
type Variant int

const (
	// Portable works everywhere Go runs, recovering from a crashed holder
	// by polling its PID with a signal-0 liveness check.
	Portable Variant = iota

	// Robust relies on the kernel to release the lock when the holding
	// process exits or dies, and is only available on unix-like targets.
	Robust
)

// Mutex is a non-reentrant, process-shared mutual exclusion lock.
type Mutex interface {
	Lock()
	Unlock()
	// TryLock attempts to acquire the lock without blocking.
	TryLock() bool
}

// RWMutex is a process-shared reader/writer lock.
type RWMutex interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}
