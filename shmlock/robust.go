// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package shmlock

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// robustMutex holds an advisory exclusive flock on a private temp file.
// The kernel drops the lock the instant the holding process exits for any
// reason, including a crash, so there is no liveness polling to get
// wrong: the next process to flock the file simply succeeds.
//
// flock(2) locks are associated with the open file description, not the
// calling thread, so two goroutines in the same process sharing m.f would
// not exclude each other through flock alone — the second Flock call
// would see the description as already held by itself and return
// immediately. local guards that case; flock guards the cross-process
// case local cannot see.
type robustMutex struct {
	local sync.Mutex
	f     *os.File
}

func newRobustMutex() Mutex {
	f, err := os.CreateTemp("", "matchpool-shmlock-*")
	if err != nil {
		panic("shmlock: cannot create robust lock backing file: " + err.Error())
	}
	os.Remove(f.Name())
	return &robustMutex{f: f}
}

func (m *robustMutex) Lock() {
	m.local.Lock()
	if err := unix.Flock(int(m.f.Fd()), unix.LOCK_EX); err != nil {
		panic("shmlock: flock failed: " + err.Error())
	}
}

func (m *robustMutex) TryLock() bool {
	if !m.local.TryLock() {
		return false
	}
	if err := unix.Flock(int(m.f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		m.local.Unlock()
		return false
	}
	return true
}

func (m *robustMutex) Unlock() {
	_ = unix.Flock(int(m.f.Fd()), unix.LOCK_UN)
	m.local.Unlock()
}

// Close releases the backing file descriptor. Intended to be registered as
// a matchpool.Pool destructor so a Shared-class lock's resources are
// reclaimed exactly once, alongside the region it guards.
func (m *robustMutex) Close() error {
	return m.f.Close()
}
