// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package shmlock_test

import (
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/matchpool/shmlock"
)

func TestRobustMutexExcludes(t *testing.T) {
	m := shmlock.NewMutex(shmlock.Robust)

	var counter int
	var wg sync.WaitGroup
	const goroutines = 16
	const increments = 200

	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for range increments {
				m.Lock()
				counter++
				m.Unlock()
			}
		}()
	}
	wg.Wait()

	if counter != goroutines*increments {
		t.Fatalf("counter = %d, want %d", counter, goroutines*increments)
	}
}

func TestRobustMutexTryLock(t *testing.T) {
	m := shmlock.NewMutex(shmlock.Robust)

	if !m.TryLock() {
		t.Fatal("TryLock on unheld robust mutex should succeed")
	}

	held := make(chan struct{})
	go func() {
		defer close(held)
		if ok := m.(interface{ TryLock() bool }).TryLock(); ok {
			t.Error("TryLock on held robust mutex should fail")
		}
	}()
	select {
	case <-held:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for contending TryLock")
	}

	m.Unlock()

	if !m.TryLock() {
		t.Fatal("TryLock after Unlock should succeed")
	}
	m.Unlock()
}

func TestRobustMutexCloseReleasesDescriptor(t *testing.T) {
	m := shmlock.NewMutex(shmlock.Robust)
	closer, ok := m.(interface{ Close() error })
	if !ok {
		t.Fatal("robust mutex must expose Close for destructor registration")
	}
	m.Lock()
	m.Unlock()
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
