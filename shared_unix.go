// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package matchpool

import "golang.org/x/sys/unix"

// allocSharedBytes backs a Shared-class slab with an anonymous
// MAP_SHARED mapping so that a forked or otherwise cooperating process can
// map the identical pages. The mapping is never explicitly unmapped: like
// the rest of a Pool's slabs, it is reclaimed when the process exits or, for
// long-lived pools, left to the OS once the last reference is dropped.
func allocSharedBytes(size int) []byte {
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_SHARED)
	if err != nil {
		panic(&AllocationFailure{Size: size, Class: Shared, Err: err})
	}
	return b
}
