// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package matchpool provides a region-based memory allocator (Pool) that
// the sibling matchpool/kvlist and matchpool/matchidx packages build their
// key/value parsing and match-index data structures on top of.
//
// # Pool
//
// Pool hands out memory from bump-allocated slab chains, one chain per
// Class (Normal, Tmp, Shared). Allocations are never freed individually;
// the whole chain for a class is released together, by CleanupTmp for Tmp
// allocations or Delete for everything. A process-global, tag-keyed entry
// row (see entry.go) watches fragmentation and leftover space across every
// pool sharing a tag and adjusts the slab size new chains start from.
//
// Shared-class slabs are backed by an anonymous MAP_SHARED mapping
// (shared_unix.go) so a forked or cooperating process can map the same
// pages; matchpool/shmlock provides mutexes and rwlocks suitable for
// guarding them.
//
// # Destructors and variables
//
// A Pool also carries a fire-once destructor queue (destructor.go) and a
// lazy by-name variable dictionary (variable.go), both torn down together
// by Delete.
//
// # Debug allocation
//
// Setting MATCHPOOL_ALWAYS_MALLOC routes every Alloc call through its own
// dedicated heap allocation instead of a shared slab, the same role the
// original's VALGRIND-gated debug path plays, so tools like the race
// detector can see each logical allocation as its own object.
//
// # Dependencies
//
// matchpool depends on:
//   - golang.org/x/sys/unix: anonymous shared mmap for Shared-class slabs
//
// The spin-wait primitives of spin are used by matchpool/shmlock, not by
// this package.
package matchpool
