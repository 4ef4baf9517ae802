// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchpool

import "testing"

// TestPoolDeleteContributesEntryObservation exercises the self-tuning ring
// through a real Pool alloc/delete cycle rather than calling entry.observe
// directly, guarding against the ring only being fed on growth events that
// never fire for a single-slab pool.
func TestPoolDeleteContributesEntryObservation(t *testing.T) {
	tag := "test.entry.single-slab"
	e := entryFor(tag)

	startCur := e.cur
	startFilled := e.filled

	p := NewPool(tag, "entry_pool_test.go")
	_ = p.Alloc(16, Normal)
	p.Delete()

	if e.cur != (startCur+1)%entryRingLen {
		t.Fatalf("cur = %d, want %d after one pool lifetime", e.cur, (startCur+1)%entryRingLen)
	}
	if e.filled != startFilled+1 {
		t.Fatalf("filled = %d, want %d after one pool lifetime", e.filled, startFilled+1)
	}
}

// TestPoolDeleteWithoutAllocContributesNoObservation mirrors the original's
// behavior of only touching the ring for pools that actually grew a slab:
// a pool that never allocates never reserved a slot, so deleting it must not
// advance the cursor.
func TestPoolDeleteWithoutAllocContributesNoObservation(t *testing.T) {
	tag := "test.entry.no-alloc"
	e := entryFor(tag)
	startCur := e.cur

	p := NewPool(tag, "entry_pool_test.go")
	p.Delete()

	if e.cur != startCur {
		t.Fatalf("cur = %d, want unchanged %d for a pool that never allocated", e.cur, startCur)
	}
}

// TestPoolEntryFragmentationAccumulatesAcrossGrowths drives several slab
// growths within one pool's lifetime and checks that the pool's ring slot
// holds a nonzero fragmentation total once a head slab has been retired.
func TestPoolEntryFragmentationAccumulatesAcrossGrowths(t *testing.T) {
	tag := "test.entry.accumulate"
	e := entryFor(tag)

	p := NewPool(tag, "entry_pool_test.go")
	// Each allocation is larger than defaultSlabSize, so the first slab is
	// sized to fit only it and the second allocation forces another growth.
	_ = p.Alloc(defaultSlabSize+1, Normal)
	_ = p.Alloc(defaultSlabSize+1, Normal)
	slotBeforeDelete := p.entrySlot
	reserved := p.entryReserved
	p.Delete()

	if !reserved {
		t.Fatalf("pool did not reserve an entry slot despite allocating")
	}
	if e.ring[slotBeforeDelete].fragmentation == 0 {
		t.Fatalf("fragmentation total is zero after two slab growths")
	}
}
