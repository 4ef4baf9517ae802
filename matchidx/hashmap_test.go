// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchidx_test

import (
	"testing"

	"code.hybscloud.com/matchpool"
	"code.hybscloud.com/matchpool/matchidx"
)

func TestHashMapCaseInsensitiveDedup(t *testing.T) {
	pool := matchpool.NewPool("test.hashmap", "hashmap_test.go")
	defer pool.Delete()

	m := matchidx.NewHashMap(pool)
	m.Insert("Example.COM", "a")
	m.Insert("example.com", "a") // same normalized key, same value: dedup
	m.Insert("EXAMPLE.COM", "b") // same key, different value: overwrite
	fp1 := m.Finalize()

	v, ok := m.Match("example.com")
	if !ok || v.(string) != "b" {
		t.Fatalf("got %v, %v", v, ok)
	}

	var keys []string
	m.Traverse(false, func(key string, value any, hits uint64) {
		keys = append(keys, key)
	})
	if len(keys) != 1 {
		t.Fatalf("expected one deduplicated entry, got %v", keys)
	}

	// Same insertion sequence on a fresh map must reproduce the same
	// fingerprint: the fingerprint is a pure function of insertion order.
	pool2 := matchpool.NewPool("test.hashmap2", "hashmap_test.go")
	defer pool2.Delete()
	m2 := matchidx.NewHashMap(pool2)
	m2.Insert("Example.COM", "a")
	m2.Insert("example.com", "a")
	m2.Insert("EXAMPLE.COM", "b")
	fp2 := m2.Finalize()

	if fp1 != fp2 {
		t.Fatalf("fingerprints diverged: %d vs %d", fp1, fp2)
	}
}

func TestHashMapKeyInternedInOwningPool(t *testing.T) {
	pool := matchpool.NewPool("test.hashmap.intern", "hashmap_test.go")
	defer pool.Delete()

	before := matchpool.GlobalStats().ChunksAllocated
	m := matchidx.NewHashMap(pool)
	m.Insert("Interned.Example.Com", "v")
	m.Finalize()
	after := matchpool.GlobalStats().ChunksAllocated

	if after <= before {
		t.Fatalf("expected Insert to draw at least one chunk from the pool for the interned key")
	}
}

func TestHashMapMissReturnsNotFound(t *testing.T) {
	pool := matchpool.NewPool("test.hashmap.miss", "hashmap_test.go")
	defer pool.Delete()

	m := matchidx.NewHashMap(pool)
	m.Insert("present", 1)
	m.Finalize()

	if _, ok := m.Match("absent"); ok {
		t.Fatalf("expected miss")
	}
}
