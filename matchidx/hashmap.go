// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchidx

import (
	"strings"

	"code.hybscloud.com/matchpool"
	"github.com/cespare/xxhash/v2"
)

// hashMapData is one published generation of a HashMap: a Go map keyed by
// the case-folded string plus the insertion order needed to make the
// fingerprint a pure function of insertion order rather than of Go's
// randomized map iteration.
type hashMapData struct {
	entries map[string]*record
	order   []string
}

// HashMap is a case-insensitive, deduplicating string index: inserting the
// same key twice with an equal value is a no-op, inserting it again with a
// different value overwrites it in place without disturbing its position
// in the fingerprint order.
type HashMap struct {
	pool     *matchpool.Pool
	logger   Logger
	gen      Generation[hashMapData]
	building *hashMapData
}

// HashMapOption configures a HashMap at construction time.
type HashMapOption func(*HashMap)

func (m *HashMap) setLogger(l Logger) { m.logger = l }

// NewHashMap creates an empty HashMap backed by pool.
func NewHashMap(pool *matchpool.Pool, opts ...HashMapOption) *HashMap {
	m := &HashMap{pool: pool, logger: nopLogger{}}
	for _, opt := range opts {
		opt(m)
	}
	m.beginGeneration()
	return m
}

func (m *HashMap) beginGeneration() {
	m.building = &hashMapData{entries: make(map[string]*record)}
}

func normalizeHashKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Insert adds key/value to the generation under construction. Equal values
// for an already-present key are silently deduplicated; unequal values
// overwrite the existing entry's value without changing its fingerprint
// position.
func (m *HashMap) Insert(key string, value any) {
	norm := normalizeHashKey(key)
	if norm == "" {
		return
	}
	if existing, ok := m.building.entries[norm]; ok {
		if existing.value == value {
			return
		}
		existing.value = value
		return
	}
	// The key is interned in the owning pool so the map's own key slot and
	// the record's key both alias the same storage instead of each holding
	// an independent heap copy.
	interned := m.pool.StrDup(norm)
	r := &record{key: interned, value: value}
	m.building.entries[interned] = r
	m.building.order = append(m.building.order, interned)
}

// Finalize publishes the generation under construction and returns its
// fingerprint, a rolling hash computed purely from insertion order.
func (m *HashMap) Finalize() uint64 {
	data := m.building
	fp := fingerprintOrder(data.order)
	m.gen.Finalize(m.pool, "hashmap.go", data, func(*hashMapData) {})
	m.beginGeneration()
	return fp
}

// Abort discards the generation under construction without publishing it.
func (m *HashMap) Abort() {
	m.gen.Abort(m.building, func(*hashMapData) {})
	m.beginGeneration()
}

// Match looks up candidate, case-insensitively, against the currently
// published generation and increments its hit counter on success.
func (m *HashMap) Match(candidate string) (any, bool) {
	data := m.gen.Read()
	if data == nil {
		return nil, false
	}
	r, ok := data.entries[normalizeHashKey(candidate)]
	if !ok {
		return nil, false
	}
	return r.hit(), true
}

// Traverse visits every entry of the currently published generation in
// insertion order. If resetHits is true, each entry's hit counter is
// zeroed after being reported.
func (m *HashMap) Traverse(resetHits bool, fn func(key string, value any, hits uint64)) {
	data := m.gen.Read()
	if data == nil {
		return
	}
	for _, key := range data.order {
		r := data.entries[key]
		hits := r.hits.Load()
		fn(key, r.value, hits)
		if resetHits {
			r.hits.Store(0)
		}
	}
}

func fingerprintOrder(order []string) uint64 {
	h := xxhash.New()
	for _, key := range order {
		_, _ = h.Write([]byte(key))
	}
	return h.Sum64()
}
