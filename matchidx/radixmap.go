// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchidx

import (
	"net/netip"

	"code.hybscloud.com/matchpool"
	"github.com/cespare/xxhash/v2"
)

// HostResolver resolves a bare hostname to the addresses a RadixMap entry
// should cover, used by InsertResolve for keys that are not themselves
// parseable as a CIDR.
type HostResolver interface {
	Resolve(name string) ([]netip.Addr, error)
}

type trieNode struct {
	children [2]*trieNode
	value    *record
}

// radixMapData is one published generation: the trie root plus insertion
// order (by CIDR string) for fingerprinting.
type radixMapData struct {
	root  *trieNode
	order []string
}

// RadixMap is a longest-prefix-match index over IPv4 and IPv6 CIDRs,
// sharing one binary trie across both families by walking each address's
// raw bits.
type RadixMap struct {
	pool     *matchpool.Pool
	logger   Logger
	gen      Generation[radixMapData]
	building *radixMapData
}

type RadixMapOption func(*RadixMap)

func (m *RadixMap) setLogger(l Logger) { m.logger = l }

func NewRadixMap(pool *matchpool.Pool, opts ...RadixMapOption) *RadixMap {
	m := &RadixMap{pool: pool, logger: nopLogger{}}
	for _, opt := range opts {
		opt(m)
	}
	m.beginGeneration()
	return m
}

func (m *RadixMap) beginGeneration() {
	m.building = &radixMapData{root: &trieNode{}}
}

// Insert adds a CIDR (e.g. "10.0.0.0/8" or a bare address, treated as a
// host route) to the generation under construction.
func (m *RadixMap) Insert(cidr string, value any) error {
	prefix, err := parsePrefixOrAddr(cidr)
	if err != nil {
		return err
	}
	m.insertPrefix(prefix, value, cidr)
	m.building.order = append(m.building.order, cidr)
	return nil
}

// InsertResolve behaves like Insert, but when key does not parse as a CIDR
// or bare address it is resolved via resolver first, and one host route is
// inserted per address returned.
func (m *RadixMap) InsertResolve(key string, value any, resolver HostResolver) error {
	if _, err := parsePrefixOrAddr(key); err == nil {
		return m.Insert(key, value)
	}
	addrs, err := resolver.Resolve(key)
	if err != nil {
		return err
	}
	for _, a := range addrs {
		m.insertPrefix(netip.PrefixFrom(a, a.BitLen()), value, a.String())
		m.building.order = append(m.building.order, a.String())
	}
	return nil
}

func parsePrefixOrAddr(s string) (netip.Prefix, error) {
	if p, err := netip.ParsePrefix(s); err == nil {
		return p, nil
	}
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	return netip.PrefixFrom(a, a.BitLen()), nil
}

func (m *RadixMap) insertPrefix(prefix netip.Prefix, value any, key string) {
	addr := prefix.Addr()
	bits := prefix.Bits()
	var raw []byte
	if addr.Is4() {
		a4 := addr.As4()
		raw = a4[:]
	} else {
		a16 := addr.As16()
		raw = a16[:]
	}

	node := m.building.root
	for i := 0; i < bits; i++ {
		bit := (raw[i/8] >> (7 - uint(i%8))) & 1
		if node.children[bit] == nil {
			node.children[bit] = &trieNode{}
		}
		node = node.children[bit]
	}
	// The route's string form is interned in the owning pool, the same
	// treatment HashMap gives its keys, so the record's key aliases
	// pool-owned storage rather than a fresh heap copy.
	node.value = &record{key: m.pool.StrDup(key), value: value}
}

// Finalize publishes the generation under construction and returns its
// insertion-order fingerprint.
func (m *RadixMap) Finalize() uint64 {
	data := m.building
	h := xxhash.New()
	for _, k := range data.order {
		_, _ = h.Write([]byte(k))
	}
	fp := h.Sum64()
	m.gen.Finalize(m.pool, "radixmap.go", data, func(*radixMapData) {})
	m.beginGeneration()
	return fp
}

// Abort discards the generation under construction.
func (m *RadixMap) Abort() {
	m.gen.Abort(m.building, func(*radixMapData) {})
	m.beginGeneration()
}

// Match performs a longest-prefix-match lookup against the currently
// published generation, incrementing the winning entry's hit counter.
func (m *RadixMap) Match(addr netip.Addr) (any, bool) {
	data := m.gen.Read()
	if data == nil {
		return nil, false
	}
	var raw []byte
	if addr.Is4() {
		a4 := addr.As4()
		raw = a4[:]
	} else {
		a16 := addr.As16()
		raw = a16[:]
	}

	node := data.root
	var best *record
	for i := 0; i < len(raw)*8 && node != nil; i++ {
		if node.value != nil {
			best = node.value
		}
		bit := (raw[i/8] >> (7 - uint(i%8))) & 1
		node = node.children[bit]
	}
	if node != nil && node.value != nil {
		best = node.value
	}
	if best == nil {
		return nil, false
	}
	return best.hit(), true
}

// MatchString parses s as an address before delegating to Match.
func (m *RadixMap) MatchString(s string) (any, bool) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return nil, false
	}
	return m.Match(addr)
}
