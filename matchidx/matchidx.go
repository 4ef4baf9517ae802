// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package matchidx implements the hash, radix (CIDR), and regex index
// helpers built on top of a matchpool.Pool: insertion with per-kind dedup
// rules, atomic generation swap for hot reloads, hit counters, and an
// insertion-order fingerprint per index.
package matchidx

import "sync/atomic"

// Logger is the scoped logging collaborator the matchidx maps accept.
// Implementations are expected to be safe for concurrent use.
type Logger interface {
	Debugf(scope, format string, args ...any)
	Infof(scope, format string, args ...any)
	Errf(scope, format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, string, ...any) {}
func (nopLogger) Infof(string, string, ...any)  {}
func (nopLogger) Errf(string, string, ...any)   {}

// loggable is implemented by every map kind's option receiver, letting a
// single generic WithLogger cover HashMap, RadixMap, and RegexMap.
type loggable interface {
	setLogger(Logger)
}

// WithLogger overrides a map's default no-op Logger.
func WithLogger[T loggable](l Logger) func(T) {
	return func(t T) { t.setLogger(l) }
}

// record pairs a stored value with its hit counter. Every index kind
// stores values behind a record so Traverse and Match share one counting
// path regardless of index type. In a HashMap, key is pool-interned storage
// shared with the map's own key slot, so the two alias the same bytes
// instead of each holding their own heap copy; a RadixMap record holds the
// pool-interned route string, and a RegexMap record leaves key empty.
type record struct {
	key   string
	value any
	hits  atomic.Uint64
}

func (r *record) hit() any {
	r.hits.Add(1)
	return r.value
}
