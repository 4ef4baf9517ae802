// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchidx

import (
	"sync/atomic"

	"code.hybscloud.com/matchpool"
)

// Generation publishes a map's data atomically: readers calling Read never
// see a half-built index, and a Finalize that replaces live content frees
// the previous generation once, as a pool destructor, instead of the
// caller having to track when the last reader let go of it.
type Generation[T any] struct {
	ptr atomic.Pointer[T]
}

// Read returns the currently published generation, or nil if Finalize has
// never been called.
func (g *Generation[T]) Read() *T {
	return g.ptr.Load()
}

// Finalize installs next as the current generation and, if a previous
// generation existed, registers free to run against it as a pool
// destructor so it outlives any reader that grabbed a reference to it via
// Read just before the swap.
func (g *Generation[T]) Finalize(pool *matchpool.Pool, site string, next *T, free func(*T)) {
	prev := g.ptr.Swap(next)
	if prev != nil && free != nil {
		pool.AddDestructor(func(any) { free(prev) }, prev, site)
	}
}

// Abort discards a generation that was under construction but never
// published, running free against it directly since no reader could have
// observed it.
func (g *Generation[T]) Abort(building *T, free func(*T)) {
	if free != nil && building != nil {
		free(building)
	}
}
