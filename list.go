// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchpool

import "unsafe"

// ListCell is one node of a pool-backed singly linked list. Cells are
// bump-allocated from the owning Pool, so a List never needs an explicit
// free: it dies with the pool, the same guarantee rspamd's
// g_list-over-mempool helpers give callers that would otherwise reach for
// container/list and its per-node heap allocation.
type ListCell[T any] struct {
	Value T
	Next  *ListCell[T]
}

// PrependList allocates a new cell holding value and returns it as the new
// head of the list headed by head.
func PrependList[T any](p *Pool, head *ListCell[T], value T) *ListCell[T] {
	cell := poolNew[ListCell[T]](p)
	cell.Value = value
	cell.Next = head
	return cell
}

// AppendList allocates a new cell holding value and links it onto the tail
// of the list headed by head, returning the (unchanged) head. O(n) in the
// current list length, matching the original's glist semantics.
func AppendList[T any](p *Pool, head *ListCell[T], value T) *ListCell[T] {
	cell := poolNew[ListCell[T]](p)
	cell.Value = value
	cell.Next = nil
	if head == nil {
		return cell
	}
	tail := head
	for tail.Next != nil {
		tail = tail.Next
	}
	tail.Next = cell
	return head
}

// poolNew bump-allocates space for one T from p and returns a pointer into
// it, zero-valued.
func poolNew[T any](p *Pool) *T {
	var zero T
	n := int(unsafe.Sizeof(zero))
	if n == 0 {
		n = 1
	}
	buf := p.Alloc(n, Normal)
	return (*T)(unsafe.Pointer(&buf[0]))
}
