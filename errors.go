// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchpool

import (
	"errors"
	"fmt"
)

// AllocationFailure is raised as a panic when the OS refuses to back a new
// slab. It is never returned as an error value: a Pool that cannot grow
// cannot usefully continue, the same position the teacher pools take on
// capacity violations.
type AllocationFailure struct {
	Size  int
	Class Class
	Err   error
}

func (e *AllocationFailure) Error() string {
	return fmt.Sprintf("matchpool: failed to allocate %d-byte %s slab: %v", e.Size, e.Class, e.Err)
}

func (e *AllocationFailure) Unwrap() error { return e.Err }

// ErrInvalidUTF8 is returned by match operations when the candidate input
// is not valid UTF-8 and a pattern of the published generation declared
// UTF mode.
var ErrInvalidUTF8 = errors.New("matchpool: candidate is not valid utf-8")

// ErrEmptyIndex names a generation with zero entries. None of the map
// Finalize methods return it; they publish an empty generation as is.
var ErrEmptyIndex = errors.New("matchpool: index generation has no entries")
