// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !unix

package shmlock

// newRobustMutex has no flock(2) equivalent outside unix targets; fall
// back to the portable spin/yield emulation rather than fail the build.
func newRobustMutex() Mutex {
	return &portableMutex{}
}
