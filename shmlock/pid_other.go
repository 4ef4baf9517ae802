// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !unix

package shmlock

import "os"

func currentPID() int32 {
	return int32(os.Getpid())
}

// pidAlive has no signal-0 equivalent outside unix; callers never see a
// false positive for crash recovery, they simply wait on the normal spin
// path until the lock is released cleanly.
func pidAlive(pid int32) bool {
	return true
}
