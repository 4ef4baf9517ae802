// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package shmlock

import "syscall"

func currentPID() int32 {
	return int32(syscall.Getpid())
}

// pidAlive reports whether pid still exists, using the signal-0 liveness
// idiom: sending signal 0 performs all of kill(2)'s error checking without
// actually delivering a signal.
func pidAlive(pid int32) bool {
	err := syscall.Kill(int(pid), 0)
	return err == nil || err == syscall.EPERM
}
