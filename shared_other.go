// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !unix

package matchpool

// allocSharedBytes falls back to an ordinary heap slice on platforms
// without anonymous shared mappings. Shared-class allocations remain
// correct for single-process use; cross-process sharing is unavailable.
func allocSharedBytes(size int) []byte {
	return make([]byte, size)
}
