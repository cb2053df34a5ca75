// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package encodings

// CachedLookups returns the number of cached name lookups.
func CachedLookups() int {
	n := 0
	lookups.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}
