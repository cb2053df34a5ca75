// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package wsq_test

import "testing"

// skipRace skips tests that hand items across goroutines through slot
// sequence numbers. The race detector tracks per-variable happens-before
// and cannot see the ordering between a sequence number and its item.
func skipRace(tb testing.TB) {
	tb.Helper()
	tb.Skip("skip: slot handoff uses cross-variable memory ordering")
}
