// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package sched_test

import "testing"

// skipRace skips tests that move work between goroutines through the
// work-stealing queues. The race detector cannot see the ordering between
// a slot's sequence number and its item, producing false positives.
func skipRace(tb testing.TB) {
	tb.Helper()
	tb.Skip("skip: queue handoff uses cross-variable memory ordering")
}
