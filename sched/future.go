// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"context"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// Future is the eventual result of a fiber.
// The result and error are written once, before the done flag.
type Future[R any] struct {
	done  atomix.Uint32
	value R
	err   error
}

func (f *Future[R]) complete(v R) {
	f.value = v
	f.done.Store(1)
}

func (f *Future[R]) fail(err error) {
	f.err = err
	f.done.Store(1)
}

// Done reports whether the fiber has finished.
func (f *Future[R]) Done() bool {
	return f.done.Load() != 0
}

// Value returns the result without waiting. ok is false while the fiber
// is running or if it failed.
func (f *Future[R]) Value() (value R, ok bool) {
	if !f.Done() || f.err != nil {
		return value, false
	}
	return f.value, true
}

// Err returns the failure of a finished fiber, or nil.
func (f *Future[R]) Err() error {
	if !f.Done() {
		return nil
	}
	return f.err
}

// Wait blocks with adaptive backoff until the fiber finishes. The error is
// a *PanicError if the fiber panicked.
func (f *Future[R]) Wait() (R, error) {
	var bo iox.Backoff
	for !f.Done() {
		bo.Wait()
	}
	return f.value, f.err
}

// WaitContext is Wait bounded by ctx.
func (f *Future[R]) WaitContext(ctx context.Context) (R, error) {
	var bo iox.Backoff
	for !f.Done() {
		if err := ctx.Err(); err != nil {
			var zero R
			return zero, err
		}
		bo.Wait()
	}
	return f.value, f.err
}
