// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Yield is the effect operation for giving up the worker.
// Perform(Yield{}) requeues the fiber behind other ready work.
type Yield struct {
	kont.Phantom[struct{}]
}

// DispatchFiber handles Yield. The first dispatch reports
// iox.ErrWouldBlock so the driver requeues the fiber; the retry resumes it.
func (Yield) DispatchFiber(env *Env) (kont.Resumed, error) {
	if !env.yielded {
		env.yielded = true
		return nil, iox.ErrWouldBlock
	}
	env.yielded = false
	return struct{}{}, nil
}

// Fork is the effect operation for starting a child fiber.
// Perform(Fork[T]{Body: child}) resumes with the child's *Future[T].
type Fork[T any] struct {
	kont.Phantom[*Future[T]]
	Body kont.Expr[T]
}

// DispatchFiber handles Fork. The child is pushed on the current worker's
// local queue, so it is likely to run next on the same worker. Never blocks.
func (f Fork[T]) DispatchFiber(env *Env) (kont.Resumed, error) {
	return spawnChild(env, f.Body), nil
}

// Await is the effect operation for waiting on a fiber's result.
// Perform(Await[T]{Future: fut}) resumes with the value.
type Await[T any] struct {
	kont.Phantom[T]
	Future *Future[T]
}

// DispatchFiber handles Await.
// Non-blocking: returns iox.ErrWouldBlock while the awaited fiber runs.
// A failed fiber re-panics its error in the awaiting one.
func (a Await[T]) DispatchFiber(env *Env) (kont.Resumed, error) {
	if !a.Future.Done() {
		return nil, iox.ErrWouldBlock
	}
	if a.Future.err != nil {
		panic(a.Future.err)
	}
	return a.Future.value, nil
}
