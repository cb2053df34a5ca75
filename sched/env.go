// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"

	"code.hybscloud.com/corelib/wsq"
)

// Env is the execution environment of one fiber: the pool its forks run
// on, the local queue they are pushed to, and the fiber's yield state.
// An Env is owned by one fiber and never shared.
type Env struct {
	pool    *Pool
	home    *wsq.Local[job]
	serial  Serial
	yielded bool
}

// NewEnv returns an environment whose forks run on p. With a nil p, Fork
// runs the child to completion inline.
func NewEnv(p *Pool) *Env {
	return &Env{pool: p, serial: nextSerial()}
}

// Serial returns the serial number of the fiber owning e.
func (e *Env) Serial() Serial {
	return e.serial
}

// Pool returns the pool forks run on, or nil.
func (e *Env) Pool() *Pool {
	return e.pool
}

// fiberDispatcher is the structural interface for fiber operations.
// DispatchFiber is non-blocking: it returns iox.ErrWouldBlock when the
// fiber should give up its worker and be resumed later.
type fiberDispatcher interface {
	DispatchFiber(env *Env) (kont.Resumed, error)
}

// fiberHandler implements kont.Handler for fiber effects.
// Waits on iox.ErrWouldBlock, converting non-blocking dispatch
// into blocking evaluation for Exec/ExecExpr.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type fiberHandler[R any] struct {
	env *Env
}

// Dispatch implements kont.Handler via structural interface assertion.
func (h fiberHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	fop, ok := op.(fiberDispatcher)
	if !ok {
		panic("sched: unhandled effect in fiberHandler")
	}
	return dispatchWait(h.env, fop), true
}

// dispatchWait blocks until DispatchFiber succeeds, backing off on
// iox.ErrWouldBlock with iox.Backoff.
func dispatchWait(env *Env, fop fiberDispatcher) kont.Resumed {
	var bo iox.Backoff
	for {
		v, err := fop.DispatchFiber(env)
		if err == nil {
			return v
		}
		if !iox.IsWouldBlock(err) {
			panic(err)
		}
		bo.Wait()
	}
}
