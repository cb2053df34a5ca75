// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a fiber computation until the first effect suspension.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
func Step[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(protocol)
}

// Advance dispatches the suspended fiber operation in env.
// DispatchFiber is non-blocking: it returns iox.ErrWouldBlock when the
// fiber yields or awaits a result that is not ready yet.
//
// On success (nil error), the suspension is consumed and the computation
// advances to the next effect or completion.
// On iox.ErrWouldBlock, the suspension is unconsumed and may be retried,
// typically after the fiber has been requeued.
func Advance[R any](env *Env, susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	fop, ok := susp.Op().(fiberDispatcher)
	if !ok {
		panic("sched: unhandled effect in Advance")
	}
	v, err := fop.DispatchFiber(env)
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
