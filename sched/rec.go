// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/kont"
)

// Loop runs a recursive fiber computation (Cont-world).
// step returns Left(nextState) to continue or Right(result) to finish.
// The fiber yields between iterations, so a long loop shares its worker.
func Loop[S, A any](initial S, step func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return kont.Bind(step(initial), func(e kont.Either[S, A]) kont.Eff[A] {
		if left, ok := e.GetLeft(); ok {
			return YieldThen(Loop(left, step))
		}
		right, _ := e.GetRight()
		return kont.Pure(right)
	})
}

// ExprLoop runs a recursive fiber computation (Expr-world).
// step returns Left(nextState) to continue or Right(result) to finish.
// The fiber yields between iterations. An iteration that completes without
// suspending still yields, so ExprLoop never spins on one worker.
func ExprLoop[S, A any](initial S, step func(S) kont.Expr[kont.Either[S, A]]) kont.Expr[A] {
	m := step(initial)
	if _, ok := m.Frame.(kont.ReturnFrame); ok {
		if left, ok := m.Value.GetLeft(); ok {
			return exprYieldLoop(left, step)
		}
		right, _ := m.Value.GetRight()
		return kont.ExprReturn(right)
	}
	bf := kont.AcquireBindFrame()
	bf.F = func(a kont.Erased) kont.Expr[kont.Erased] {
		e := a.(kont.Either[S, A])
		if left, ok := e.GetLeft(); ok {
			result := exprYieldLoop(left, step)
			return kont.Expr[kont.Erased]{Value: kont.Erased(result.Value), Frame: result.Frame}
		}
		right, _ := e.GetRight()
		return kont.Expr[kont.Erased]{Value: kont.Erased(right), Frame: kont.ReturnFrame{}}
	}
	bf.Next = kont.ReturnFrame{}
	var zero A
	return kont.Expr[A]{
		Value: zero,
		Frame: kont.ChainFrames(m.Frame, bf),
	}
}

func loopUnwind[S, A any](data, data2, _ kont.Erased, _ kont.Erased) (kont.Erased, kont.Frame) {
	step := data.(func(S) kont.Expr[kont.Either[S, A]])
	state, _ := data2.(S)
	result := ExprLoop(state, step)
	return kont.Erased(result.Value), result.Frame
}

// exprYieldLoop yields and then resumes the loop from state. The next
// iteration is only built after the fiber is resumed.
func exprYieldLoop[S, A any](state S, step func(S) kont.Expr[kont.Either[S, A]]) kont.Expr[A] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = step
	bf.Data2 = state
	bf.Unwind = loopUnwind[S, A]
	ef := kont.AcquireEffectFrame()
	ef.Operation = exprYield
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[A](ef)
}
