// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/kont"
)

// Pre-allocated erased operations and frames to eliminate heap escapes
// when boxing empty structs into any/kont.Frame during Expr-world execution.
var (
	exprReturnFrame kont.Frame  = kont.ReturnFrame{}
	exprYield       kont.Erased = Yield{}
)

// identityResume is the identity resume function for EffectFrame construction.
func identityResume(v kont.Erased) kont.Erased { return v }

// ExprYieldThen gives up the worker and then continues with next.
// Fuses ExprPerform(Yield{}) + ExprThen.
func ExprYieldThen[B any](next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = exprYield
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

func forkBindUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(*Future[T]) kont.Expr[B])
	result := f(current.(*Future[T]))
	return kont.Erased(result.Value), result.Frame
}

// ExprForkBind starts child as a fiber and passes its future to f.
// Fuses ExprPerform(Fork[T]{Body: child}) + ExprBind.
func ExprForkBind[T, B any](child kont.Expr[T], f func(*Future[T]) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = forkBindUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Fork[T]{Body: child}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

func awaitBindUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(T) kont.Expr[B])
	result := f(current.(T))
	return kont.Erased(result.Value), result.Frame
}

// ExprAwaitBind waits for fut and passes its value to f.
// Fuses ExprPerform(Await[T]{Future: fut}) + ExprBind.
func ExprAwaitBind[T, B any](fut *Future[T], f func(T) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = awaitBindUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Await[T]{Future: fut}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

func forkAwaitUnwind[T, U, B any](data, data2, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	next := data.(kont.Expr[U])
	join := data2.(func(T, U) B)
	fut := current.(*Future[T])
	result := kont.ExprBind(next, func(u U) kont.Expr[B] {
		return ExprAwaitBind(fut, func(t T) kont.Expr[B] {
			return kont.ExprReturn(join(t, u))
		})
	})
	return kont.Erased(result.Value), result.Frame
}

// ExprForkAwait starts child, runs next concurrently with it, and combines
// both results with join.
func ExprForkAwait[T, U, B any](child kont.Expr[T], next kont.Expr[U], join func(T, U) B) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = next
	bf.Data2 = join
	bf.Unwind = forkAwaitUnwind[T, U, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Fork[T]{Body: child}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}
