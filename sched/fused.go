// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/kont"
)

// YieldThen gives up the worker and then continues with next.
// Fuses Perform(Yield{}) + Then.
func YieldThen[B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Yield{}), next)
}

// ForkBind starts child as a fiber and passes its future to f.
// Fuses Perform(Fork[T]{Body: Reify(child)}) + Bind.
func ForkBind[T, B any](child kont.Eff[T], f func(*Future[T]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Fork[T]{Body: kont.Reify(child)}), f)
}

// AwaitBind waits for fut and passes its value to f.
// Fuses Perform(Await[T]{Future: fut}) + Bind.
func AwaitBind[T, B any](fut *Future[T], f func(T) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Await[T]{Future: fut}), f)
}

// ForkAwait starts child, runs next concurrently with it, and combines
// both results with join.
func ForkAwait[T, U, B any](child kont.Eff[T], next kont.Eff[U], join func(T, U) B) kont.Eff[B] {
	return ForkBind(child, func(fut *Future[T]) kont.Eff[B] {
		return kont.Bind(next, func(u U) kont.Eff[B] {
			return AwaitBind(fut, func(t T) kont.Eff[B] {
				return kont.Pure(join(t, u))
			})
		})
	})
}
