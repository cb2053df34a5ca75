// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/kont"
)

// errorDispatcher is the structural interface of kont error operations.
type errorDispatcher[E any] interface {
	DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
}

// fiberErrorHandler handles both fiber and error effects.
// Fiber ops wait on ErrWouldBlock via iox.Backoff. Error ops short-circuit on Throw.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type fiberErrorHandler[E, A any] struct {
	env    *Env
	errCtx *kont.ErrorContext[E]
}

// Dispatch implements kont.Handler for the composed Fiber+Error handler.
// Dispatch order: Fiber → Error.
func (h fiberErrorHandler[E, A]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if fop, ok := op.(fiberDispatcher); ok {
		return dispatchWait(h.env, fop), true
	}
	if eop, ok := op.(errorDispatcher[E]); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[E, A](h.errCtx.Err), false
		}
		return v, true
	}
	panic("sched: unhandled effect in fiberErrorHandler")
}

// ExecError runs a fiber computation with error handling on the calling
// goroutine. Returns Either[E, R]: Right on success, Left on Throw.
func ExecError[E, R any](p *Pool, protocol kont.Eff[R]) kont.Either[E, R] {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[E, R]](protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	var errCtx kont.ErrorContext[E]
	h := fiberErrorHandler[E, R]{env: NewEnv(p), errCtx: &errCtx}
	return kont.Handle(wrapped, h)
}

// ExecErrorExpr runs an Expr fiber computation with error handling on the
// calling goroutine. Returns Either[E, R]: Right on success, Left on Throw.
func ExecErrorExpr[E, R any](p *Pool, protocol kont.Expr[R]) kont.Either[E, R] {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	var errCtx kont.ErrorContext[E]
	h := fiberErrorHandler[E, R]{env: NewEnv(p), errCtx: &errCtx}
	return kont.HandleExpr(wrapped, h)
}

// SpawnError starts a Cont-world computation with error handling as a
// fiber on p. The future resolves to Right on success, Left on Throw.
func SpawnError[E, R any](p *Pool, protocol kont.Eff[R]) (*Future[kont.Either[E, R]], error) {
	return SpawnErrorExpr[E](p, Reify(protocol))
}

// SpawnErrorExpr is SpawnError for an Expr-world computation.
func SpawnErrorExpr[E, R any](p *Pool, protocol kont.Expr[R]) (*Future[kont.Either[E, R]], error) {
	if p.isClosed() {
		return nil, ErrClosed
	}
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	f := newFiber(p, wrapped, AdvanceError[E, R])
	p.push(nil, &f.j)
	return &f.fut, nil
}

// StepError evaluates a fiber computation with error support until the
// first effect suspension. Returns (Either[E, R], nil) on completion or
// error, or (zero, suspension) if pending.
func StepError[E, R any](protocol kont.Expr[R]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]]) {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	return kont.StepExpr(wrapped)
}

// AdvanceError dispatches the suspended operation in env.
// Fiber ops are non-blocking (ErrWouldBlock). Error ops are eager:
// Throw discards the suspension and returns Left.
func AdvanceError[E, R any](env *Env, susp *kont.Suspension[kont.Either[E, R]]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]], error) {
	if fop, ok := susp.Op().(fiberDispatcher); ok {
		v, err := fop.DispatchFiber(env)
		if err != nil {
			var zero kont.Either[E, R]
			return zero, susp, err
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	if eop, ok := susp.Op().(errorDispatcher[E]); ok {
		var ctx kont.ErrorContext[E]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[E, R](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	panic("sched: unhandled effect in AdvanceError")
}
