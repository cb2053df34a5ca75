// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"go.uber.org/zap"
)

// fiberSteps bounds the effects a fiber dispatches per turn on a worker.
const fiberSteps = 64

type advanceFunc[R any] func(env *Env, susp *kont.Suspension[R]) (R, *kont.Suspension[R], error)

// fiber is a work item that steps a computation one effect at a time.
// Whenever an effect would block, the fiber goes to the back of the global
// queue and the worker moves on.
type fiber[R any] struct {
	env     Env
	expr    kont.Expr[R]
	susp    *kont.Suspension[R]
	started bool
	advance advanceFunc[R]
	fut     Future[R]
	j       job
}

func newFiber[R any](p *Pool, expr kont.Expr[R], advance advanceFunc[R]) *fiber[R] {
	f := &fiber[R]{
		env:     Env{pool: p, serial: nextSerial()},
		expr:    expr,
		advance: advance,
	}
	f.j.item = f
	return f
}

// Execute runs one turn of the fiber outside of a worker.
func (f *fiber[R]) Execute() {
	f.env.home = nil
	f.run()
}

func (f *fiber[R]) executeOn(w *worker) {
	f.env.home = w.home
	f.run()
}

func (f *fiber[R]) run() {
	defer func() {
		if r := recover(); r != nil {
			pe := newPanicError(r)
			f.env.pool.log.Error("fiber panicked",
				zap.Uint32("fiber", f.env.serial),
				zap.Any("panic", r),
				zap.ByteString("stack", pe.Stack))
			f.fut.fail(pe)
		}
	}()
	if !f.started {
		f.started = true
		result, susp := kont.StepExpr(f.expr)
		f.expr = kont.Expr[R]{}
		if susp == nil {
			f.fut.complete(result)
			return
		}
		f.susp = susp
	}
	for range fiberSteps {
		result, next, err := f.advance(&f.env, f.susp)
		if err != nil {
			if !iox.IsWouldBlock(err) {
				panic(err)
			}
			// The fiber may be picked up by another worker as soon as it
			// is queued: touch nothing after this.
			f.env.pool.requeue(&f.j)
			return
		}
		if next == nil {
			f.susp = nil
			f.fut.complete(result)
			return
		}
		f.susp = next
	}
	f.env.pool.requeue(&f.j)
}

// Spawn starts a Cont-world computation as a fiber on p.
// It returns ErrClosed once Shutdown has begun.
func Spawn[R any](p *Pool, protocol kont.Eff[R]) (*Future[R], error) {
	return SpawnExpr(p, Reify(protocol))
}

// SpawnExpr starts an Expr-world computation as a fiber on p. The fiber is
// queued on the hinted local queue and stepped by workers; Yield, a pending
// Await or an exhausted turn sends it to the global queue.
// It returns ErrClosed once Shutdown has begun.
func SpawnExpr[R any](p *Pool, protocol kont.Expr[R]) (*Future[R], error) {
	if p.isClosed() {
		return nil, ErrClosed
	}
	f := newFiber(p, protocol, Advance[R])
	p.push(nil, &f.j)
	return &f.fut, nil
}

// spawnChild starts body for a Fork performed in env. Without a pool the
// child runs to completion on the calling goroutine.
func spawnChild[T any](env *Env, body kont.Expr[T]) *Future[T] {
	if env.pool == nil {
		fut := &Future[T]{}
		func() {
			defer func() {
				if r := recover(); r != nil {
					fut.fail(newPanicError(r))
				}
			}()
			fut.complete(ExecExpr(nil, body))
		}()
		return fut
	}
	f := newFiber(env.pool, body, Advance[T])
	env.pool.push(env.home, &f.j)
	return &f.fut
}
