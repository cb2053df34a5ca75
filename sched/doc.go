// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sched provides a work-stealing scheduler over the queues of
// [code.hybscloud.com/corelib/wsq], and effect-driven fibers on top of it
// via [code.hybscloud.com/kont].
//
// # Architecture
//
//   - Queues: one [wsq.Local] per processor slot plus one [wsq.Global]. A worker pops its own queue (LIFO), then dequeues the global queue, then steals from the other local queues (FIFO), robbing half of a rich queue at once.
//   - Workers: dispatch loops started on demand through a [ThreadRequester]. The default [GoroutineRequester] bounds live workers with tokens held in a lock-free [code.hybscloud.com/lfq] ring.
//   - Throttling: outstanding worker requests are capped by an adaptive limit that halves on contention and grows back as workers leave. A worker that finds no work leaves on a coin flip, or after a second empty look.
//   - Progress: every enqueue makes sure a worker request is pending, and a worker that leaves early or runs out its quantum requests a replacement.
//
// # API Topologies
//
//   - Work items: [Pool.Submit], [Pool.SubmitGlobal], [Pool.TryRemove]. [Pool.Go] returns a [Task] whose [Task.Wait] runs it inline when it can still be taken back.
//   - Operations: [Yield], [Fork], [Await].
//   - Cont-world: [YieldThen], [ForkBind], [AwaitBind], [ForkAwait], [Loop].
//   - Expr-world: [ExprYieldThen], [ExprForkBind], [ExprAwaitBind], [ExprForkAwait], [ExprLoop]. Bridge via [Reify] and [Reflect].
//
// # Integration
//
//   - Fibers: [Spawn], [SpawnExpr], [SpawnError] queue a computation that workers step one effect at a time. An effect that would block sends the fiber to the back of the global queue.
//   - Stepping: [Step] and [Advance] (or [StepError]/[AdvanceError]) for custom drivers.
//   - Blocking: [Exec], [ExecExpr], [ExecError] run on the calling goroutine and wait with adaptive backoff.
//
// # Example
//
//	p := sched.New(sched.DefaultOptions())
//	defer p.Shutdown(context.Background())
//
//	double := func(n int) kont.Expr[int] { return kont.ExprReturn(n * 2) }
//	fut, _ := sched.SpawnExpr(p, sched.ExprForkBind(double(21),
//		func(f *sched.Future[int]) kont.Expr[int] {
//			return sched.ExprAwaitBind(f, func(v int) kont.Expr[int] {
//				return kont.ExprReturn(v + 1)
//			})
//		}))
//	v, err := fut.Wait() // 43, nil
package sched
