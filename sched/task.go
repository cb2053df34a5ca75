// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"context"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"go.uber.org/zap"
)

const (
	taskPending int32 = iota
	taskRunning
	taskDone
)

// Task is a one-shot work item created by Pool.Go. It runs at most once,
// either on a worker or inline in Wait.
type Task struct {
	pool  *Pool
	fn    func()
	state atomix.Int32
	err   error
	j     job
}

func newTask(p *Pool, fn func()) *Task {
	if fn == nil {
		panic("sched: nil task function")
	}
	t := &Task{pool: p, fn: fn}
	t.j.item = t
	return t
}

// Execute runs the task unless it already ran or is running. A panic in
// the task function is recovered and reported by Wait as a *PanicError.
func (t *Task) Execute() {
	if !t.state.CompareAndSwap(taskPending, taskRunning) {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			pe := newPanicError(r)
			t.pool.log.Error("task panicked", zap.Any("panic", r), zap.ByteString("stack", pe.Stack))
			t.err = pe
		}
		t.state.Store(taskDone)
	}()
	t.fn()
}

func (t *Task) finish(err error) {
	t.err = err
	t.state.Store(taskDone)
}

// Done reports whether the task has completed.
func (t *Task) Done() bool {
	return t.state.Load() == taskDone
}

// Wait blocks until the task completes. A task still queued on a local
// queue is taken back and run on the calling goroutine. Wait returns the
// recovered *PanicError, ErrClosed for a task created after shutdown, or nil.
func (t *Task) Wait() error {
	t.tryInline()
	var bo iox.Backoff
	for !t.Done() {
		bo.Wait()
	}
	return t.err
}

// WaitContext is Wait bounded by ctx. It returns ctx.Err() if ctx ends
// first; the task keeps running.
func (t *Task) WaitContext(ctx context.Context) error {
	t.tryInline()
	var bo iox.Backoff
	for !t.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		bo.Wait()
	}
	return t.err
}

func (t *Task) tryInline() {
	if t.state.Load() == taskPending && t.pool.tryRemoveJob(&t.j) {
		t.Execute()
	}
}
