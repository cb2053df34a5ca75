// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sys/cpu"

	"code.hybscloud.com/corelib/wsq"
)

// WorkItem is a unit of work dispatched by a Pool. A panic escaping
// Execute is not recovered; use Task to capture one.
type WorkItem interface {
	Execute()
}

// WorkFunc adapts a function to WorkItem.
type WorkFunc func()

// Execute calls f.
func (f WorkFunc) Execute() { f() }

// job is the queue element. Each submission gets its own job, so the same
// WorkItem may be queued more than once.
type job struct {
	item WorkItem
}

// Pool is a work-stealing scheduler: one local queue per processor slot,
// a global overflow queue, and dispatch loops started on demand through a
// ThreadRequester.
type Pool struct {
	id      uuid.UUID
	log     *zap.Logger
	locals  []*wsq.Local[job]
	mask    int
	global  *wsq.Global[job]
	req     ThreadRequester
	procs   int32
	quantum time.Duration
	hint    func() int
	onDone  func(WorkItem) bool

	_              cpu.CacheLinePad
	outstanding    atomix.Int32
	maxOutstanding atomix.Int32
	_              cpu.CacheLinePad
	running        atomix.Int32
	closed         atomix.Uint32
	_              cpu.CacheLinePad
	executed       atomix.Int64
	rr             atomix.Uint32
	_              cpu.CacheLinePad
}

// New creates a Pool. No worker runs until work is submitted.
func New(opts Options) *Pool {
	opts = opts.withDefaults()
	n := roundUpToPowerOf2(opts.Queues)
	p := &Pool{
		id:      uuid.New(),
		locals:  make([]*wsq.Local[job], n),
		mask:    n - 1,
		global:  wsq.NewGlobal[job](),
		procs:   int32(opts.MaxWorkers),
		quantum: opts.Quantum,
		hint:    opts.ProcessorID,
		onDone:  opts.OnComplete,
		req:     opts.Requester,
	}
	for i := range p.locals {
		p.locals[i] = wsq.NewLocal[job]()
	}
	if p.hint == nil {
		p.hint = p.roundRobin
	}
	if p.req == nil {
		p.req = NewGoroutineRequester(opts.MaxWorkers)
	}
	p.maxOutstanding.Store(p.procs)
	p.log = opts.Logger.With(zap.Stringer("pool", p.id))
	p.log.Debug("pool created",
		zap.Int("queues", n),
		zap.Int("maxWorkers", opts.MaxWorkers),
		zap.Duration("quantum", p.quantum))
	return p
}

// ID returns the pool's unique identifier, also attached to its log entries.
func (p *Pool) ID() uuid.UUID { return p.id }

func (p *Pool) roundRobin() int {
	return int(p.rr.Add(1))
}

func (p *Pool) localFor(hint int) *wsq.Local[job] {
	return p.locals[hint&p.mask]
}

func (p *Pool) isClosed() bool {
	return p.closed.Load() != 0
}

// Submit queues w on the local queue selected by the processor hint.
// It returns ErrClosed once Shutdown has begun and panics if w is nil.
func (p *Pool) Submit(w WorkItem) error {
	if w == nil {
		panic("sched: nil work item")
	}
	if p.isClosed() {
		return ErrClosed
	}
	p.localFor(p.hint()).Enqueue(&job{item: w})
	p.ensureWorkerRequested()
	return nil
}

// SubmitGlobal queues w on the global FIFO queue.
// It returns ErrClosed once Shutdown has begun and panics if w is nil.
func (p *Pool) SubmitGlobal(w WorkItem) error {
	if w == nil {
		panic("sched: nil work item")
	}
	if p.isClosed() {
		return ErrClosed
	}
	p.global.Enqueue(&job{item: w})
	p.ensureWorkerRequested()
	return nil
}

// push queues j on q, or on the hinted local queue when q is nil, without
// the closed check. It is used for work derived from work already
// accepted: forks and resumed fibers.
func (p *Pool) push(q *wsq.Local[job], j *job) {
	if q == nil {
		q = p.localFor(p.hint())
	}
	q.Enqueue(j)
	p.ensureWorkerRequested()
}

// requeue queues j on the global queue without the closed check.
func (p *Pool) requeue(j *job) {
	p.global.Enqueue(j)
	p.ensureWorkerRequested()
}

// Go runs fn as a Task. If the pool is closed the returned Task is already
// complete and Wait reports ErrClosed.
func (p *Pool) Go(fn func()) *Task {
	t := newTask(p, fn)
	if p.isClosed() {
		t.finish(ErrClosed)
		return t
	}
	p.localFor(p.hint()).Enqueue(&t.j)
	p.ensureWorkerRequested()
	return t
}

// TryRemove de-schedules a queued submission of w so that the caller can
// run it inline. Only the newest RemoveRange slots of each local queue are
// searched, starting with the hinted queue; the global queue is not. It
// reports whether a submission was removed. A WorkItem whose dynamic type
// is not comparable is never found.
func (p *Pool) TryRemove(w WorkItem) bool {
	if w == nil || !reflect.TypeOf(w).Comparable() {
		return false
	}
	if t, ok := w.(*Task); ok {
		return p.tryRemoveJob(&t.j)
	}
	match := func(j *job) bool { return j.item == w }
	start := p.hint()
	for i := range p.locals {
		if p.locals[(start+i)&p.mask].RemoveFunc(match) != nil {
			return true
		}
	}
	return false
}

func (p *Pool) tryRemoveJob(j *job) bool {
	start := p.hint()
	for i := range p.locals {
		if p.locals[(start+i)&p.mask].TryRemove(j) {
			return true
		}
	}
	return false
}

// Stats is a racy snapshot of the pool's counters.
type Stats struct {
	LocalCount     int
	GlobalCount    int
	Workers        int
	Outstanding    int
	MaxOutstanding int
	Executed       int64
	Closed         bool
}

// Stats returns a snapshot of queue depths and worker counters.
func (p *Pool) Stats() Stats {
	s := Stats{
		GlobalCount:    p.global.Count(),
		Workers:        int(p.running.Load()),
		Outstanding:    int(p.outstanding.Load()),
		MaxOutstanding: int(p.maxOutstanding.Load()),
		Executed:       p.executed.Load(),
		Closed:         p.isClosed(),
	}
	for _, q := range p.locals {
		s.LocalCount += q.Count()
	}
	return s
}

func (p *Pool) idle() bool {
	if p.running.Load() != 0 || p.outstanding.Load() != 0 || !p.global.IsEmpty() {
		return false
	}
	for _, q := range p.locals {
		if !q.IsEmpty() {
			return false
		}
	}
	return true
}

// Shutdown stops accepting new submissions and waits until every queue has
// drained and every worker has left. Work already accepted, including the
// fibers and forks it produces, still runs. If ctx ends first, Shutdown
// returns an error wrapping both ErrShutdownTimeout and ctx.Err().
func (p *Pool) Shutdown(ctx context.Context) error {
	if p.closed.CompareAndSwap(0, 1) {
		p.log.Info("pool shutting down", zap.Int64("executed", p.executed.Load()))
	}
	// Make sure someone drains what is left.
	p.ensureWorkerRequested()
	var bo iox.Backoff
	for !p.idle() {
		if err := ctx.Err(); err != nil {
			st := p.Stats()
			p.log.Info("pool shutdown timed out",
				zap.Int("local", st.LocalCount),
				zap.Int("global", st.GlobalCount),
				zap.Int("workers", st.Workers))
			return fmt.Errorf("%w: %w", ErrShutdownTimeout, err)
		}
		bo.Wait()
	}
	p.log.Info("pool shut down", zap.Int64("executed", p.executed.Load()))
	return nil
}
