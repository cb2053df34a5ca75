// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"time"

	"code.hybscloud.com/iox"
	"go.uber.org/zap"

	"code.hybscloud.com/corelib/wsq"
)

// worker is the state of one dispatch loop.
type worker struct {
	pool *Pool
	id   int
	home *wsq.Local[job]
}

// workerBound is implemented by items that want the executing worker,
// to queue derived work on its home queue.
type workerBound interface {
	executeOn(w *worker)
}

// ensureWorkerRequested keeps at least one worker request outstanding.
// Every enqueue calls it, and so does every worker before it runs an item.
// Collisions halve the request limit; leaving workers raise it again.
func (p *Pool) ensureWorkerRequested() {
	count := p.outstanding.Load()
	for count < p.maxOutstanding.Load() {
		if p.outstanding.CompareAndSwap(count, count+1) {
			p.req.RequestWorker(p.dispatch)
			return
		}
		count = p.outstanding.Load()
		p.maxOutstanding.Store(max(p.maxOutstanding.Load()/2, 1))
	}
}

// requestWorker replaces a worker that leaves while work may remain.
// It is bounded by the worker count rather than the adaptive limit.
func (p *Pool) requestWorker() {
	count := p.outstanding.Load()
	for count < p.procs {
		if p.outstanding.CompareAndSwap(count, count+1) {
			p.req.RequestWorker(p.dispatch)
			return
		}
		count = p.outstanding.Load()
	}
}

func (p *Pool) markRequestSatisfied() {
	count := p.outstanding.Load()
	for count > 0 {
		if p.outstanding.CompareAndSwap(count, count-1) {
			return
		}
		count = p.outstanding.Load()
	}
}

// next returns the next job for w: its own queue newest first, then the
// global queue, then the other local queues oldest first. Stealing starts
// at a per-queue random offset and walks indexes differing in the low bits
// first, so concurrent thieves spread out.
func (p *Pool) next(w *worker) (*job, bool) {
	if j := w.home.Pop(); j != nil {
		return j, false
	}
	if j := p.global.Dequeue(); j != nil {
		return j, false
	}
	missed := false
	start := int(w.home.NextRnd()) & p.mask
	for i := range p.locals {
		j, m := p.locals[start^i].Dequeue(w.home)
		missed = missed || m
		if j != nil {
			return j, missed
		}
	}
	return nil, missed
}

// dispatch is the worker loop. It runs items until its quantum expires, the
// completion hook asks it to stop, or it finds no work. Only in the last
// case does it leave without requesting a replacement.
func (p *Pool) dispatch(id int) {
	// From here on this worker must request a replacement whenever it
	// leaves while work may remain.
	// Count the worker as running before the request is retired, so the
	// pool never looks idle in between.
	p.running.Add(1)
	p.markRequestSatisfied()
	w := &worker{pool: p, id: id, home: p.localFor(id)}
	needAnother := true
	reason := "quantum expired"
	defer func() {
		p.running.Add(-1)
		p.log.Debug("worker leaving", zap.Int("worker", id), zap.String("reason", reason))
		if needAnother {
			p.requestWorker()
		}
	}()
	p.log.Debug("worker started", zap.Int("worker", id))

	start := time.Now()
	var bo iox.Backoff
	cleanMisses := 0
	for {
		j, missed := p.next(w)
		if j == nil {
			if missed {
				// Queues were mid-change; they may still hold work.
				if time.Since(start) >= p.quantum {
					return
				}
				bo.Wait()
				continue
			}
			cleanMisses++
			if cleanMisses == 1 && w.home.NextRnd()&1 == 0 {
				// Tails: look once more before leaving, so that idle
				// workers drain away gradually instead of all at once.
				bo.Wait()
				continue
			}
			needAnother = false
			reason = "no work"
			p.maxOutstanding.Store(min(p.maxOutstanding.Load()+1, p.procs))
			return
		}
		cleanMisses = 0
		bo.Reset()

		// The item may block or run long: keep a request pending.
		p.ensureWorkerRequested()
		if !p.execute(w, j) {
			reason = "stopped by completion hook"
			return
		}
		if time.Since(start) >= p.quantum {
			return
		}
	}
}

func (p *Pool) execute(w *worker, j *job) bool {
	if b, ok := j.item.(workerBound); ok {
		b.executeOn(w)
	} else {
		j.item.Execute()
	}
	p.executed.Add(1)
	if p.onDone != nil {
		return p.onDone(j.item)
	}
	return true
}
