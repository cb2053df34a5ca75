// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
)

// ThreadRequester runs dispatch loops on behalf of a Pool.
//
// RequestWorker asks for one future call of dispatch on some goroutine.
// It must not block. dispatch returns when the worker leaves the pool; the
// worker argument is a stable identifier used to pick the worker's home
// local queue.
type ThreadRequester interface {
	RequestWorker(dispatch func(worker int))
}

// GoroutineRequester starts one goroutine per request, with at most n
// running at a time. Worker identifiers are tokens held in a lock-free MPMC
// ring. A request that finds no token is deferred and picked up by the next
// worker that leaves.
type GoroutineRequester struct {
	tokens   lfq.Queue[int]
	deferred atomix.Int64
}

// NewGoroutineRequester returns a requester bounded to n live workers.
// It panics if n < 1.
func NewGoroutineRequester(n int) *GoroutineRequester {
	if n < 1 {
		panic("sched: requester needs at least one worker")
	}
	// The ring needs room for at least two; only n tokens ever circulate.
	r := &GoroutineRequester{tokens: lfq.NewMPMC[int](max(n, 2))}
	for id := range n {
		if err := r.tokens.Enqueue(&id); err != nil {
			panic("sched: token ring rejected initial token")
		}
	}
	return r
}

// RequestWorker implements ThreadRequester.
func (r *GoroutineRequester) RequestWorker(dispatch func(worker int)) {
	r.deferred.Add(1)
	r.pump(dispatch)
}

// Deferred returns the number of requests waiting for a token.
func (r *GoroutineRequester) Deferred() int64 {
	return r.deferred.Load()
}

// pump pairs deferred requests with free tokens. Both a new request and a
// leaving worker publish first and pump second, so neither side can miss
// the other.
func (r *GoroutineRequester) pump(dispatch func(worker int)) {
	for {
		n := r.deferred.Load()
		if n <= 0 {
			return
		}
		id, err := r.tokens.Dequeue()
		if lfq.IsWouldBlock(err) {
			// Every token is out; its holder pumps when it leaves.
			return
		}
		if err != nil {
			panic(err)
		}
		if !r.deferred.CompareAndSwap(n, n-1) {
			r.release(id)
			continue
		}
		go r.work(id, dispatch)
	}
}

func (r *GoroutineRequester) work(id int, dispatch func(worker int)) {
	dispatch(id)
	r.release(id)
	r.pump(dispatch)
}

func (r *GoroutineRequester) release(id int) {
	// The ring is sized for every token, so this never fills up.
	if err := r.tokens.Enqueue(&id); err != nil {
		panic("sched: token ring overflow")
	}
}
