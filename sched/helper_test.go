// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"code.hybscloud.com/kont"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/corelib/sched"
)

// newPool returns a pool that is shut down when the test ends.
func newPool(tb testing.TB, opts sched.Options) *sched.Pool {
	tb.Helper()
	p := sched.New(opts)
	tb.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		require.NoError(tb, p.Shutdown(ctx))
	})
	return p
}

// manualRequester records worker requests and runs them only when asked,
// on the calling goroutine.
type manualRequester struct {
	mu      sync.Mutex
	pending []func(worker int)
	total   int
}

func (r *manualRequester) RequestWorker(dispatch func(worker int)) {
	r.mu.Lock()
	r.pending = append(r.pending, dispatch)
	r.total++
	r.mu.Unlock()
}

// Total returns the number of requests recorded so far.
func (r *manualRequester) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// RunOne runs the oldest pending request as worker 0.
func (r *manualRequester) RunOne() bool {
	r.mu.Lock()
	if len(r.pending) == 0 {
		r.mu.Unlock()
		return false
	}
	dispatch := r.pending[0]
	r.pending = r.pending[1:]
	r.mu.Unlock()
	dispatch(0)
	return true
}

// Drain runs pending requests until none is left.
func (r *manualRequester) Drain() {
	for r.RunOne() {
	}
}

// manualPool returns a pool whose workers only run through the returned
// requester. Zero Queues and MaxWorkers default to one.
func manualPool(tb testing.TB, opts sched.Options) (*sched.Pool, *manualRequester) {
	tb.Helper()
	req := &manualRequester{}
	opts.Requester = req
	if opts.Queues == 0 {
		opts.Queues = 1
	}
	if opts.MaxWorkers == 0 {
		opts.MaxWorkers = 1
	}
	p := sched.New(opts)
	tb.Cleanup(func() {
		req.Drain()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		shutdownErr := make(chan error, 1)
		go func() { shutdownErr <- p.Shutdown(ctx) }()
		// Shutdown requests a worker to drain the pool.
		for {
			select {
			case err := <-shutdownErr:
				require.NoError(tb, err)
				return
			default:
				if !req.RunOne() {
					time.Sleep(time.Millisecond)
				}
			}
		}
	})
	return p, req
}

// countItem is a comparable WorkItem counting its executions.
type countItem struct {
	n atomic.Int32
}

func (c *countItem) Execute() { c.n.Add(1) }

// execExpr drives a fiber computation to completion via Step+Advance.
// Retries on iox.ErrWouldBlock (yielded, or awaiting a running fiber).
func execExpr[R any](env *sched.Env, protocol kont.Expr[R]) R {
	result, susp := sched.Step[R](protocol)
	for susp != nil {
		var err error
		result, susp, err = sched.Advance(env, susp)
		if err != nil {
			continue
		}
	}
	return result
}
