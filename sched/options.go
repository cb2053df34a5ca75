// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// DefaultQuantum is how long a worker dispatches before it hands its slot
// back to the ThreadRequester.
const DefaultQuantum = 30 * time.Millisecond

// Options configures a Pool. Zero fields take their defaults.
type Options struct {
	// Queues is the number of local queues, rounded up to a power of two.
	// Default: runtime.GOMAXPROCS(0).
	Queues int
	// MaxWorkers bounds the number of concurrently dispatching workers and
	// the outstanding worker requests. Default: runtime.GOMAXPROCS(0).
	MaxWorkers int
	// Quantum is the dispatch time slice of one worker. Default: DefaultQuantum.
	Quantum time.Duration
	// Requester starts dispatch loops. Default: a goroutine requester
	// bounded by MaxWorkers.
	Requester ThreadRequester
	// ProcessorID returns the submitter's processor hint. It selects the
	// local queue for Submit. Default: round robin.
	ProcessorID func() int
	// OnComplete runs after every executed item. Returning false makes the
	// worker leave; a replacement is requested.
	OnComplete func(WorkItem) bool
	// Logger overrides the package logger for this pool.
	Logger *zap.Logger
}

// DefaultOptions returns the options New uses for zero fields.
func DefaultOptions() Options {
	procs := runtime.GOMAXPROCS(0)
	return Options{
		Queues:     procs,
		MaxWorkers: procs,
		Quantum:    DefaultQuantum,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Queues <= 0 {
		o.Queues = d.Queues
	}
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = d.MaxWorkers
	}
	if o.Quantum <= 0 {
		o.Quantum = d.Quantum
	}
	if o.Logger == nil {
		o.Logger = Logger()
	}
	return o
}

// roundUpToPowerOf2 returns the smallest power of two >= n, for n >= 1.
func roundUpToPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
