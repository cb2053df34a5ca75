// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wsq

import (
	"sync"
	"sync/atomic"
)

// Global is an unbounded multi-producer multi-consumer FIFO queue.
//
// It is a linked list of bounded segments. When the enqueue segment fills
// up it is frozen and a segment of twice the length is linked after it.
// Dequeuers retire frozen segments once they are drained. The mutex is only
// taken to link or retire a segment.
type Global[T any] struct {
	mu     sync.Mutex
	enqSeg atomic.Pointer[segment[T]]
	deqSeg atomic.Pointer[segment[T]]
}

// NewGlobal returns an empty queue.
func NewGlobal[T any]() *Global[T] {
	q := &Global[T]{}
	s := newSegment[T](InitialSegmentLength)
	q.enqSeg.Store(s)
	q.deqSeg.Store(s)
	return q
}

// Enqueue appends item to the tail. It panics if item is nil.
func (q *Global[T]) Enqueue(item *T) {
	if item == nil {
		panic("wsq: nil item")
	}
	if q.enqSeg.Load().tryEnqueueGlobal(item) {
		return
	}
	q.enqueueSlow(item)
}

func (q *Global[T]) enqueueSlow(item *T) {
	for {
		s := q.enqSeg.Load()
		if s.tryEnqueueGlobal(item) {
			return
		}
		q.mu.Lock()
		if s == q.enqSeg.Load() {
			// Stragglers may still finish out-of-order enqueues into s.
			// Dequeue handles them.
			s.freezeGlobal()
			n := newSegment[T](s.nextLength())
			s.next.Store(n)
			q.enqSeg.Store(n)
		}
		q.mu.Unlock()
	}
}

// Dequeue removes and returns the head item, or nil if the queue is empty.
func (q *Global[T]) Dequeue() *T {
	s := q.deqSeg.Load()
	if s.deq.Load() == s.enq.Load() {
		return nil
	}
	item := s.tryDequeueGlobal()
	if item == nil && s.next.Load() != nil {
		item = q.dequeueSlow(s)
	}
	return item
}

// dequeueSlow retires drained frozen segments.
func (q *Global[T]) dequeueSlow(s *segment[T]) *T {
	for {
		// s is frozen. Another item could have landed between the first
		// attempt and the check for a next segment, so look once more.
		if item := s.tryDequeueGlobal(); item != nil {
			return item
		}
		q.mu.Lock()
		if s == q.deqSeg.Load() {
			q.deqSeg.Store(s.next.Load())
		}
		q.mu.Unlock()

		s = q.deqSeg.Load()
		if item := s.tryDequeueGlobal(); item != nil {
			return item
		}
		if s.next.Load() == nil {
			return nil
		}
	}
}

// Count returns a racy snapshot of the number of queued items.
func (q *Global[T]) Count() int {
	n := 0
	for s := q.deqSeg.Load(); s != nil; s = s.next.Load() {
		n += s.count()
	}
	return n
}

// IsEmpty reports whether the head segment has nothing to dequeue and no
// segment follows it.
func (q *Global[T]) IsEmpty() bool {
	s := q.deqSeg.Load()
	return s.deq.Load() == s.enq.Load() && s.next.Load() == nil
}

func (s *segment[T]) tryEnqueueGlobal(item *T) bool {
	var sp spinner
	for {
		pos := s.enq.Load()
		sl := s.at(pos)
		seq := sl.seq.Load()
		if seq == pos+empty {
			if s.enq.CompareAndSwap(pos, pos+1) {
				sl.item.Store(item)
				sl.seq.Store(pos + full)
				return true
			}
		} else if seq-pos < 0 {
			// Caught up with the previous generation, or frozen.
			return false
		}
		sp.once()
	}
}

func (s *segment[T]) freezeGlobal() {
	if !s.isFrozen() {
		s.enq.Add(s.freezeOffset())
		s.frozen.Store(1)
	}
}

func (s *segment[T]) tryDequeueGlobal() *T {
	var sp spinner
	for {
		pos := s.deq.Load()
		sl := s.at(pos)
		seq := sl.seq.Load()
		if seq == pos+full {
			if s.deq.CompareAndSwap(pos, pos+1) {
				item := sl.item.Swap(nil)
				// Empty in the next generation.
				sl.seq.Store(pos + 1 + s.mask)
				return item
			}
		} else if seq-pos < full {
			enq := s.enq.Load()
			if enq == pos || (s.isFrozen() && enq == pos+s.freezeOffset()) {
				return nil
			}
		}
		sp.once()
	}
}
