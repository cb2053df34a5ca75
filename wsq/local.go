// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wsq

import (
	"sync"
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"golang.org/x/sys/cpu"
)

const (
	// RemoveRange bounds the backward scan of TryRemove.
	RemoveRange = 1024
	// RichCount is the segment occupancy at which a dequeue moves about half
	// of the items into the thief's queue.
	RichCount = 32
)

// rndSeed seeds NextRnd.
const rndSeed = 6247

// Local is an unbounded queue owned by one processor and stolen from by
// the others. The owner pushes and pops at the tail (LIFO). Thieves take
// from the head (FIFO).
//
// Full slots always form one contiguous range: an enqueue locks the slot to
// the left of its target before writing. Every transition is a single CAS on
// a slot sequence number; no operation waits on another thread. A lost race
// surfaces as a nil result, and Dequeue reports it through missed.
type Local[T any] struct {
	mu     sync.Mutex
	enqSeg atomic.Pointer[segment[T]]
	deqSeg atomic.Pointer[segment[T]]

	_   cpu.CacheLinePad
	rnd atomix.Uint32
	_   cpu.CacheLinePad
}

// NewLocal returns an empty queue.
func NewLocal[T any]() *Local[T] {
	q := &Local[T]{}
	s := newSegment[T](InitialSegmentLength)
	q.enqSeg.Store(s)
	q.deqSeg.Store(s)
	q.rnd.Store(rndSeed)
	return q
}

// NextRnd advances the per-queue pseudo random sequence and returns its
// new value. Concurrent callers may observe the same value.
func (q *Local[T]) NextRnd() uint32 {
	r := q.rnd.Load()
	r -= (r << 21) | (r >> 11)
	q.rnd.Store(r)
	return r
}

// Enqueue pushes item at the tail. It panics if item is nil.
func (q *Local[T]) Enqueue(item *T) {
	if item == nil {
		panic("wsq: nil item")
	}
	s := q.enqSeg.Load()
	for !s.tryEnqueueLocal(item) {
		s = q.ensureNext(s)
	}
}

// ensureNext returns the segment after s, linking a new one if needed.
func (q *Local[T]) ensureNext(s *segment[T]) *segment[T] {
	if n := s.next.Load(); n != nil {
		return n
	}
	q.mu.Lock()
	if s.next.Load() == nil {
		n := newSegment[T](s.nextLength())
		s.next.Store(n)
		q.enqSeg.Store(n)
	}
	q.mu.Unlock()
	return s.next.Load()
}

// Pop removes and returns the tail item. It returns nil when the tail
// segment is empty or on contention.
func (q *Local[T]) Pop() *T {
	return q.enqSeg.Load().tryPop()
}

// Dequeue removes and returns the head item.
//
// A nil item with missed set means the queue was observed mid-change and may
// still hold work; callers should look elsewhere and come back. When the
// head segment holds at least RichCount items and thief is a different
// queue, about half of them are moved to thief in one step.
func (q *Local[T]) Dequeue(thief *Local[T]) (item *T, missed bool) {
	var to *segment[T]
	if thief != nil && thief != q {
		to = thief.enqSeg.Load()
	}
	s := q.deqSeg.Load()
	item, missed = s.tryDequeueLocal(to, false)
	if item == nil && s.next.Load() != nil {
		item, missed = q.dequeueSlow(s, to, missed)
	}
	return item, missed
}

func (q *Local[T]) dequeueSlow(s, to *segment[T], missed bool) (*T, bool) {
	for {
		// s has a successor, so it is frozen. Spin through missed steals
		// to confirm it is drained.
		for {
			item, m := s.tryDequeueLocal(to, false)
			if item != nil {
				return item, missed
			}
			if !m {
				break
			}
		}
		q.mu.Lock()
		if s == q.deqSeg.Load() {
			q.deqSeg.Store(s.next.Load())
		}
		q.mu.Unlock()

		s = q.deqSeg.Load()
		var item *T
		if item, missed = s.tryDequeueLocal(to, missed); item != nil {
			return item, missed
		}
		if s.next.Load() == nil {
			return nil, missed
		}
	}
}

// TryRemove removes item if it is found within RemoveRange slots of the
// tail. It reports whether this call removed it. An item at the head
// position cannot be removed.
func (q *Local[T]) TryRemove(item *T) bool {
	if item == nil {
		return false
	}
	return q.enqSeg.Load().tryRemove(func(p *T) bool { return p == item }) != nil
}

// RemoveFunc is TryRemove with a predicate. It returns the removed item,
// or nil if none matched.
func (q *Local[T]) RemoveFunc(match func(*T) bool) *T {
	return q.enqSeg.Load().tryRemove(match)
}

// Count returns a racy snapshot of the number of occupied slots. Removed
// items count until their slot is consumed.
func (q *Local[T]) Count() int {
	n := 0
	for s := q.deqSeg.Load(); s != nil; s = s.next.Load() {
		n += s.count()
	}
	return n
}

// IsEmpty reports whether the head slot is empty and no segment follows.
func (q *Local[T]) IsEmpty() bool {
	s := q.deqSeg.Load()
	pos := s.deq.Load()
	return s.at(pos).seq.Load() == pos && s.next.Load() == nil
}

func (s *segment[T]) tryEnqueueLocal(item *T) bool {
	var sp spinner
	pos := s.enq.Load()
	for {
		prev := s.at(pos - 1)
		prevSeq := prev.seq.Load()
		sl := s.at(pos)

		// The previous slot must be full, or empty in the next generation.
		if prevSeq == pos+s.mask || prevSeq == pos {
			// Lock it so nobody dequeues past us, pops it or enqueues here.
			if prev.seq.CompareAndSwap(prevSeq, prevSeq+change) {
				if s.enq.Load() == pos {
					seq := sl.seq.Load()
					if seq == pos {
						// enq moves before the slot turns full, otherwise
						// the full slot could be locked against a stale enq.
						s.enq.Store(pos + 1)
						sl.item.Store(item)
						sl.seq.Store(pos + full)
						prev.seq.Store(prevSeq)
						return true
					}
					if pos-seq > 0 {
						// Previous generation still here: the segment is full.
						s.enq.Store(pos + s.freezeOffset())
						s.frozen.Store(1)
					}
				}
				// The slot may have been robbed meanwhile.
				prev.seq.CompareAndSwap(prevSeq+change, prevSeq)
			}
		}
		if s.isFrozen() {
			return false
		}
		sp.once()
		pos = s.enq.Load()
	}
}

func (s *segment[T]) tryPop() *T {
	for {
		pos := s.enq.Load() - 1
		sl := s.at(pos)
		seq := sl.seq.Load()
		if seq != pos+full {
			// Empty, or contended by a dequeuer.
			return nil
		}
		if !sl.seq.CompareAndSwap(seq, pos+change) {
			return nil
		}
		if s.enq.Load() != seq {
			sl.seq.CompareAndSwap(pos+change, seq)
			continue
		}
		item := sl.item.Swap(nil)
		// enq moves back before the slot turns empty.
		s.enq.Store(pos)
		sl.seq.Store(pos)
		if item == nil {
			// Removed by TryRemove.
			continue
		}
		return item
	}
}

func (s *segment[T]) tryDequeueLocal(to *segment[T], missed bool) (*T, bool) {
	for {
		pos := s.deq.Load()
		// A locked previous slot means an enqueue may be in flight, so an
		// empty head does not prove the segment is empty.
		if !missed {
			missed = s.at(pos-1).seq.Load() != pos+s.mask
		}
		sl := s.at(pos)
		seq := sl.seq.Load()
		if seq == pos+full {
			if !sl.seq.CompareAndSwap(seq, pos+change) {
				return nil, true
			}
			var item *T
			robbed := false
			if enq := s.enq.Load(); enq-pos >= RichCount && to != nil {
				item, robbed = s.rob(to, pos, enq)
			}
			if !robbed {
				s.deq.Store(pos + 1)
				item = sl.item.Swap(nil)
			}
			sl.seq.Store(pos + 1 + s.mask)
			if item == nil {
				continue
			}
			return item, missed
		}
		if seq == pos {
			return nil, missed
		}
		return nil, true
	}
}

// rob moves the full slots from deq up to the midpoint into the enqueue end
// of other and returns the last moved item to the caller. The caller holds
// the lock on the slot at deq.
func (s *segment[T]) rob(other *segment[T], deq, enq int32) (*T, bool) {
	if other == s {
		return nil, false
	}
	otherEnq := other.enq.Load()
	enqPrev := other.at(otherEnq - 1)
	prevSeq := enqPrev.seq.Load()

	// enq may be inflated by a freeze.
	n := (enq - deq) & s.mask
	half := deq + n/2
	halfSlot := s.at(half)

	// Unlike Enqueue the previous slot must be empty, so one segment is
	// never robbed from and robbed to at the same time.
	if prevSeq != otherEnq+other.mask {
		return nil, false
	}
	if !enqPrev.seq.CompareAndSwap(prevSeq, prevSeq+change) {
		return nil, false
	}
	if other.enq.Load() == otherEnq && halfSlot.seq.CompareAndSwap(half+full, half+change) {
		end := deq + ((s.enq.Load() - deq) & s.mask)
		if end-half > RichCount/4 {
			i, j := deq, otherEnq
			last := s.at(i)
			i++
			for {
				next := s.at(i)
				dst := other.at(j)
				if dst.seq.Load() != j || next.seq.Load() != i+full {
					break
				}
				dst.item.Store(last.item.Load())
				dst.seq.Store(j + full)
				last.item.Store(nil)
				next.seq.Store(i + 1 + s.mask)
				last = next
				i++
				j++
			}
			result := last.item.Swap(nil)
			// halfSlot is restored after every full to empty transition so
			// poppers never see robbed slots as full.
			halfSlot.seq.Store(half + full)
			other.enq.Store(j)
			s.deq.Store(i)
			enqPrev.seq.Store(prevSeq)
			return result, true
		}
		halfSlot.seq.CompareAndSwap(half+change, half+full)
	}
	enqPrev.seq.CompareAndSwap(prevSeq+change, prevSeq)
	return nil, false
}

func (s *segment[T]) tryRemove(match func(*T) bool) *T {
	pos := s.enq.Load() - 1
	for l := pos - RemoveRange; pos != l; pos-- {
		sl := s.at(pos)
		p := sl.item.Load()
		if p != nil && match(p) {
			// Lock the head so the slot cannot be robbed while we take it.
			deq := s.deq.Load()
			head := s.at(deq)
			if head.seq.CompareAndSwap(deq+full, deq+change) {
				if sl.seq.CompareAndSwap(pos+full, pos+change) {
					if sl.item.CompareAndSwap(p, nil) {
						sl.seq.Store(pos + full)
						head.seq.Store(deq + full)
						return p
					}
					sl.seq.Store(pos + full)
				}
				head.seq.Store(deq + full)
			}
			// Lost it to someone else.
			return nil
		}
		if sl.seq.Load()-pos > change {
			// Reached the next generation.
			return nil
		}
	}
	return nil
}
