// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wsq

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"golang.org/x/sys/cpu"
)

const (
	// InitialSegmentLength is the slot count of the first segment of a queue.
	InitialSegmentLength = 32
	// MaxSegmentLength caps segment growth. Later segments stay at this size.
	MaxSegmentLength = 1 << 20
)

// Slot states, as offsets from the slot position in the current generation.
// A slot at position p holds sequence number p when Empty, p+1 when Full and
// p+2 while Changing. Empty in the next generation is p+len(slots).
const (
	empty  = 0
	full   = 1
	change = 2
)

// spinLimit is the number of busy retries before a contention loop yields
// through iox.Backoff.
const spinLimit = 16

// slot pairs an item with its sequence number. The item pointer is only
// read or written by the party that owns the slot according to seq.
type slot[T any] struct {
	item atomic.Pointer[T]
	seq  atomix.Int32
}

// segment is a bounded ring of slots. Positions are int32 and wrap; every
// comparison between positions is done on the difference.
type segment[T any] struct {
	slots []slot[T]
	mask  int32

	_   cpu.CacheLinePad
	deq atomix.Int32
	_   cpu.CacheLinePad
	enq atomix.Int32
	_   cpu.CacheLinePad

	frozen atomix.Uint32
	next   atomic.Pointer[segment[T]]
}

func newSegment[T any](length int) *segment[T] {
	if length < 2 || length&(length-1) != 0 {
		panic("wsq: segment length must be a power of two")
	}
	s := &segment[T]{
		slots: make([]slot[T], length),
		mask:  int32(length - 1),
	}
	for i := range s.slots {
		s.slots[i].seq.Store(int32(i))
	}
	return s
}

func (s *segment[T]) at(pos int32) *slot[T] {
	return &s.slots[pos&s.mask]
}

// freezeOffset is added to enq to stop further enqueues. Dequeuers would
// need to catch up two generations to reach it, which they cannot.
func (s *segment[T]) freezeOffset() int32 {
	return int32(len(s.slots)) * 2
}

func (s *segment[T]) isFrozen() bool {
	return s.frozen.Load() != 0
}

// count is a racy snapshot of the number of occupied positions.
func (s *segment[T]) count() int {
	n := s.enq.Load() - s.deq.Load()
	if s.isFrozen() {
		n -= s.freezeOffset()
	}
	if n < 0 {
		return 0
	}
	return int(n)
}

// nextLength doubles the slot count up to MaxSegmentLength.
func (s *segment[T]) nextLength() int {
	return min(len(s.slots)*2, MaxSegmentLength)
}

// spinner retries a contended operation a few times before backing off.
type spinner struct {
	n  int
	bo iox.Backoff
}

func (sp *spinner) once() {
	if sp.n < spinLimit {
		sp.n++
		return
	}
	sp.bo.Wait()
}
