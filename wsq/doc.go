// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wsq provides the unbounded segmented queues behind a
// work-stealing scheduler.
//
// # Queues
//
//   - [Global]: multi-producer multi-consumer FIFO.
//   - [Local]: owner-side LIFO [Local.Pop], thief-side FIFO [Local.Dequeue],
//     bounded cancellation through [Local.TryRemove], and batch stealing of
//     half a rich segment into the thief's own queue.
//
// Both are linked lists of power-of-two rings that start at
// [InitialSegmentLength] slots and double up to [MaxSegmentLength]. Each slot
// carries a sequence number that encodes Empty, Full or Changing for the
// current generation; every state change is one compare-and-swap. The
// per-queue mutex is taken only to link or retire a segment.
//
// # Contention
//
// Queue operations never block. A lost race on a [Local] yields nil, with
// missed set by Dequeue when work may still be present. [Global] retries
// with a short busy spin and then [code.hybscloud.com/iox.Backoff].
//
// Items are stored as non-nil pointers; Enqueue panics on nil.
package wsq
