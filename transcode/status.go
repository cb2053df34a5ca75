// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transcode

import (
	"errors"
	"math"
)

// OperationStatus is the outcome of a whole-buffer transcoding call.
type OperationStatus uint8

const (
	// Done means the entire source was processed.
	Done OperationStatus = iota
	// DestinationTooSmall means the destination filled before the source ended.
	DestinationTooSmall
	// NeedMoreData means the source ends inside a sequence that more input
	// could complete. It is only reported for non-final chunks.
	NeedMoreData
	// InvalidData means an ill-formed sequence was found under [Fail].
	InvalidData
)

func (s OperationStatus) String() string {
	switch s {
	case Done:
		return "Done"
	case DestinationTooSmall:
		return "DestinationTooSmall"
	case NeedMoreData:
		return "NeedMoreData"
	case InvalidData:
		return "InvalidData"
	}
	return "OperationStatus(?)"
}

// InvalidSequenceBehavior selects what a whole-buffer call does with
// ill-formed input.
type InvalidSequenceBehavior uint8

const (
	// Fail stops at the ill-formed sequence and reports [InvalidData].
	Fail InvalidSequenceBehavior = iota
	// ReplaceInvalidSequence writes U+FFFD for each maximal ill-formed subpart.
	ReplaceInvalidSequence
	// LeaveUnchanged copies ill-formed input through. It is only accepted by
	// same-encoding operations such as [ToUpperUtf8]; cross-encoding calls
	// panic when given it.
	LeaveUnchanged
)

var (
	// ErrDestinationTooSmall is returned by one-shot calls whose destination
	// cannot hold the whole output.
	ErrDestinationTooSmall = errors.New("transcode: destination too small")
	// ErrConversionOverflow is returned when an output count exceeds the
	// representable range.
	ErrConversionOverflow = errors.New("transcode: conversion overflow")
	// ErrRecursiveFallback is returned when fallback output cannot itself be
	// encoded, or a fallback is invoked while its previous output is still
	// pending.
	ErrRecursiveFallback = errors.New("transcode: recursive fallback")
	// ErrMustFlush is returned when a streaming call without flush follows a
	// flushing call that did not complete.
	ErrMustFlush = errors.New("transcode: previous flush did not complete")
)

// maxCount is the largest count any call reports.
const maxCount = math.MaxInt32

// checkedAdd returns a+b, or ErrConversionOverflow if the sum leaves [0, maxCount].
func checkedAdd(a, b int) (int, error) {
	s := a + b
	if s < 0 || s > maxCount || (b > 0 && s < a) {
		return 0, ErrConversionOverflow
	}
	return s, nil
}

// checkedMul returns a*b for non-negative a and b, or ErrConversionOverflow.
func checkedMul(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, ErrConversionOverflow
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > maxCount/b {
		return 0, ErrConversionOverflow
	}
	return a * b, nil
}

func mustNotLeaveUnchanged(b InvalidSequenceBehavior) {
	if b == LeaveUnchanged {
		panic("transcode: LeaveUnchanged is not valid for cross-encoding transcoding")
	}
	if b > LeaveUnchanged {
		panic("transcode: unknown InvalidSequenceBehavior")
	}
}
