// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scalar

// Validity classifies the head of a code unit sequence.
type Validity uint8

const (
	// Valid means the sequence starts with a well-formed scalar.
	Valid Validity = iota
	// Invalid means the sequence starts with an ill-formed subsequence.
	Invalid
	// Incomplete means the sequence ends before a scalar could be completed.
	// More input could make it Valid. At end of stream it is Invalid.
	Incomplete
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "Valid"
	case Invalid:
		return "Invalid"
	case Incomplete:
		return "Incomplete"
	}
	return "Validity(?)"
}

// PeekFirstUtf16 decodes the first scalar of src.
//
// It returns (Valid, value, 1 or 2) for a well-formed head, (Incomplete, Replacement, n)
// when src is empty (n=0) or ends on a high surrogate (n=1), and
// (Invalid, Replacement, 1) for any other surrogate mismatch.
func PeekFirstUtf16(src []uint16) (Validity, Value, int) {
	if len(src) == 0 {
		return Incomplete, Replacement, 0
	}
	c := uint32(src[0])
	if !IsSurrogate(c) {
		return Valid, Value{c}, 1
	}
	if !IsHighSurrogate(c) {
		return Invalid, Replacement, 1
	}
	if len(src) < 2 {
		return Incomplete, Replacement, 1
	}
	lo := uint32(src[1])
	if !IsLowSurrogate(lo) {
		return Invalid, Replacement, 1
	}
	return Valid, Value{surrogatePairToScalar(src[0], src[1])}, 2
}

// PeekFirstUtf8 decodes the first scalar of src following the maximal subpart
// rules of Unicode Table 3-7.
//
// An ill-formed head reports Invalid with the count of bytes that formed a
// valid prefix (at least 1). A head truncated by the end of src reports
// Incomplete with the count of bytes validated so far. Both carry Replacement.
func PeekFirstUtf8(src []byte) (Validity, Value, int) {
	if len(src) == 0 {
		return Incomplete, Replacement, 0
	}
	b0 := uint32(src[0])
	if b0 < 0x80 {
		return Valid, Value{b0}, 1
	}
	if !IsInRangeInclusive(b0, 0xC2, 0xF4) {
		return Invalid, Replacement, 1
	}
	if len(src) < 2 {
		return Incomplete, Replacement, 1
	}
	b1 := uint32(src[1])

	if b0 < 0xE0 {
		if !isContinuation(b1) {
			return Invalid, Replacement, 1
		}
		return Valid, Value{(b0&0x1F)<<6 | b1&0x3F}, 2
	}

	lo, hi := uint32(0x80), uint32(0xBF)
	switch b0 {
	case 0xE0:
		lo = 0xA0
	case 0xED:
		hi = 0x9F
	case 0xF0:
		lo = 0x90
	case 0xF4:
		hi = 0x8F
	}
	if !IsInRangeInclusive(b1, lo, hi) {
		return Invalid, Replacement, 1
	}
	if len(src) < 3 {
		return Incomplete, Replacement, 2
	}
	b2 := uint32(src[2])
	if !isContinuation(b2) {
		return Invalid, Replacement, 2
	}
	if b0 < 0xF0 {
		return Valid, Value{(b0&0x0F)<<12 | (b1&0x3F)<<6 | b2&0x3F}, 3
	}
	if len(src) < 4 {
		return Incomplete, Replacement, 3
	}
	b3 := uint32(src[3])
	if !isContinuation(b3) {
		return Invalid, Replacement, 3
	}
	return Valid, Value{(b0&0x07)<<18 | (b1&0x3F)<<12 | (b2&0x3F)<<6 | b3&0x3F}, 4
}

func isContinuation(b uint32) bool { return b&0xC0 == 0x80 }

// LastUtf16 decodes the final scalar of src. The count is the number of
// units taken from the end. A trailing high surrogate reports Incomplete.
func LastUtf16(src []uint16) (Validity, Value, int) {
	n := len(src)
	if n == 0 {
		return Incomplete, Replacement, 0
	}
	c := uint32(src[n-1])
	if !IsSurrogate(c) {
		return Valid, Value{c}, 1
	}
	if IsHighSurrogate(c) {
		return Incomplete, Replacement, 1
	}
	if n >= 2 && IsHighSurrogate(uint32(src[n-2])) {
		return Valid, Value{surrogatePairToScalar(src[n-2], src[n-1])}, 2
	}
	return Invalid, Replacement, 1
}

// LastUtf8 decodes the final scalar of src. The count is the number of bytes
// taken from the end. A tail that is a valid prefix of a longer sequence
// reports Incomplete with the prefix length.
func LastUtf8(src []byte) (Validity, Value, int) {
	n := len(src)
	if n == 0 {
		return Incomplete, Replacement, 0
	}
	if src[n-1] < 0x80 {
		return Valid, Value{uint32(src[n-1])}, 1
	}
	// Walk back over at most three continuation bytes to a lead byte.
	start := n - 1
	for start > 0 && n-start < 4 && isContinuation(uint32(src[start])) {
		start--
	}
	v, s, k := PeekFirstUtf8(src[start:])
	if start+k == n {
		return v, s, k
	}
	return Invalid, Replacement, 1
}
