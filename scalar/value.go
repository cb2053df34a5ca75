// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scalar

import "fmt"

// MaxValue is the largest Unicode scalar value.
const MaxValue = 0x10FFFF

// Value is a Unicode scalar value: a code point in [0, 0xD7FF] or [0xE000, 0x10FFFF].
// The zero Value is U+0000. A Value can only be built through the validating
// constructors or through [Unchecked], so every Value observed by callers
// satisfies the invariant unless [Unchecked] was misused.
type Value struct {
	v uint32
}

// Replacement is U+FFFD REPLACEMENT CHARACTER.
var Replacement = Value{0xFFFD}

// TryCreate returns the Value for v, or false if v is a surrogate code point
// or greater than [MaxValue].
func TryCreate(v uint32) (Value, bool) {
	if !IsValid(v) {
		return Value{}, false
	}
	return Value{v}, true
}

// FromRune returns the Value for r, or false if r is not a scalar value.
func FromRune(r rune) (Value, bool) {
	if r < 0 {
		return Value{}, false
	}
	return TryCreate(uint32(r))
}

// FromSurrogatePair combines a high and a low surrogate into a supplementary
// plane Value. It returns false if either unit is out of its range.
func FromSurrogatePair(hi, lo uint16) (Value, bool) {
	if !IsHighSurrogate(uint32(hi)) || !IsLowSurrogate(uint32(lo)) {
		return Value{}, false
	}
	return Value{surrogatePairToScalar(hi, lo)}, true
}

// Unchecked wraps v without validation. The caller guarantees that v is a
// scalar value; passing a surrogate or an out-of-range value yields a Value
// whose behavior is undefined.
func Unchecked(v uint32) Value {
	return Value{v}
}

// surrogatePairToScalar folds the subtraction of the surrogate bases and the
// addition of 0x10000 into a single constant:
//
//	((hi - 0xD800) << 10) + (lo - 0xDC00) + 0x10000
//	= (hi << 10) + lo - ((0xD800 << 10) + 0xDC00 - 0x10000)
func surrogatePairToScalar(hi, lo uint16) uint32 {
	return (uint32(hi) << 10) + uint32(lo) - ((0xD800 << 10) + 0xDC00 - (1 << 16))
}

// Uint32 returns the numeric code point.
func (s Value) Uint32() uint32 { return s.v }

// Rune returns s as a rune.
func (s Value) Rune() rune { return rune(s.v) }

// String returns the UTF-8 text of s.
func (s Value) String() string {
	var buf [4]byte
	n, _ := s.EncodeUtf8(buf[:])
	return string(buf[:n])
}

// GoString returns s in U+XXXX notation.
func (s Value) GoString() string {
	return fmt.Sprintf("U+%04X", s.v)
}

// IsAscii reports whether s is in [U+0000, U+007F].
func (s Value) IsAscii() bool { return s.v <= 0x7F }

// IsBmp reports whether s is in the Basic Multilingual Plane.
func (s Value) IsBmp() bool { return s.v <= 0xFFFF }

// Plane returns the Unicode plane (0 to 16) of s.
func (s Value) Plane() int { return int(s.v >> 16) }

// Utf16SequenceLength returns the number of UTF-16 code units (1 or 2)
// needed to encode s.
//
// For v < 0x10000, v-0x10000 wraps to 0xFFFFxxxx and adding 2<<24 overflows
// into 0x01FFxxxx, whose top byte is 1. For v >= 0x10000 the difference is at
// most 0xFFFFF, so adding 2<<24 leaves 2 in the top byte.
func (s Value) Utf16SequenceLength() int {
	v := s.v
	v -= 0x10000
	v += 2 << 24
	v >>= 24
	return int(v)
}

// Utf8SequenceLength returns the number of UTF-8 code units (1 to 4) needed
// to encode s.
//
// a is -1 when v < 0x800 and 0 otherwise. After XOR with 0xF800 and the
// subtraction of 0xF880, [0x80, 0x7FF] lands on [0, 0x77F], the supplementary
// planes land above 0xFFFF, and [0, 0x7F] together with [0x800, 0xFFFF] go
// negative. Adding 4<<24 leaves 4 in the top byte for the non-negative results
// and 3 for the negative ones; a*2 then brings the two ranges below 0x800 down
// to 1 and 2.
func (s Value) Utf8SequenceLength() int {
	v := s.v
	a := (int32(v) - 0x0800) >> 31
	v ^= 0xF800
	v -= 0xF880
	v += 4 << 24
	v >>= 24
	return int(v) + int(a)*2
}

// EncodeUtf16 writes s to dst as UTF-16. It returns the number of units
// written, or false if dst is too small.
func (s Value) EncodeUtf16(dst []uint16) (int, bool) {
	if s.IsBmp() {
		if len(dst) < 1 {
			return 0, false
		}
		dst[0] = uint16(s.v)
		return 1, true
	}
	if len(dst) < 2 {
		return 0, false
	}
	dst[0] = uint16((s.v+((0xD800-0x40)<<10))>>10)
	dst[1] = uint16((s.v & 0x3FF) + 0xDC00)
	return 2, true
}

// EncodeUtf8 writes s to dst as UTF-8 following Unicode Table 3-6. It
// returns the number of bytes written, or false if dst is too small.
func (s Value) EncodeUtf8(dst []byte) (int, bool) {
	v := s.v
	switch {
	case v <= 0x7F:
		if len(dst) < 1 {
			return 0, false
		}
		dst[0] = byte(v)
		return 1, true
	case v <= 0x7FF:
		if len(dst) < 2 {
			return 0, false
		}
		dst[0] = byte(v>>6) | 0xC0
		dst[1] = byte(v&0x3F) | 0x80
		return 2, true
	case v <= 0xFFFF:
		if len(dst) < 3 {
			return 0, false
		}
		dst[0] = byte(v>>12) | 0xE0
		dst[1] = byte((v>>6)&0x3F) | 0x80
		dst[2] = byte(v&0x3F) | 0x80
		return 3, true
	default:
		if len(dst) < 4 {
			return 0, false
		}
		dst[0] = byte(v>>18) | 0xF0
		dst[1] = byte((v>>12)&0x3F) | 0x80
		dst[2] = byte((v>>6)&0x3F) | 0x80
		dst[3] = byte(v&0x3F) | 0x80
		return 4, true
	}
}

// AppendUtf8 appends the UTF-8 encoding of s to b.
func (s Value) AppendUtf8(b []byte) []byte {
	var buf [4]byte
	n, _ := s.EncodeUtf8(buf[:])
	return append(b, buf[:n]...)
}

// AppendUtf16 appends the UTF-16 encoding of s to b.
func (s Value) AppendUtf16(b []uint16) []uint16 {
	var buf [2]uint16
	n, _ := s.EncodeUtf16(buf[:])
	return append(b, buf[:n]...)
}

// IsValid reports whether v is a Unicode scalar value.
//
// XOR with 0xD800 moves the surrogate block [0xD800, 0xDFFF] to [0, 0x7FF]
// and leaves every other value at or above 0x800 without changing its
// magnitude class, so a single unsigned range check covers both bounds.
func IsValid(v uint32) bool {
	return IsInRangeInclusive(v^0xD800, 0x800, MaxValue)
}

// IsInRangeInclusive reports whether lo <= v <= hi using one unsigned compare.
func IsInRangeInclusive(v, lo, hi uint32) bool {
	return v-lo <= hi-lo
}

// IsSurrogate reports whether v is in [0xD800, 0xDFFF].
func IsSurrogate(v uint32) bool { return IsInRangeInclusive(v, 0xD800, 0xDFFF) }

// IsHighSurrogate reports whether v is in [0xD800, 0xDBFF].
func IsHighSurrogate(v uint32) bool { return IsInRangeInclusive(v, 0xD800, 0xDBFF) }

// IsLowSurrogate reports whether v is in [0xDC00, 0xDFFF].
func IsLowSurrogate(v uint32) bool { return IsInRangeInclusive(v, 0xDC00, 0xDFFF) }
