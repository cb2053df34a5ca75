// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ascii holds word-at-a-time helpers for ASCII runs in byte and
// UTF-16 buffers. Eight bytes or four UTF-16 units are tested per step.
package ascii

import (
	"encoding/binary"
	"unsafe"
)

const (
	byteMask  = 0x8080_8080_8080_8080
	unitMask  = 0xFF80_FF80_FF80_FF80
	unitsWord = 4
)

// AllBytesInUint64AreAscii reports whether every byte lane of w is below 0x80.
func AllBytesInUint64AreAscii(w uint64) bool { return w&byteMask == 0 }

// AllCharsInUint64AreAscii reports whether every 16-bit lane of w is below 0x80.
func AllCharsInUint64AreAscii(w uint64) bool { return w&unitMask == 0 }

// AllCharsInUint32AreAscii reports whether both 16-bit lanes of w are below 0x80.
func AllCharsInUint32AreAscii(w uint32) bool { return w&0xFF80_FF80 == 0 }

// unitBytes views u as its native-endian bytes.
func unitBytes(u []uint16) []byte {
	if len(u) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&u[0])), len(u)*2)
}

// IndexNonAscii returns the index of the first byte of b that is >= 0x80,
// or len(b) if every byte is ASCII.
func IndexNonAscii(b []byte) int {
	i := 0
	for ; i+8 <= len(b); i += 8 {
		if !AllBytesInUint64AreAscii(binary.NativeEndian.Uint64(b[i:])) {
			break
		}
	}
	for ; i < len(b); i++ {
		if b[i] >= 0x80 {
			return i
		}
	}
	return len(b)
}

// IndexNonAsciiUtf16 returns the index of the first unit of u that is
// >= 0x80, or len(u) if every unit is ASCII.
func IndexNonAsciiUtf16(u []uint16) int {
	raw := unitBytes(u)
	i := 0
	for ; i+unitsWord <= len(u); i += unitsWord {
		if !AllCharsInUint64AreAscii(binary.NativeEndian.Uint64(raw[i*2:])) {
			break
		}
	}
	for ; i < len(u); i++ {
		if u[i] >= 0x80 {
			return i
		}
	}
	return len(u)
}

// Narrow copies the leading ASCII units of src into dst, one byte per unit,
// and returns the number copied. It stops at the first non-ASCII unit or
// when either buffer is exhausted.
func Narrow(dst []byte, src []uint16) int {
	n := min(len(dst), len(src))
	k := IndexNonAsciiUtf16(src[:n])
	for i, c := range src[:k] {
		dst[i] = byte(c)
	}
	return k
}

// Widen copies the leading ASCII bytes of src into dst, one unit per byte,
// and returns the number copied. It stops at the first non-ASCII byte or
// when either buffer is exhausted.
func Widen(dst []uint16, src []byte) int {
	n := min(len(dst), len(src))
	k := IndexNonAscii(src[:n])
	for i, c := range src[:k] {
		dst[i] = uint16(c)
	}
	return k
}

// ToUpper upper-cases the ASCII letters of b in place. Non-ASCII bytes are
// left untouched.
func ToUpper(b []byte) {
	i := 0
	for ; i+8 <= len(b); i += 8 {
		w := binary.NativeEndian.Uint64(b[i:])
		if AllBytesInUint64AreAscii(w) {
			binary.NativeEndian.PutUint64(b[i:], toUpperWord(w))
			continue
		}
		for j := i; j < i+8; j++ {
			b[j] = ToUpperByte(b[j])
		}
	}
	for ; i < len(b); i++ {
		b[i] = ToUpperByte(b[i])
	}
}

// ToLower lower-cases the ASCII letters of b in place. Non-ASCII bytes are
// left untouched.
func ToLower(b []byte) {
	i := 0
	for ; i+8 <= len(b); i += 8 {
		w := binary.NativeEndian.Uint64(b[i:])
		if AllBytesInUint64AreAscii(w) {
			binary.NativeEndian.PutUint64(b[i:], toLowerWord(w))
			continue
		}
		for j := i; j < i+8; j++ {
			b[j] = ToLowerByte(b[j])
		}
	}
	for ; i < len(b); i++ {
		b[i] = ToLowerByte(b[i])
	}
}

// toUpperWord flips bit 5 of every lane in ['a', 'z']. All lanes must be ASCII.
//
// Adding 0x80-'a' sets bit 7 for lanes >= 'a'; adding 0x80-'z'-1 sets bit 7
// for lanes > 'z'. Their XOR, masked to bit 7 and shifted by 2, is 0x20 on
// exactly the lowercase lanes. No lane carries into its neighbor because every
// lane starts below 0x80.
func toUpperWord(w uint64) uint64 {
	a := w + 0x0101_0101_0101_0101*(0x80-'a')
	z := w + 0x0101_0101_0101_0101*(0x80-'z'-1)
	mask := (a ^ z) & byteMask
	return w ^ (mask >> 2)
}

func toLowerWord(w uint64) uint64 {
	a := w + 0x0101_0101_0101_0101*(0x80-'A')
	z := w + 0x0101_0101_0101_0101*(0x80-'Z'-1)
	mask := (a ^ z) & byteMask
	return w ^ (mask >> 2)
}

// ToUpperByte upper-cases one ASCII letter.
func ToUpperByte(c byte) byte {
	if c-'a' <= 'z'-'a' {
		return c - 0x20
	}
	return c
}

// ToLowerByte lower-cases one ASCII letter.
func ToLowerByte(c byte) byte {
	if c-'A' <= 'Z'-'A' {
		return c + 0x20
	}
	return c
}

// EqualFold reports whether a and b are equal under ASCII case folding.
// Bytes >= 0x80 compare ordinally.
func EqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		x, y := a[i], b[i]
		if x == y {
			continue
		}
		if ToLowerByte(x) != ToLowerByte(y) {
			return false
		}
	}
	return true
}

// LowerString returns s with its ASCII letters lower-cased. It returns s
// itself when nothing changes.
func LowerString(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i]-'A' <= 'Z'-'A' {
			b := []byte(s)
			ToLower(b[i:])
			return string(b)
		}
	}
	return s
}
