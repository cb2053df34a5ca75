// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scalar_test

import (
	"testing"
	"testing/quick"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/corelib/scalar"
)

func TestTryCreate(t *testing.T) {
	cases := []struct {
		v  uint32
		ok bool
	}{
		{0, true},
		{0x7F, true},
		{0xD7FF, true},
		{0xD800, false},
		{0xDBFF, false},
		{0xDC00, false},
		{0xDFFF, false},
		{0xE000, true},
		{0xFFFF, true},
		{0x10000, true},
		{0x10FFFF, true},
		{0x110000, false},
		{0xFFFFFFFF, false},
	}
	for _, c := range cases {
		s, ok := scalar.TryCreate(c.v)
		assert.Equal(t, c.ok, ok, "%#x", c.v)
		if ok {
			assert.Equal(t, c.v, s.Uint32())
		}
	}
}

func TestFromRune(t *testing.T) {
	_, ok := scalar.FromRune(-1)
	assert.False(t, ok)
	s, ok := scalar.FromRune('€')
	require.True(t, ok)
	assert.Equal(t, "€", s.String())
	assert.Equal(t, "U+20AC", s.GoString())
}

func TestFromSurrogatePair(t *testing.T) {
	s, ok := scalar.FromSurrogatePair(0xD83D, 0xDE00)
	require.True(t, ok)
	assert.Equal(t, uint32(0x1F600), s.Uint32())
	assert.Equal(t, 1, s.Plane())

	_, ok = scalar.FromSurrogatePair(0xDE00, 0xD83D)
	assert.False(t, ok)
	_, ok = scalar.FromSurrogatePair(0x0041, 0xDE00)
	assert.False(t, ok)
}

func TestSequenceLengths(t *testing.T) {
	cases := []struct {
		v          uint32
		utf8, utf16 int
	}{
		{0x00, 1, 1},
		{0x7F, 1, 1},
		{0x80, 2, 1},
		{0x7FF, 2, 1},
		{0x800, 3, 1},
		{0xD7FF, 3, 1},
		{0xE000, 3, 1},
		{0xFFFF, 3, 1},
		{0x10000, 4, 2},
		{0x10FFFF, 4, 2},
	}
	for _, c := range cases {
		s := scalar.Unchecked(c.v)
		assert.Equal(t, c.utf8, s.Utf8SequenceLength(), "utf8 %#x", c.v)
		assert.Equal(t, c.utf16, s.Utf16SequenceLength(), "utf16 %#x", c.v)
	}
}

func TestEncodeShortDestination(t *testing.T) {
	s := scalar.Unchecked(0x1F600)
	var b [3]byte
	n, ok := s.EncodeUtf8(b[:])
	assert.False(t, ok)
	assert.Zero(t, n)
	var u [1]uint16
	n, ok = s.EncodeUtf16(u[:])
	assert.False(t, ok)
	assert.Zero(t, n)
}

// TestPropertyEncodeMatchesStdlib checks every scalar's UTF-8 and UTF-16
// encodings and lengths against unicode/utf8 and unicode/utf16.
func TestPropertyEncodeMatchesStdlib(t *testing.T) {
	prop := func(x uint32) bool {
		s, ok := scalar.TryCreate(x % (scalar.MaxValue + 1))
		if !ok {
			return true
		}
		r := s.Rune()
		var b [4]byte
		n, ok := s.EncodeUtf8(b[:])
		if !ok || n != utf8.RuneLen(r) || n != s.Utf8SequenceLength() {
			return false
		}
		if string(b[:n]) != string(r) {
			return false
		}
		u := s.AppendUtf16(nil)
		want := utf16.Encode([]rune{r})
		if len(u) != len(want) || len(u) != s.Utf16SequenceLength() {
			return false
		}
		for i := range u {
			if u[i] != want[i] {
				return false
			}
		}
		return true
	}
	if err := quick.Check(prop, &quick.Config{MaxCount: 20000}); err != nil {
		t.Fatal(err)
	}
}

// TestPropertyUtf16RoundTrip encodes a scalar to UTF-16 and reads it back.
func TestPropertyUtf16RoundTrip(t *testing.T) {
	prop := func(x uint32) bool {
		s, ok := scalar.TryCreate(x % (scalar.MaxValue + 1))
		if !ok {
			return true
		}
		u := s.AppendUtf16(nil)
		v, got, n := scalar.PeekFirstUtf16(u)
		return v == scalar.Valid && got == s && n == len(u)
	}
	if err := quick.Check(prop, nil); err != nil {
		t.Fatal(err)
	}
}

func TestIsValidExhaustive(t *testing.T) {
	for v := uint32(0); v <= scalar.MaxValue+0x100; v++ {
		want := v <= scalar.MaxValue && (v < 0xD800 || v > 0xDFFF)
		if scalar.IsValid(v) != want {
			t.Fatalf("IsValid(%#x) = %v", v, !want)
		}
	}
}
