// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transcode_test

import (
	"testing"
	"testing/quick"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/corelib/transcode"
)

func TestUtf8ToUtf16(t *testing.T) {
	src := []byte("A€\U0001F600")
	dst := make([]uint16, 8)
	st, nSrc, nDst := transcode.Utf8ToUtf16(src, dst, true, transcode.Fail)
	assert.Equal(t, transcode.Done, st)
	assert.Equal(t, len(src), nSrc)
	assert.Equal(t, []uint16{'A', 0x20AC, 0xD83D, 0xDE00}, dst[:nDst])
}

func TestUtf8ToUtf16Invalid(t *testing.T) {
	src := []byte{'a', 0xE0, 0x80, 'b', 0xF0, 0x9F, 0x98, 'c'}
	dst := make([]uint16, 16)

	st, nSrc, nDst := transcode.Utf8ToUtf16(src, dst, true, transcode.Fail)
	assert.Equal(t, transcode.InvalidData, st)
	assert.Equal(t, 1, nSrc)
	assert.Equal(t, 1, nDst)

	st, nSrc, nDst = transcode.Utf8ToUtf16(src, dst, true, transcode.ReplaceInvalidSequence)
	assert.Equal(t, transcode.Done, st)
	assert.Equal(t, len(src), nSrc)
	// E0 80 is two maximal subparts; F0 9F 98 is one.
	assert.Equal(t, []uint16{'a', 0xFFFD, 0xFFFD, 'b', 0xFFFD, 'c'}, dst[:nDst])
}

func TestIncompleteVersusFinal(t *testing.T) {
	src := []byte{'x', 0xF0, 0x9F, 0x98}
	dst := make([]uint16, 8)

	st, nSrc, nDst := transcode.Utf8ToUtf16(src, dst, false, transcode.ReplaceInvalidSequence)
	assert.Equal(t, transcode.NeedMoreData, st)
	assert.Equal(t, 1, nSrc)
	assert.Equal(t, 1, nDst)

	st, nSrc, _ = transcode.Utf8ToUtf16(src, dst, true, transcode.Fail)
	assert.Equal(t, transcode.InvalidData, st)
	assert.Equal(t, 1, nSrc)

	st, nSrc, nDst = transcode.Utf8ToUtf16(src, dst, true, transcode.ReplaceInvalidSequence)
	assert.Equal(t, transcode.Done, st)
	assert.Equal(t, 4, nSrc)
	assert.Equal(t, []uint16{'x', 0xFFFD}, dst[:nDst])
}

func TestUtf8ToUtf16DestinationTooSmall(t *testing.T) {
	dst := make([]uint16, 2)
	st, nSrc, nDst := transcode.Utf8ToUtf16([]byte("a\U0001F600"), dst, true, transcode.Fail)
	assert.Equal(t, transcode.DestinationTooSmall, st)
	assert.Equal(t, 1, nSrc)
	assert.Equal(t, 1, nDst)

	st, nSrc, nDst = transcode.Utf8ToUtf16([]byte{'a', 'b', 0xFF}, dst, true, transcode.ReplaceInvalidSequence)
	assert.Equal(t, transcode.DestinationTooSmall, st)
	assert.Equal(t, 2, nSrc)
	assert.Equal(t, 2, nDst)
}

func TestUtf16ToUtf8(t *testing.T) {
	dst := make([]byte, 16)
	src := []uint16{'a', 0xD800, 'b', 0xDC00, 0xD83D, 0xDE00}

	st, nSrc, nDst := transcode.Utf16ToUtf8(src, dst, true, transcode.Fail)
	assert.Equal(t, transcode.InvalidData, st)
	assert.Equal(t, 1, nSrc)
	assert.Equal(t, 1, nDst)

	st, nSrc, nDst = transcode.Utf16ToUtf8(src, dst, true, transcode.ReplaceInvalidSequence)
	assert.Equal(t, transcode.Done, st)
	assert.Equal(t, len(src), nSrc)
	assert.Equal(t, "a�b�\U0001F600", string(dst[:nDst]))

	st, nSrc, _ = transcode.Utf16ToUtf8([]uint16{'a', 0xD800}, dst, false, transcode.Fail)
	assert.Equal(t, transcode.NeedMoreData, st)
	assert.Equal(t, 1, nSrc)

	st, _, _ = transcode.Utf16ToUtf8([]uint16{0x20AC}, dst[:2], true, transcode.Fail)
	assert.Equal(t, transcode.DestinationTooSmall, st)
}

func TestLeaveUnchangedRejected(t *testing.T) {
	assert.Panics(t, func() {
		transcode.Utf8ToUtf16([]byte("a"), make([]uint16, 1), true, transcode.LeaveUnchanged)
	})
	assert.Panics(t, func() {
		transcode.Utf16ToUtf8([]uint16{'a'}, make([]byte, 1), true, transcode.LeaveUnchanged)
	})
}

// TestPropertyRoundTrip checks that well-formed UTF-16 survives a trip
// through UTF-8 unchanged.
func TestPropertyRoundTrip(t *testing.T) {
	prop := func(rs []rune) bool {
		for i, r := range rs {
			if !utf8.ValidRune(r) {
				rs[i] = utf8.RuneError
			}
		}
		src := utf16.Encode(rs)
		mid := make([]byte, 3*len(src))
		st, _, n := transcode.Utf16ToUtf8(src, mid, true, transcode.Fail)
		if st != transcode.Done {
			return false
		}
		back := make([]uint16, len(src))
		st, _, m := transcode.Utf8ToUtf16(mid[:n], back, true, transcode.Fail)
		if st != transcode.Done || m != len(src) {
			return false
		}
		for i := range src {
			if src[i] != back[i] {
				return false
			}
		}
		return true
	}
	if err := quick.Check(prop, nil); err != nil {
		t.Fatal(err)
	}
}

// TestPropertyReplacementIdempotent checks that transcoding output already
// fixed up with U+FFFD yields the same output again.
func TestPropertyReplacementIdempotent(t *testing.T) {
	prop := func(src []byte) bool {
		first := make([]uint16, len(src))
		st, _, n := transcode.Utf8ToUtf16(src, first, true, transcode.ReplaceInvalidSequence)
		if st != transcode.Done {
			return false
		}
		utf := make([]byte, 3*n)
		st, _, m := transcode.Utf16ToUtf8(first[:n], utf, true, transcode.ReplaceInvalidSequence)
		if st != transcode.Done {
			return false
		}
		second := make([]uint16, m)
		st, _, k := transcode.Utf8ToUtf16(utf[:m], second, true, transcode.ReplaceInvalidSequence)
		if st != transcode.Done || k != n {
			return false
		}
		for i := range k {
			if first[i] != second[i] {
				return false
			}
		}
		return true
	}
	require.NoError(t, quick.Check(prop, nil))
}

func TestCaseMappingUtf8(t *testing.T) {
	src := []byte("Hello, Wörld ΣΑΣ ı!")
	dst := make([]byte, 64)
	st, nSrc, nDst := transcode.ToUpperUtf8(src, dst, true, transcode.Fail)
	require.Equal(t, transcode.Done, st)
	assert.Equal(t, len(src), nSrc)
	assert.Equal(t, "HELLO, WÖRLD ΣΑΣ I!", string(dst[:nDst]))

	st, _, nDst = transcode.ToLowerUtf8(src, dst, true, transcode.Fail)
	require.Equal(t, transcode.Done, st)
	assert.Equal(t, "hello, wörld σασ ı!", string(dst[:nDst]))
}

func TestCaseMappingInvalid(t *testing.T) {
	src := []byte{'a', 0xFF, 'b', 0xE2, 0x82}
	dst := make([]byte, 16)

	st, nSrc, nDst := transcode.ToUpperUtf8(src, dst, false, transcode.LeaveUnchanged)
	assert.Equal(t, transcode.NeedMoreData, st)
	assert.Equal(t, 3, nSrc)
	assert.Equal(t, []byte{'A', 0xFF, 'B'}, dst[:nDst])

	st, _, nDst = transcode.ToUpperUtf8(src, dst, true, transcode.ReplaceInvalidSequence)
	assert.Equal(t, transcode.Done, st)
	assert.Equal(t, "A�B�", string(dst[:nDst]))

	st, nSrc, _ = transcode.ToLowerUtf8(src, dst, true, transcode.Fail)
	assert.Equal(t, transcode.InvalidData, st)
	assert.Equal(t, 1, nSrc)

	st, nSrc, nDst = transcode.ToUpperUtf8([]byte("abc"), dst[:2], true, transcode.Fail)
	assert.Equal(t, transcode.DestinationTooSmall, st)
	assert.Equal(t, 2, nSrc)
	assert.Equal(t, "AB", string(dst[:nDst]))
}

func BenchmarkUtf8ToUtf16Ascii(b *testing.B) {
	src := make([]byte, 4096)
	for i := range src {
		src[i] = 'a' + byte(i%26)
	}
	dst := make([]uint16, len(src))
	b.ReportAllocs()
	b.SetBytes(int64(len(src)))
	for b.Loop() {
		transcode.Utf8ToUtf16(src, dst, true, transcode.Fail)
	}
}
