// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transcode_test

import (
	"errors"
	"math"
	"testing"
	"testing/quick"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xunicode "golang.org/x/text/encoding/unicode"

	"code.hybscloud.com/corelib/transcode"
)

func units(s string) []uint16 { return utf16.Encode([]rune(s)) }

func encodings() map[string]*transcode.Encoding {
	return map[string]*transcode.Encoding{
		"utf-8":    transcode.UTF8(transcode.UTF8Options{}),
		"utf-16":   transcode.UTF16(transcode.UTF16Options{}),
		"utf-16BE": transcode.UTF16(transcode.UTF16Options{BigEndian: true}),
		"us-ascii": transcode.ASCII(),
	}
}

func TestEncodingIdentity(t *testing.T) {
	cases := []struct {
		e        *transcode.Encoding
		cp       int
		name     string
		preamble []byte
	}{
		{transcode.UTF8(transcode.UTF8Options{}), 65001, "utf-8", nil},
		{transcode.UTF8(transcode.UTF8Options{EmitBOM: true}), 65001, "utf-8", []byte{0xEF, 0xBB, 0xBF}},
		{transcode.UTF16(transcode.UTF16Options{EmitBOM: true}), 1200, "utf-16", []byte{0xFF, 0xFE}},
		{transcode.UTF16(transcode.UTF16Options{BigEndian: true, EmitBOM: true}), 1201, "utf-16BE", []byte{0xFE, 0xFF}},
		{transcode.ASCII(), 20127, "us-ascii", nil},
	}
	for _, c := range cases {
		assert.Equal(t, c.cp, c.e.CodePage())
		assert.Equal(t, c.name, c.e.Name())
		assert.Equal(t, c.preamble, c.e.Preamble())
	}
}

func TestUTF16MatchesXText(t *testing.T) {
	inputs := []string{"", "hello", "héllo wörld", "€\U0001F600\U0010FFFF", "日本語テキスト"}
	for _, order := range []struct {
		big bool
		x   xunicode.Endianness
	}{{false, xunicode.LittleEndian}, {true, xunicode.BigEndian}} {
		ours := transcode.UTF16(transcode.UTF16Options{BigEndian: order.big})
		oracle := xunicode.UTF16(order.x, xunicode.IgnoreBOM)
		for _, s := range inputs {
			want, err := oracle.NewEncoder().String(s)
			require.NoError(t, err)
			got, err := ours.EncodeString(s)
			require.NoError(t, err)
			assert.Equal(t, want, string(got), "%q", s)

			back, err := ours.DecodeString(got)
			require.NoError(t, err)
			assert.Equal(t, s, back)
		}
	}
}

func TestUTF8MatchesXText(t *testing.T) {
	oracle := xunicode.UTF8.NewDecoder()
	e := transcode.UTF8(transcode.UTF8Options{})
	for _, s := range []string{"", "ascii", "€uro", "\U0001F600 smile"} {
		want, err := oracle.String(s)
		require.NoError(t, err)
		got, err := e.DecodeString([]byte(s))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestASCIIReplacement(t *testing.T) {
	e := transcode.ASCII()
	src := units("héllo\U0001F600")
	n, err := e.ByteCount(src)
	require.NoError(t, err)
	assert.Equal(t, len(src), n)

	out, err := e.EncodeString("héllo\U0001F600")
	require.NoError(t, err)
	assert.Equal(t, "h?llo??", string(out))

	s, err := e.DecodeString([]byte{'a', 0xC3, 0xA9})
	require.NoError(t, err)
	assert.Equal(t, "a??", s)
	c, err := e.CharCount([]byte{'a', 0xC3, 0xA9})
	require.NoError(t, err)
	assert.Equal(t, 3, c)
}

func TestExceptionFallbacks(t *testing.T) {
	e := transcode.ASCIIWithFallbacks(transcode.ExceptionEncoderFallback{}, transcode.ExceptionDecoderFallback{})
	_, err := e.Encode(make([]byte, 8), units("hé"))
	var encErr *transcode.EncoderFallbackError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, 1, encErr.Index)
	assert.Equal(t, []uint16{0xE9}, encErr.Unknown)
	assert.Contains(t, encErr.Error(), `\u00E9`)

	u := transcode.UTF8(transcode.UTF8Options{ThrowOnInvalid: true})
	_, err = u.Decode(make([]uint16, 8), []byte{'a', 0xFF})
	var decErr *transcode.DecoderFallbackError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, 1, decErr.Index)
	assert.Equal(t, []byte{0xFF}, decErr.Bytes)

	_, err = u.CharCount([]byte{0xC0})
	assert.True(t, errors.As(err, &decErr))
}

func TestRecursiveFallback(t *testing.T) {
	e := transcode.ASCIIWithFallbacks(transcode.NewReplacementEncoderFallback("é"), transcode.NewReplacementDecoderFallback("?"))
	_, err := e.Encode(make([]byte, 8), units("ü"))
	assert.ErrorIs(t, err, transcode.ErrRecursiveFallback)
	_, err = e.ByteCount(units("ü"))
	assert.ErrorIs(t, err, transcode.ErrRecursiveFallback)
}

func TestInvalidReplacementPanics(t *testing.T) {
	assert.Panics(t, func() { transcode.NewReplacementEncoderFallback("\xff") })
	assert.Panics(t, func() { transcode.NewReplacementDecoderFallback("\xff") })
}

func TestMultiUnitReplacementDrainsAcrossCalls(t *testing.T) {
	e := transcode.ASCIIWithFallbacks(transcode.NewReplacementEncoderFallback("[?]"), transcode.NewReplacementDecoderFallback("?"))
	enc := e.NewEncoder()
	dst := make([]byte, 2)

	nSrc, nDst, completed, err := enc.Convert(dst, units("aé"), true)
	require.NoError(t, err)
	assert.Equal(t, 2, nSrc)
	assert.Equal(t, "a[", string(dst[:nDst]))
	assert.False(t, completed)
	assert.Equal(t, transcode.StateMustFlush, enc.State())

	_, _, _, err = enc.Convert(dst, nil, false)
	assert.ErrorIs(t, err, transcode.ErrMustFlush)

	nSrc, nDst, completed, err = enc.Convert(dst, nil, true)
	require.NoError(t, err)
	assert.Zero(t, nSrc)
	assert.Equal(t, "?]", string(dst[:nDst]))
	assert.True(t, completed)
	assert.Equal(t, transcode.StateIdle, enc.State())

	n, err := e.ByteCount(units("aéü"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	limit, err := e.MaxByteCount(2)
	require.NoError(t, err)
	assert.Equal(t, 9, limit)
}

func TestDecoderStreaming(t *testing.T) {
	d := transcode.UTF8(transcode.UTF8Options{}).NewDecoder()
	dst := make([]uint16, 4)

	nSrc, nDst, completed, err := d.Convert(dst, []byte{0xE2}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, nSrc)
	assert.Zero(t, nDst)
	assert.True(t, completed)
	assert.Equal(t, transcode.StateLeftover, d.State())

	n, err := d.CharCount([]byte{0x82, 0xAC}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, transcode.StateLeftover, d.State())

	nSrc, nDst, completed, err = d.Convert(dst, []byte{0x82, 0xAC}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, nSrc)
	assert.Equal(t, []uint16{0x20AC}, dst[:nDst])
	assert.True(t, completed)
	assert.Equal(t, transcode.StateIdle, d.State())

	_, _, _, err = d.Convert(dst, []byte{'x', 0xF0, 0x9F}, false)
	require.NoError(t, err)
	nSrc, nDst, _, err = d.Convert(dst, nil, true)
	require.NoError(t, err)
	assert.Zero(t, nSrc)
	assert.Equal(t, []uint16{0xFFFD}, dst[:nDst])
}

func TestDecoderUTF16OddBytes(t *testing.T) {
	d := transcode.UTF16(transcode.UTF16Options{}).NewDecoder()
	dst := make([]uint16, 4)
	n, err := d.Decode(dst, []byte{0x41}, false)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = d.Decode(dst, []byte{0x00, 0x42, 0x00}, true)
	require.NoError(t, err)
	assert.Equal(t, []uint16{'A', 'B'}, dst[:n])

	// A high surrogate followed by a non-surrogate across the chunk border.
	d.Reset()
	n, err = d.Decode(dst, []byte{0x3D, 0xD8, 0x41}, false)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = d.Decode(dst, []byte{0x00}, true)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0xFFFD, 'A'}, dst[:n])

	be := transcode.UTF16(transcode.UTF16Options{BigEndian: true})
	s, err := be.DecodeString([]byte{0xDC, 0x00, 0x00, 0x41})
	require.NoError(t, err)
	assert.Equal(t, "�A", s)
}

func TestEncoderStreamingSurrogates(t *testing.T) {
	enc := transcode.UTF8(transcode.UTF8Options{}).NewEncoder()
	dst := make([]byte, 8)

	nSrc, nDst, completed, err := enc.Convert(dst, []uint16{0xD83D}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, nSrc)
	assert.Zero(t, nDst)
	assert.True(t, completed)
	assert.Equal(t, transcode.StateLeftover, enc.State())

	n, err := enc.ByteCount([]uint16{0xDE00}, true)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = enc.Encode(dst, []uint16{0xDE00}, true)
	require.NoError(t, err)
	assert.Equal(t, "\U0001F600", string(dst[:n]))

	_, err = enc.Encode(dst, []uint16{'a', 0xD83D}, false)
	require.NoError(t, err)
	n, err = enc.Encode(dst, nil, true)
	require.NoError(t, err)
	assert.Equal(t, "�", string(dst[:n]))
}

func TestDestinationTooSmall(t *testing.T) {
	e := transcode.UTF8(transcode.UTF8Options{})
	_, err := e.Encode(make([]byte, 2), units("€"))
	assert.ErrorIs(t, err, transcode.ErrDestinationTooSmall)
	_, err = e.Decode(make([]uint16, 1), []byte("\U0001F600"))
	assert.ErrorIs(t, err, transcode.ErrDestinationTooSmall)
}

func TestMaxCounts(t *testing.T) {
	u8 := transcode.UTF8(transcode.UTF8Options{})
	n, err := u8.MaxByteCount(10)
	require.NoError(t, err)
	assert.Equal(t, 33, n)
	n, err = u8.MaxCharCount(10)
	require.NoError(t, err)
	assert.Equal(t, 11, n)
	n, err = transcode.ASCII().MaxByteCount(10)
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	_, err = u8.MaxByteCount(math.MaxInt32)
	assert.ErrorIs(t, err, transcode.ErrConversionOverflow)
	assert.Panics(t, func() { u8.MaxByteCount(-1) })
}

func TestCheckedAdd(t *testing.T) {
	n, err := transcode.CheckedAdd(transcode.MaxCount-1, 1)
	require.NoError(t, err)
	assert.Equal(t, transcode.MaxCount, n)
	_, err = transcode.CheckedAdd(transcode.MaxCount, 1)
	assert.ErrorIs(t, err, transcode.ErrConversionOverflow)
	_, err = transcode.CheckedAdd(0, -1)
	assert.ErrorIs(t, err, transcode.ErrConversionOverflow)
}

// TestPropertyCountsMatchOutput checks that ByteCount and CharCount agree
// with the lengths Encode and Decode produce, for arbitrary input.
func TestPropertyCountsMatchOutput(t *testing.T) {
	for name, e := range encodings() {
		encProp := func(src []uint16) bool {
			n, err := e.ByteCount(src)
			if err != nil {
				return false
			}
			dst := make([]byte, n)
			m, err := e.Encode(dst, src)
			return err == nil && m == n
		}
		decProp := func(src []byte) bool {
			n, err := e.CharCount(src)
			if err != nil {
				return false
			}
			dst := make([]uint16, n)
			m, err := e.Decode(dst, src)
			return err == nil && m == n
		}
		require.NoError(t, quick.Check(encProp, nil), name)
		require.NoError(t, quick.Check(decProp, nil), name)
	}
}

// TestPropertyStreamingMatchesOneShot splits input at every position and
// checks that two streaming calls decode exactly what one call does.
func TestPropertyStreamingMatchesOneShot(t *testing.T) {
	for name, e := range encodings() {
		prop := func(src []byte) bool {
			want := make([]uint16, len(src)+1)
			wn, err := e.Decode(want, src)
			if err != nil {
				return false
			}
			for cut := 0; cut <= len(src); cut++ {
				d := e.NewDecoder()
				got := make([]uint16, len(src)+1)
				n1, err := d.Decode(got, src[:cut], false)
				if err != nil {
					return false
				}
				n2, err := d.Decode(got[n1:], src[cut:], true)
				if err != nil || n1+n2 != wn {
					return false
				}
				for i := range wn {
					if got[i] != want[i] {
						return false
					}
				}
			}
			return true
		}
		require.NoError(t, quick.Check(prop, &quick.Config{MaxCount: 50}), name)
	}
}
