// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transcode

import (
	"code.hybscloud.com/corelib/internal/ascii"
	"code.hybscloud.com/corelib/scalar"
)

// UTF8Options configures [UTF8].
type UTF8Options struct {
	// EmitBOM makes Preamble return the UTF-8 byte order mark.
	EmitBOM bool
	// ThrowOnInvalid selects the exception fallbacks instead of U+FFFD
	// replacement.
	ThrowOnInvalid bool
}

// UTF8 returns the UTF-8 encoding, code page 65001.
func UTF8(opts UTF8Options) *Encoding {
	e := &Encoding{
		codec:    utf8Codec{},
		codePage: CodePageUTF8,
		name:     "utf-8",
	}
	if opts.EmitBOM {
		e.preamble = []byte{0xEF, 0xBB, 0xBF}
	}
	if opts.ThrowOnInvalid {
		e.init(ExceptionEncoderFallback{}, ExceptionDecoderFallback{})
	} else {
		e.init(NewReplacementEncoderFallback("�"), NewReplacementDecoderFallback("�"))
	}
	return e
}

type utf8Codec struct{}

func (utf8Codec) maxBytesPerUnit() int { return 3 }
func (utf8Codec) maxUnitsPerByte() int { return 1 }

func (utf8Codec) scalarLen(s scalar.Value) (int, bool) { return s.Utf8SequenceLength(), true }

func (utf8Codec) putScalar(dst []byte, s scalar.Value) int {
	n, _ := s.EncodeUtf8(dst)
	return n
}

func (utf8Codec) peek(src []byte) (scalar.Validity, scalar.Value, int) {
	return scalar.PeekFirstUtf8(src)
}

func (utf8Codec) encodeFast(dst []byte, src []uint16) (int, int) { return utf8EncodeFast(dst, src) }
func (utf8Codec) decodeFast(dst []uint16, src []byte) (int, int) { return utf8DecodeFast(dst, src) }

func (utf8Codec) encodeCountFast(src []uint16) (int, int) {
	nDst, nSrc := 0, 0
	for nSrc < len(src) {
		run := ascii.IndexNonAsciiUtf16(src[nSrc:])
		nSrc += run
		nDst += run
		if nSrc == len(src) {
			break
		}
		v, s, k := scalar.PeekFirstUtf16(src[nSrc:])
		if v != scalar.Valid {
			break
		}
		nDst += s.Utf8SequenceLength()
		nSrc += k
	}
	return nDst, nSrc
}

func (utf8Codec) decodeCountFast(src []byte) (int, int) {
	nDst, nSrc := 0, 0
	for nSrc < len(src) {
		run := ascii.IndexNonAscii(src[nSrc:])
		nSrc += run
		nDst += run
		if nSrc == len(src) {
			break
		}
		v, s, k := scalar.PeekFirstUtf8(src[nSrc:])
		if v != scalar.Valid {
			break
		}
		nDst += s.Utf16SequenceLength()
		nSrc += k
	}
	return nDst, nSrc
}

// utf8EncodeFast transcodes well-formed UTF-16 to UTF-8. It stops at the
// first unpaired surrogate or when the next scalar does not fit, and returns
// the bytes written and units read.
func utf8EncodeFast(dst []byte, src []uint16) (int, int) {
	nDst, nSrc := 0, 0
	for nSrc < len(src) {
		n := ascii.Narrow(dst[nDst:], src[nSrc:])
		nDst += n
		nSrc += n
		if nSrc == len(src) {
			break
		}
		v, s, k := scalar.PeekFirstUtf16(src[nSrc:])
		if v != scalar.Valid {
			break
		}
		w, ok := s.EncodeUtf8(dst[nDst:])
		if !ok {
			break
		}
		nDst += w
		nSrc += k
	}
	return nDst, nSrc
}

// utf8DecodeFast transcodes well-formed UTF-8 to UTF-16. It stops at the
// first ill-formed or truncated sequence or when the next scalar does not
// fit, and returns the units written and bytes read.
func utf8DecodeFast(dst []uint16, src []byte) (int, int) {
	nDst, nSrc := 0, 0
	for nSrc < len(src) {
		n := ascii.Widen(dst[nDst:], src[nSrc:])
		nDst += n
		nSrc += n
		if nSrc == len(src) {
			break
		}
		v, s, k := scalar.PeekFirstUtf8(src[nSrc:])
		if v != scalar.Valid {
			break
		}
		w, ok := s.EncodeUtf16(dst[nDst:])
		if !ok {
			break
		}
		nDst += w
		nSrc += k
	}
	return nDst, nSrc
}
