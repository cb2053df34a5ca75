// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transcode

import (
	"code.hybscloud.com/corelib/internal/ascii"
	"code.hybscloud.com/corelib/scalar"
)

// ASCII returns the US-ASCII encoding, code page 20127. Both directions
// substitute "?" for anything outside [U+0000, U+007F].
func ASCII() *Encoding {
	return ASCIIWithFallbacks(NewReplacementEncoderFallback("?"), NewReplacementDecoderFallback("?"))
}

// ASCIIWithFallbacks returns the US-ASCII encoding with the given fallbacks.
func ASCIIWithFallbacks(enc EncoderFallback, dec DecoderFallback) *Encoding {
	e := &Encoding{
		codec:    asciiCodec{},
		codePage: CodePageASCII,
		name:     "us-ascii",
	}
	e.init(enc, dec)
	return e
}

type asciiCodec struct{}

func (asciiCodec) maxBytesPerUnit() int { return 1 }
func (asciiCodec) maxUnitsPerByte() int { return 1 }

func (asciiCodec) scalarLen(s scalar.Value) (int, bool) { return 1, s.IsAscii() }

func (asciiCodec) putScalar(dst []byte, s scalar.Value) int {
	dst[0] = byte(s.Uint32())
	return 1
}

func (asciiCodec) peek(src []byte) (scalar.Validity, scalar.Value, int) {
	if len(src) == 0 {
		return scalar.Incomplete, scalar.Replacement, 0
	}
	if src[0] >= 0x80 {
		return scalar.Invalid, scalar.Replacement, 1
	}
	return scalar.Valid, scalar.Unchecked(uint32(src[0])), 1
}

func (asciiCodec) encodeFast(dst []byte, src []uint16) (int, int) {
	n := ascii.Narrow(dst, src)
	return n, n
}

func (asciiCodec) decodeFast(dst []uint16, src []byte) (int, int) {
	n := ascii.Widen(dst, src)
	return n, n
}

func (asciiCodec) encodeCountFast(src []uint16) (int, int) {
	n := ascii.IndexNonAsciiUtf16(src)
	return n, n
}

func (asciiCodec) decodeCountFast(src []byte) (int, int) {
	n := ascii.IndexNonAscii(src)
	return n, n
}
