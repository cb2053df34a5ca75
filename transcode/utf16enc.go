// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transcode

import (
	"encoding/binary"

	"code.hybscloud.com/corelib/scalar"
)

// UTF16Options configures [UTF16].
type UTF16Options struct {
	// BigEndian selects code page 1201 instead of 1200.
	BigEndian bool
	// EmitBOM makes Preamble return the byte order mark.
	EmitBOM bool
	// ThrowOnInvalid selects the exception fallbacks instead of U+FFFD
	// replacement.
	ThrowOnInvalid bool
}

// UTF16 returns the UTF-16 encoding, code page 1200 (little endian) or 1201
// (big endian).
func UTF16(opts UTF16Options) *Encoding {
	c := utf16Codec{order: binary.LittleEndian}
	e := &Encoding{codec: c, codePage: CodePageUTF16LE, name: "utf-16"}
	if opts.BigEndian {
		c.order = binary.BigEndian
		e.codec, e.codePage, e.name = c, CodePageUTF16BE, "utf-16BE"
	}
	if opts.EmitBOM {
		e.preamble = make([]byte, 2)
		c.order.PutUint16(e.preamble, 0xFEFF)
	}
	if opts.ThrowOnInvalid {
		e.init(ExceptionEncoderFallback{}, ExceptionDecoderFallback{})
	} else {
		e.init(NewReplacementEncoderFallback("�"), NewReplacementDecoderFallback("�"))
	}
	return e
}

type utf16Codec struct {
	order binary.ByteOrder
}

func (utf16Codec) maxBytesPerUnit() int { return 2 }
func (utf16Codec) maxUnitsPerByte() int { return 1 }

func (utf16Codec) scalarLen(s scalar.Value) (int, bool) { return 2 * s.Utf16SequenceLength(), true }

func (c utf16Codec) putScalar(dst []byte, s scalar.Value) int {
	var u [2]uint16
	n, _ := s.EncodeUtf16(u[:])
	bo := c.order
	for i := range n {
		bo.PutUint16(dst[2*i:], u[i])
	}
	return 2 * n
}

// peek classifies the head of src in bytes: an odd trailing byte or a high
// surrogate without its partner is Incomplete, a lone surrogate is Invalid
// over its two bytes.
func (c utf16Codec) peek(src []byte) (scalar.Validity, scalar.Value, int) {
	if len(src) < 2 {
		return scalar.Incomplete, scalar.Replacement, len(src)
	}
	bo := c.order
	u0 := bo.Uint16(src)
	if !scalar.IsSurrogate(uint32(u0)) {
		return scalar.Valid, scalar.Unchecked(uint32(u0)), 2
	}
	if !scalar.IsHighSurrogate(uint32(u0)) {
		return scalar.Invalid, scalar.Replacement, 2
	}
	if len(src) < 4 {
		return scalar.Incomplete, scalar.Replacement, len(src)
	}
	s, ok := scalar.FromSurrogatePair(u0, bo.Uint16(src[2:]))
	if !ok {
		return scalar.Invalid, scalar.Replacement, 2
	}
	return scalar.Valid, s, 4
}

func (c utf16Codec) encodeFast(dst []byte, src []uint16) (int, int) {
	bo := c.order
	nDst, nSrc := 0, 0
	for nSrc < len(src) {
		u := src[nSrc]
		if !scalar.IsSurrogate(uint32(u)) {
			if len(dst)-nDst < 2 {
				break
			}
			bo.PutUint16(dst[nDst:], u)
			nDst += 2
			nSrc++
			continue
		}
		if v, _, _ := scalar.PeekFirstUtf16(src[nSrc:]); v != scalar.Valid || len(dst)-nDst < 4 {
			break
		}
		bo.PutUint16(dst[nDst:], u)
		bo.PutUint16(dst[nDst+2:], src[nSrc+1])
		nDst += 4
		nSrc += 2
	}
	return nDst, nSrc
}

func (c utf16Codec) decodeFast(dst []uint16, src []byte) (int, int) {
	bo := c.order
	nDst, nSrc := 0, 0
	for len(src)-nSrc >= 2 && nDst < len(dst) {
		u := bo.Uint16(src[nSrc:])
		if !scalar.IsSurrogate(uint32(u)) {
			dst[nDst] = u
			nDst++
			nSrc += 2
			continue
		}
		v, _, _ := c.peek(src[nSrc:])
		if v != scalar.Valid || len(dst)-nDst < 2 {
			break
		}
		dst[nDst] = u
		dst[nDst+1] = bo.Uint16(src[nSrc+2:])
		nDst += 2
		nSrc += 4
	}
	return nDst, nSrc
}

func (c utf16Codec) encodeCountFast(src []uint16) (int, int) {
	nSrc := 0
	for nSrc < len(src) {
		if !scalar.IsSurrogate(uint32(src[nSrc])) {
			nSrc++
			continue
		}
		v, _, k := scalar.PeekFirstUtf16(src[nSrc:])
		if v != scalar.Valid {
			break
		}
		nSrc += k
	}
	return 2 * nSrc, nSrc
}

func (c utf16Codec) decodeCountFast(src []byte) (int, int) {
	nDst, nSrc := 0, 0
	for len(src)-nSrc >= 2 {
		v, _, k := c.peek(src[nSrc:])
		if v != scalar.Valid {
			break
		}
		nDst += k / 2
		nSrc += k
	}
	return nDst, nSrc
}
