// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transcode

import (
	"unicode/utf8"

	"code.hybscloud.com/corelib/internal/pool"
	"code.hybscloud.com/corelib/scalar"
)

// Code pages of the built-in encodings.
const (
	CodePageUTF16LE = 1200
	CodePageUTF16BE = 1201
	CodePageASCII   = 20127
	CodePageUTF8    = 65001
)

// codec is the per-encoding part of the engine. The fast hooks never invoke
// a fallback: they stop at the first unit that needs one, or when the next
// scalar does not fit, and report how far they got.
type codec interface {
	maxBytesPerUnit() int
	maxUnitsPerByte() int
	// scalarLen returns the encoded length of s, or false if the encoding
	// cannot represent s.
	scalarLen(s scalar.Value) (int, bool)
	putScalar(dst []byte, s scalar.Value) int
	peek(src []byte) (scalar.Validity, scalar.Value, int)

	encodeFast(dst []byte, src []uint16) (nDst, nSrc int)
	decodeFast(dst []uint16, src []byte) (nDst, nSrc int)
	encodeCountFast(src []uint16) (nDst, nSrc int)
	decodeCountFast(src []byte) (nDst, nSrc int)
}

// strategy selects how an Encoding handles input needing a fallback.
type strategy uint8

const (
	// strategyGeneric drives a fallback buffer.
	strategyGeneric strategy = iota
	// strategyReplaceOne writes a pre-encoded one-unit replacement directly.
	strategyReplaceOne
)

// Encoding converts between UTF-16 and one byte encoding.
//
// The handling of unencodable or ill-formed input is fixed at construction:
// a single-unit replacement is pre-encoded and written inline, anything else
// goes through a fallback buffer. An Encoding is immutable and safe for
// concurrent use; the streaming [Encoder] and [Decoder] it creates are not.
type Encoding struct {
	codec    codec
	codePage int
	name     string
	preamble []byte

	encFallback EncoderFallback
	decFallback DecoderFallback

	encStrategy strategy
	encRepl     []byte
	decStrategy strategy
	decRepl     uint16
}

func (e *Encoding) init(enc EncoderFallback, dec DecoderFallback) {
	if enc == nil || dec == nil {
		panic("transcode: nil fallback")
	}
	e.encFallback, e.decFallback = enc, dec
	e.encStrategy, e.decStrategy = strategyGeneric, strategyGeneric
	if r, ok := enc.(*ReplacementEncoderFallback); ok && len(r.repl) == 1 {
		s, valid := scalar.TryCreate(uint32(r.repl[0]))
		if n, ok := e.codec.scalarLen(s); valid && ok {
			e.encRepl = make([]byte, n)
			e.codec.putScalar(e.encRepl, s)
			e.encStrategy = strategyReplaceOne
		}
	}
	if r, ok := dec.(*ReplacementDecoderFallback); ok && len(r.repl) == 1 {
		e.decRepl = r.repl[0]
		e.decStrategy = strategyReplaceOne
	}
}

// WithFallbacks returns a copy of e using the given fallbacks.
func (e *Encoding) WithFallbacks(enc EncoderFallback, dec DecoderFallback) *Encoding {
	c := &Encoding{codec: e.codec, codePage: e.codePage, name: e.name, preamble: e.preamble}
	c.init(enc, dec)
	return c
}

// CodePage returns the Windows code page number of e.
func (e *Encoding) CodePage() int { return e.codePage }

// Name returns the IANA web name of e.
func (e *Encoding) Name() string { return e.name }

// Preamble returns the byte order mark e emits, or nil.
func (e *Encoding) Preamble() []byte { return e.preamble }

// EncoderFallback returns the fallback used for unencodable input.
func (e *Encoding) EncoderFallback() EncoderFallback { return e.encFallback }

// DecoderFallback returns the fallback used for ill-formed input.
func (e *Encoding) DecoderFallback() DecoderFallback { return e.decFallback }

// ByteCount returns the number of bytes Encode produces for src.
func (e *Encoding) ByteCount(src []uint16) (int, error) {
	if _, ok := e.codec.(asciiCodec); ok && e.encStrategy == strategyReplaceOne && len(e.encRepl) == 1 {
		return checkedAdd(0, len(src))
	}
	var st encState
	_, n, _, err := e.encode(nil, src, true, &st, true)
	return n, err
}

// CharCount returns the number of UTF-16 units Decode produces for src.
func (e *Encoding) CharCount(src []byte) (int, error) {
	if _, ok := e.codec.(asciiCodec); ok && e.decStrategy == strategyReplaceOne {
		return checkedAdd(0, len(src))
	}
	var st decState
	_, n, _, err := e.decode(nil, src, true, &st, true)
	return n, err
}

// Encode writes the encoding of src to dst and returns the number of bytes
// written. It returns [ErrDestinationTooSmall] if dst cannot hold the result.
func (e *Encoding) Encode(dst []byte, src []uint16) (int, error) {
	var st encState
	_, n, short, err := e.encode(dst, src, true, &st, false)
	if err != nil {
		return n, err
	}
	if short {
		return n, ErrDestinationTooSmall
	}
	return n, nil
}

// Decode writes the decoding of src to dst and returns the number of units
// written. It returns [ErrDestinationTooSmall] if dst cannot hold the result.
func (e *Encoding) Decode(dst []uint16, src []byte) (int, error) {
	var st decState
	_, n, short, err := e.decode(dst, src, true, &st, false)
	if err != nil {
		return n, err
	}
	if short {
		return n, ErrDestinationTooSmall
	}
	return n, nil
}

// MaxByteCount returns the largest number of bytes that encoding n units can
// produce, including one unit carried over from a previous streaming call.
func (e *Encoding) MaxByteCount(n int) (int, error) {
	if n < 0 {
		panic("transcode: negative count")
	}
	units, err := checkedAdd(n, 1)
	if err != nil {
		return 0, err
	}
	if m := e.encFallback.MaxCharCount(); m > 1 {
		if units, err = checkedMul(units, m); err != nil {
			return 0, err
		}
	}
	return checkedMul(units, e.codec.maxBytesPerUnit())
}

// MaxCharCount returns the largest number of units that decoding n bytes can
// produce, including bytes carried over from a previous streaming call.
func (e *Encoding) MaxCharCount(n int) (int, error) {
	if n < 0 {
		panic("transcode: negative count")
	}
	units, err := checkedAdd(n, 1)
	if err != nil {
		return 0, err
	}
	if units, err = checkedMul(units, e.codec.maxUnitsPerByte()); err != nil {
		return 0, err
	}
	if m := e.decFallback.MaxCharCount(); m > 1 {
		return checkedMul(units, m)
	}
	return units, nil
}

// NewEncoder returns a streaming encoder for e.
func (e *Encoding) NewEncoder() *Encoder { return &Encoder{enc: e} }

// NewDecoder returns a streaming decoder for e.
func (e *Encoding) NewDecoder() *Decoder { return &Decoder{enc: e} }

// EncodeString encodes the Go string s. Invalid UTF-8 in s is read as U+FFFD.
func (e *Encoding) EncodeString(s string) ([]byte, error) {
	buf := pool.Units(0)
	defer pool.ReleaseUnits(buf)
	for _, r := range s {
		v, ok := scalar.FromRune(r)
		if !ok {
			v = scalar.Replacement
		}
		buf.B = v.AppendUtf16(buf.B)
	}
	n, err := e.ByteCount(buf.B)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	n, err = e.Encode(out, buf.B)
	return out[:n], err
}

// DecodeString decodes b into a Go string.
func (e *Encoding) DecodeString(b []byte) (string, error) {
	n, err := e.CharCount(b)
	if err != nil {
		return "", err
	}
	buf := pool.Units(n)
	defer pool.ReleaseUnits(buf)
	n, err = e.Decode(buf.B, b)
	if err != nil {
		return "", err
	}
	return unitsString(buf.B[:n]), nil
}

func (e *Encoding) String() string { return e.name }

// encState is the carry-over of a streaming encoder.
type encState struct {
	hi uint16
	fb EncoderFallbackBuffer
}

func (st *encState) pending() int {
	if st.fb == nil {
		return 0
	}
	return len(st.fb.Pending())
}

// decState is the carry-over of a streaming decoder.
type decState struct {
	buf [utf8.UTFMax]byte
	n   int
	fb  DecoderFallbackBuffer
}

func (st *decState) pending() int {
	if st.fb == nil {
		return 0
	}
	return len(st.fb.Pending())
}

// encodePending writes the scalars of p to dst[nDst:] and returns the new
// output position and the number of units of p consumed. In count mode
// nothing is written.
func (e *Encoding) encodePending(dst []byte, nDst int, p []uint16, count bool) (int, int, error) {
	used := 0
	for used < len(p) {
		v, s, k := scalar.PeekFirstUtf16(p[used:])
		if v != scalar.Valid {
			return nDst, used, ErrRecursiveFallback
		}
		n, ok := e.codec.scalarLen(s)
		if !ok {
			return nDst, used, ErrRecursiveFallback
		}
		if !count {
			if len(dst)-nDst < n {
				return nDst, used, nil
			}
			e.codec.putScalar(dst[nDst:], s)
		}
		var err error
		if nDst, err = checkedAdd(nDst, n); err != nil {
			return nDst, used, err
		}
		used += k
	}
	return nDst, used, nil
}

// encodeFallback substitutes unknown. consumed reports whether the caller
// may advance past unknown; short reports that dst filled up.
func (e *Encoding) encodeFallback(dst []byte, nDst int, unknown []uint16, index int, st *encState, count bool) (n int, consumed, short bool, err error) {
	if e.encStrategy == strategyReplaceOne {
		need := len(unknown) * len(e.encRepl)
		if !count {
			if len(dst)-nDst < need {
				return nDst, false, true, nil
			}
			for range unknown {
				nDst += copy(dst[nDst:], e.encRepl)
			}
			return nDst, true, false, nil
		}
		n, err = checkedAdd(nDst, need)
		return n, err == nil, false, err
	}
	if st.fb == nil {
		st.fb = e.encFallback.NewBuffer()
	}
	if err = st.fb.Fallback(unknown, index); err != nil {
		return nDst, false, false, err
	}
	p := st.fb.Pending()
	nDst, used, err := e.encodePending(dst, nDst, p, count)
	if count {
		st.fb.Reset()
	} else {
		st.fb.Advance(used)
	}
	return nDst, err == nil, err == nil && used < len(p), err
}

// encode is the encoding engine shared by one-shot, streaming and counting
// calls. In count mode dst is ignored and nDst is the output length; st must
// then be a scratch copy.
func (e *Encoding) encode(dst []byte, src []uint16, flush bool, st *encState, count bool) (nSrc, nDst int, short bool, err error) {
	if st.fb != nil && !count {
		p := st.fb.Pending()
		var used int
		nDst, used, err = e.encodePending(dst, nDst, p, false)
		st.fb.Advance(used)
		if err != nil || used < len(p) {
			return 0, nDst, err == nil, err
		}
	}

	for st.hi != 0 {
		if len(src) == 0 && !flush {
			return 0, nDst, false, nil
		}
		if len(src) > 0 && scalar.IsLowSurrogate(uint32(src[0])) {
			s, _ := scalar.FromSurrogatePair(st.hi, src[0])
			n, ok := e.codec.scalarLen(s)
			if ok {
				if !count {
					if len(dst)-nDst < n {
						return 0, nDst, true, nil
					}
					e.codec.putScalar(dst[nDst:], s)
				}
				if nDst, err = checkedAdd(nDst, n); err != nil {
					return 0, nDst, false, err
				}
				st.hi = 0
				nSrc = 1
				break
			}
			var consumed bool
			nDst, consumed, short, err = e.encodeFallback(dst, nDst, []uint16{st.hi, src[0]}, -1, st, count)
			if consumed {
				st.hi = 0
				nSrc = 1
			}
			if err != nil || short || !consumed {
				return nSrc, nDst, short || !consumed, err
			}
			break
		}
		var consumed bool
		nDst, consumed, short, err = e.encodeFallback(dst, nDst, []uint16{st.hi}, -1, st, count)
		if consumed {
			st.hi = 0
		}
		if err != nil || short || !consumed {
			return 0, nDst, short || !consumed, err
		}
	}

	for nSrc < len(src) {
		if count {
			n, u := e.codec.encodeCountFast(src[nSrc:])
			if nDst, err = checkedAdd(nDst, n); err != nil {
				return nSrc, nDst, false, err
			}
			nSrc += u
		} else {
			n, u := e.codec.encodeFast(dst[nDst:], src[nSrc:])
			nDst += n
			nSrc += u
		}
		if nSrc == len(src) {
			break
		}

		v, s, k := scalar.PeekFirstUtf16(src[nSrc:])
		switch v {
		case scalar.Valid:
			if _, ok := e.codec.scalarLen(s); ok {
				return nSrc, nDst, true, nil
			}
		case scalar.Incomplete:
			if !flush {
				st.hi = src[nSrc]
				return len(src), nDst, false, nil
			}
		}
		var consumed bool
		nDst, consumed, short, err = e.encodeFallback(dst, nDst, src[nSrc:nSrc+k], nSrc, st, count)
		if consumed {
			nSrc += k
		}
		if err != nil || short || !consumed {
			return nSrc, nDst, short || !consumed, err
		}
	}
	return nSrc, nDst, false, nil
}

// decodePending copies p to dst[nDst:] and returns the new output position
// and the number of units consumed.
func decodePending(dst []uint16, nDst int, p []uint16, count bool) (int, int, error) {
	if count {
		n, err := checkedAdd(nDst, len(p))
		return n, len(p), err
	}
	c := copy(dst[nDst:], p)
	if c < len(p) && c > 0 && scalar.IsHighSurrogate(uint32(p[c-1])) {
		// Keep a surrogate pair together for the next call.
		c--
	}
	return nDst + c, c, nil
}

// decodeFallback substitutes unknown. See encodeFallback.
func (e *Encoding) decodeFallback(dst []uint16, nDst int, unknown []byte, index int, st *decState, count bool) (n int, consumed, short bool, err error) {
	if e.decStrategy == strategyReplaceOne {
		if !count {
			if nDst == len(dst) {
				return nDst, false, true, nil
			}
			dst[nDst] = e.decRepl
			return nDst + 1, true, false, nil
		}
		n, err = checkedAdd(nDst, 1)
		return n, err == nil, false, err
	}
	if st.fb == nil {
		st.fb = e.decFallback.NewBuffer()
	}
	if err = st.fb.Fallback(unknown, index); err != nil {
		return nDst, false, false, err
	}
	p := st.fb.Pending()
	nDst, used, err := decodePending(dst, nDst, p, count)
	if count {
		st.fb.Reset()
	} else {
		st.fb.Advance(used)
	}
	return nDst, err == nil, err == nil && used < len(p), err
}

// decode is the decoding engine shared by one-shot, streaming and counting
// calls. See encode.
func (e *Encoding) decode(dst []uint16, src []byte, flush bool, st *decState, count bool) (nSrc, nDst int, short bool, err error) {
	if st.fb != nil && !count {
		p := st.fb.Pending()
		var used int
		nDst, used, _ = decodePending(dst, nDst, p, false)
		st.fb.Advance(used)
		if used < len(p) {
			return 0, nDst, true, nil
		}
	}

	for st.n > 0 {
		var tmp [utf8.UTFMax]byte
		t := copy(tmp[:], st.buf[:st.n])
		t += copy(tmp[t:], src[nSrc:])
		v, s, k := e.codec.peek(tmp[:t])
		if v == scalar.Valid {
			n := s.Utf16SequenceLength()
			if !count {
				if len(dst)-nDst < n {
					return nSrc, nDst, true, nil
				}
				s.EncodeUtf16(dst[nDst:])
			}
			if nDst, err = checkedAdd(nDst, n); err != nil {
				return nSrc, nDst, false, err
			}
			nSrc += k - st.n
			st.n = 0
			break
		}
		if v == scalar.Incomplete && !flush {
			st.n += copy(st.buf[st.n:], src[nSrc:])
			return len(src), nDst, false, nil
		}
		var consumed bool
		nDst, consumed, short, err = e.decodeFallback(dst, nDst, tmp[:k], nSrc-st.n, st, count)
		if consumed {
			if k < st.n {
				st.n = copy(st.buf[:], st.buf[k:st.n])
			} else {
				nSrc += k - st.n
				st.n = 0
			}
		}
		if err != nil || short || !consumed {
			return nSrc, nDst, short || !consumed, err
		}
	}

	for nSrc < len(src) {
		if count {
			n, b := e.codec.decodeCountFast(src[nSrc:])
			if nDst, err = checkedAdd(nDst, n); err != nil {
				return nSrc, nDst, false, err
			}
			nSrc += b
		} else {
			n, b := e.codec.decodeFast(dst[nDst:], src[nSrc:])
			nDst += n
			nSrc += b
		}
		if nSrc == len(src) {
			break
		}

		v, _, k := e.codec.peek(src[nSrc:])
		switch v {
		case scalar.Valid:
			return nSrc, nDst, true, nil
		case scalar.Incomplete:
			if !flush {
				st.n = copy(st.buf[:], src[nSrc:])
				return len(src), nDst, false, nil
			}
		}
		var consumed bool
		nDst, consumed, short, err = e.decodeFallback(dst, nDst, src[nSrc:nSrc+k], nSrc, st, count)
		if consumed {
			nSrc += k
		}
		if err != nil || short || !consumed {
			return nSrc, nDst, short || !consumed, err
		}
	}
	return nSrc, nDst, false, nil
}
