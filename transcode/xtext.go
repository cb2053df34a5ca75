// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transcode

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"code.hybscloud.com/corelib/internal/pool"
	"code.hybscloud.com/corelib/scalar"
)

// Text adapts e to [encoding.Encoding], converting between e and UTF-8.
//
// The decoder applies e's decoder fallback. The encoder reads invalid UTF-8
// as U+FFFD and applies e's encoder fallback; a fallback error is returned
// from Transform with the offending scalar left unread.
func Text(e *Encoding) encoding.Encoding { return textEncoding{e} }

type textEncoding struct{ e *Encoding }

func (t textEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: &decodeTransformer{d: t.e.NewDecoder()}}
}

func (t textEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: &encodeTransformer{e: t.e}}
}

func (t textEncoding) String() string { return t.e.name }

// decodeTransformer decodes into UTF-16 scratch space and re-encodes the
// result as UTF-8. The decoder never splits a surrogate pair across the
// scratch boundary, so every call emits whole scalars.
type decodeTransformer struct {
	d *Decoder
}

func (t *decodeTransformer) Reset() { t.d.Reset() }

func (t *decodeTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	// Every unit expands to at most three UTF-8 bytes.
	room := len(dst) / 3
	if room <= 0 {
		if len(src) == 0 && (!atEOF || t.d.State() == StateIdle) {
			return 0, 0, nil
		}
		return 0, 0, transform.ErrShortDst
	}
	buf := pool.Units(room)
	defer pool.ReleaseUnits(buf)
	nSrc, nU, completed, err := t.d.Convert(buf.B, src, atEOF)
	units := buf.B[:nU]
	for len(units) > 0 {
		_, s, k := scalar.PeekFirstUtf16(units)
		n, _ := s.EncodeUtf8(dst[nDst:])
		nDst += n
		units = units[k:]
	}
	if err != nil {
		return nDst, nSrc, err
	}
	if nSrc < len(src) || (atEOF && !completed) {
		return nDst, nSrc, transform.ErrShortDst
	}
	return nDst, nSrc, nil
}

// encodeTransformer reads whole scalars from UTF-8, so the one-shot encoder
// never carries state between calls.
type encodeTransformer struct {
	transform.NopResetter
	e *Encoding
}

const encodeBatch = 256

func (t *encodeTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	buf := pool.Units(0)
	defer pool.ReleaseUnits(buf)
	for nSrc < len(src) {
		buf.B = buf.B[:0]
		end := nSrc
		for end < len(src) && len(buf.B) < encodeBatch {
			r, size := utf8.DecodeRune(src[end:])
			if r == utf8.RuneError && size <= 1 && !atEOF && !utf8.FullRune(src[end:]) {
				break
			}
			s, ok := scalar.FromRune(r)
			if !ok {
				s = scalar.Replacement
			}
			buf.B = s.AppendUtf16(buf.B)
			end += size
		}
		if end == nSrc {
			return nDst, nSrc, transform.ErrShortSrc
		}
		n, cerr := t.e.ByteCount(buf.B)
		if cerr == nil && n <= len(dst)-nDst {
			if _, err = t.e.Encode(dst[nDst:], buf.B); err != nil {
				return nDst, nSrc, err
			}
			nDst += n
			nSrc = end
			continue
		}
		// The batch does not fit or contains an error: go one scalar at a time.
		for nSrc < end {
			r, size := utf8.DecodeRune(src[nSrc:])
			s, ok := scalar.FromRune(r)
			if !ok {
				s = scalar.Replacement
			}
			var one [2]uint16
			k, _ := s.EncodeUtf16(one[:])
			n, err := t.e.ByteCount(one[:k])
			if err != nil {
				return nDst, nSrc, err
			}
			if n > len(dst)-nDst {
				return nDst, nSrc, transform.ErrShortDst
			}
			if _, err = t.e.Encode(dst[nDst:], one[:k]); err != nil {
				return nDst, nSrc, err
			}
			nDst += n
			nSrc += size
		}
	}
	return nDst, nSrc, nil
}
