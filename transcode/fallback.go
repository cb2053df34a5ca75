// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transcode

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"code.hybscloud.com/corelib/scalar"
)

// EncoderFallback produces buffers that supply substitute text for UTF-16
// input the target encoding cannot represent.
type EncoderFallback interface {
	// NewBuffer returns a fresh buffer. A buffer belongs to one conversion
	// session and is never shared.
	NewBuffer() EncoderFallbackBuffer
	// MaxCharCount is the largest number of units one Fallback call can
	// produce per input unit.
	MaxCharCount() int
}

// EncoderFallbackBuffer holds substitute UTF-16 output between calls.
//
// The engine calls Fallback with the units it could not encode, then drains
// Pending, calling Advance with the number of units it wrote. Output that does
// not fit stays pending across destination-full retries.
type EncoderFallbackBuffer interface {
	// Fallback records the substitute for unknown, found at index in the
	// current input. A non-nil error aborts the conversion.
	Fallback(unknown []uint16, index int) error
	// Pending returns the substitute units not yet consumed.
	Pending() []uint16
	// Advance consumes n pending units.
	Advance(n int)
	// Reset discards pending output.
	Reset()
}

// DecoderFallback produces buffers that supply substitute text for input
// bytes that do not form a valid sequence.
type DecoderFallback interface {
	NewBuffer() DecoderFallbackBuffer
	MaxCharCount() int
}

// DecoderFallbackBuffer is the decoding counterpart of [EncoderFallbackBuffer].
type DecoderFallbackBuffer interface {
	Fallback(unknown []byte, index int) error
	Pending() []uint16
	Advance(n int)
	Reset()
}

// EncoderFallbackError reports UTF-16 input that could not be encoded.
type EncoderFallbackError struct {
	Unknown []uint16
	Index   int
}

func (e *EncoderFallbackError) Error() string {
	var b strings.Builder
	b.WriteString("transcode: unable to translate Unicode character")
	for _, u := range e.Unknown {
		fmt.Fprintf(&b, " \\u%04X", u)
	}
	fmt.Fprintf(&b, " at index %d to specified code page", e.Index)
	return b.String()
}

// DecoderFallbackError reports bytes that could not be decoded.
type DecoderFallbackError struct {
	Bytes []byte
	Index int
}

func (e *DecoderFallbackError) Error() string {
	return fmt.Sprintf("transcode: unable to translate bytes [% X] at index %d from specified code page to Unicode", e.Bytes, e.Index)
}

// replacementUnits validates s and returns it as UTF-16.
func replacementUnits(s string) []uint16 {
	if !utf8.ValidString(s) {
		panic("transcode: replacement string is not valid UTF-8")
	}
	units := make([]uint16, 0, len(s))
	for _, r := range s {
		v, _ := scalar.FromRune(r)
		units = v.AppendUtf16(units)
	}
	return units
}

// ReplacementEncoderFallback substitutes a fixed string once per
// unencodable UTF-16 unit, so an unencodable surrogate pair yields it twice.
type ReplacementEncoderFallback struct {
	repl []uint16
}

// NewReplacementEncoderFallback returns a fallback substituting repl. It
// panics if repl is not valid UTF-8.
func NewReplacementEncoderFallback(repl string) *ReplacementEncoderFallback {
	return &ReplacementEncoderFallback{repl: replacementUnits(repl)}
}

// Replacement returns the substitute string.
func (f *ReplacementEncoderFallback) Replacement() string { return unitsString(f.repl) }

func (f *ReplacementEncoderFallback) NewBuffer() EncoderFallbackBuffer {
	return &replacementEncoderBuffer{repl: f.repl}
}

func (f *ReplacementEncoderFallback) MaxCharCount() int { return len(f.repl) }

type replacementEncoderBuffer struct {
	repl    []uint16
	pending []uint16
	pos     int
}

func (b *replacementEncoderBuffer) Fallback(unknown []uint16, _ int) error {
	if b.pos < len(b.pending) {
		return ErrRecursiveFallback
	}
	b.pending = b.pending[:0]
	for range unknown {
		b.pending = append(b.pending, b.repl...)
	}
	b.pos = 0
	return nil
}

func (b *replacementEncoderBuffer) Pending() []uint16 { return b.pending[b.pos:] }
func (b *replacementEncoderBuffer) Advance(n int)     { b.pos += n }
func (b *replacementEncoderBuffer) Reset()            { b.pending, b.pos = b.pending[:0], 0 }

// ReplacementDecoderFallback substitutes a fixed string once per ill-formed
// subsequence.
type ReplacementDecoderFallback struct {
	repl []uint16
}

// NewReplacementDecoderFallback returns a fallback substituting repl. It
// panics if repl is not valid UTF-8.
func NewReplacementDecoderFallback(repl string) *ReplacementDecoderFallback {
	return &ReplacementDecoderFallback{repl: replacementUnits(repl)}
}

// Replacement returns the substitute string.
func (f *ReplacementDecoderFallback) Replacement() string { return unitsString(f.repl) }

func (f *ReplacementDecoderFallback) NewBuffer() DecoderFallbackBuffer {
	return &replacementDecoderBuffer{repl: f.repl, pos: len(f.repl)}
}

func (f *ReplacementDecoderFallback) MaxCharCount() int { return len(f.repl) }

type replacementDecoderBuffer struct {
	repl []uint16
	pos  int
}

func (b *replacementDecoderBuffer) Fallback([]byte, int) error {
	if b.pos < len(b.repl) {
		return ErrRecursiveFallback
	}
	b.pos = 0
	return nil
}

func (b *replacementDecoderBuffer) Pending() []uint16 { return b.repl[b.pos:] }
func (b *replacementDecoderBuffer) Advance(n int)     { b.pos += n }
func (b *replacementDecoderBuffer) Reset()            { b.pos = len(b.repl) }

// ExceptionEncoderFallback fails with an [*EncoderFallbackError].
type ExceptionEncoderFallback struct{}

func (ExceptionEncoderFallback) NewBuffer() EncoderFallbackBuffer { return exceptionEncoderBuffer{} }
func (ExceptionEncoderFallback) MaxCharCount() int                { return 0 }

type exceptionEncoderBuffer struct{}

func (exceptionEncoderBuffer) Fallback(unknown []uint16, index int) error {
	return &EncoderFallbackError{Unknown: append([]uint16(nil), unknown...), Index: index}
}
func (exceptionEncoderBuffer) Pending() []uint16 { return nil }
func (exceptionEncoderBuffer) Advance(int)       {}
func (exceptionEncoderBuffer) Reset()            {}

// ExceptionDecoderFallback fails with a [*DecoderFallbackError].
type ExceptionDecoderFallback struct{}

func (ExceptionDecoderFallback) NewBuffer() DecoderFallbackBuffer { return exceptionDecoderBuffer{} }
func (ExceptionDecoderFallback) MaxCharCount() int                { return 0 }

type exceptionDecoderBuffer struct{}

func (exceptionDecoderBuffer) Fallback(unknown []byte, index int) error {
	return &DecoderFallbackError{Bytes: append([]byte(nil), unknown...), Index: index}
}
func (exceptionDecoderBuffer) Pending() []uint16 { return nil }
func (exceptionDecoderBuffer) Advance(int)       {}
func (exceptionDecoderBuffer) Reset()            {}

// unitsString converts UTF-16 to a Go string. Unpaired surrogates become U+FFFD.
func unitsString(u []uint16) string {
	var b strings.Builder
	b.Grow(len(u))
	for len(u) > 0 {
		_, s, k := scalar.PeekFirstUtf16(u)
		b.WriteString(s.String())
		u = u[k:]
	}
	return b.String()
}
