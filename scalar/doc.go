// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package scalar provides validated Unicode scalar values and the sequence
// readers shared by the transcoders in [code.hybscloud.com/corelib/transcode].
//
// A [Value] is a code point in [U+0000, U+D7FF] or [U+E000, U+10FFFF]. The
// validating constructors [TryCreate], [FromRune] and [FromSurrogatePair]
// reject everything else. Sequence lengths are computed branchlessly.
//
// [PeekFirstUtf8] and [PeekFirstUtf16] classify the head of a buffer as
// [Valid], [Invalid] or [Incomplete]. Invalid UTF-8 is reported per maximal
// subpart (Unicode Table 3-7), so a replacing caller emits one U+FFFD per
// ill-formed subsequence.
//
// Classification of ASCII values goes through a 128-entry table; other
// values use the range tables of package unicode.
package scalar
