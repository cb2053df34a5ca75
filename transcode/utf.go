// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transcode

import "code.hybscloud.com/corelib/scalar"

// replacementUtf8 is U+FFFD encoded as UTF-8.
var replacementUtf8 = [3]byte{0xEF, 0xBF, 0xBD}

// Utf8ToUtf16 transcodes src to dst.
//
// It returns the status and the number of bytes read and units written.
// When isFinalChunk is false and src ends inside a sequence, the tail is left
// unread and [NeedMoreData] is reported. When isFinalChunk is true the same
// tail is ill-formed and is handled per behavior. It panics on [LeaveUnchanged].
func Utf8ToUtf16(src []byte, dst []uint16, isFinalChunk bool, behavior InvalidSequenceBehavior) (OperationStatus, int, int) {
	mustNotLeaveUnchanged(behavior)
	nSrc, nDst := 0, 0
	for {
		u, b := utf8DecodeFast(dst[nDst:], src[nSrc:])
		nDst += u
		nSrc += b
		if nSrc == len(src) {
			return Done, nSrc, nDst
		}
		v, _, k := scalar.PeekFirstUtf8(src[nSrc:])
		switch v {
		case scalar.Valid:
			return DestinationTooSmall, nSrc, nDst
		case scalar.Incomplete:
			if !isFinalChunk {
				return NeedMoreData, nSrc, nDst
			}
		}
		if behavior == Fail {
			return InvalidData, nSrc, nDst
		}
		if nDst == len(dst) {
			return DestinationTooSmall, nSrc, nDst
		}
		dst[nDst] = uint16(scalar.Replacement.Uint32())
		nDst++
		nSrc += k
	}
}

// Utf16ToUtf8 transcodes src to dst.
//
// It returns the status and the number of units read and bytes written.
// A high surrogate at the end of a non-final chunk reports [NeedMoreData];
// every other unpaired surrogate is ill-formed and handled per behavior.
// It panics on [LeaveUnchanged].
func Utf16ToUtf8(src []uint16, dst []byte, isFinalChunk bool, behavior InvalidSequenceBehavior) (OperationStatus, int, int) {
	mustNotLeaveUnchanged(behavior)
	nSrc, nDst := 0, 0
	for {
		b, u := utf8EncodeFast(dst[nDst:], src[nSrc:])
		nDst += b
		nSrc += u
		if nSrc == len(src) {
			return Done, nSrc, nDst
		}
		v, _, k := scalar.PeekFirstUtf16(src[nSrc:])
		switch v {
		case scalar.Valid:
			return DestinationTooSmall, nSrc, nDst
		case scalar.Incomplete:
			if !isFinalChunk {
				return NeedMoreData, nSrc, nDst
			}
		}
		if behavior == Fail {
			return InvalidData, nSrc, nDst
		}
		if len(dst)-nDst < len(replacementUtf8) {
			return DestinationTooSmall, nSrc, nDst
		}
		nDst += copy(dst[nDst:], replacementUtf8[:])
		nSrc += k
	}
}
