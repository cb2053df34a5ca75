// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transcode

import (
	"code.hybscloud.com/corelib/internal/ascii"
	"code.hybscloud.com/corelib/scalar"
)

// ToUpperUtf8 writes the simple uppercase mapping of src to dst.
//
// src and dst are both UTF-8. A mapping may change the encoded length of a
// scalar, so dst should not alias src. [LeaveUnchanged] copies ill-formed
// bytes through as they are.
func ToUpperUtf8(src, dst []byte, isFinalChunk bool, behavior InvalidSequenceBehavior) (OperationStatus, int, int) {
	return mapCaseUtf8(src, dst, isFinalChunk, behavior, ascii.ToUpper, scalar.Value.ToUpper)
}

// ToLowerUtf8 writes the simple lowercase mapping of src to dst. See
// [ToUpperUtf8].
func ToLowerUtf8(src, dst []byte, isFinalChunk bool, behavior InvalidSequenceBehavior) (OperationStatus, int, int) {
	return mapCaseUtf8(src, dst, isFinalChunk, behavior, ascii.ToLower, scalar.Value.ToLower)
}

func mapCaseUtf8(src, dst []byte, isFinalChunk bool, behavior InvalidSequenceBehavior,
	mapAscii func([]byte), mapScalar func(scalar.Value) scalar.Value) (OperationStatus, int, int) {
	if behavior > LeaveUnchanged {
		panic("transcode: unknown InvalidSequenceBehavior")
	}
	nSrc, nDst := 0, 0
	for nSrc < len(src) {
		run := ascii.IndexNonAscii(src[nSrc:])
		if run > 0 {
			n := copy(dst[nDst:], src[nSrc:nSrc+run])
			mapAscii(dst[nDst : nDst+n])
			nSrc += n
			nDst += n
			if n < run {
				return DestinationTooSmall, nSrc, nDst
			}
			continue
		}
		v, s, k := scalar.PeekFirstUtf8(src[nSrc:])
		if v == scalar.Valid {
			m := mapScalar(s)
			n, ok := m.EncodeUtf8(dst[nDst:])
			if !ok {
				return DestinationTooSmall, nSrc, nDst
			}
			nSrc += k
			nDst += n
			continue
		}
		if v == scalar.Incomplete && !isFinalChunk {
			return NeedMoreData, nSrc, nDst
		}
		switch behavior {
		case Fail:
			return InvalidData, nSrc, nDst
		case ReplaceInvalidSequence:
			if len(dst)-nDst < len(replacementUtf8) {
				return DestinationTooSmall, nSrc, nDst
			}
			nDst += copy(dst[nDst:], replacementUtf8[:])
		case LeaveUnchanged:
			if len(dst)-nDst < k {
				return DestinationTooSmall, nSrc, nDst
			}
			nDst += copy(dst[nDst:], src[nSrc:nSrc+k])
		}
		nSrc += k
	}
	return Done, nSrc, nDst
}
