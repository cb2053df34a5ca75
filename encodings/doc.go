// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package encodings maps encoding names and Windows code pages to encoding
// metadata and engines.
//
// [Lookup] resolves web names and aliases case-insensitively. [Get] and
// [GetCodePage] return the built-in engines of
// [code.hybscloud.com/corelib/transcode] (UTF-8, UTF-16LE, UTF-16BE and
// US-ASCII). [Text] returns a golang.org/x/text encoding for any registered
// name, serving the built-ins through [transcode.Text] and the rest through
// the IANA index.
package encodings
