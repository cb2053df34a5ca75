// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package encodings

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"code.hybscloud.com/corelib/internal/ascii"
	"code.hybscloud.com/corelib/transcode"
)

var (
	// ErrUnknownEncoding is returned for names and code pages not in the table.
	ErrUnknownEncoding = errors.New("encodings: unknown encoding")
	// ErrNoEngine is returned by Get for registered encodings without a
	// built-in engine. Text may still serve them.
	ErrNoEngine = errors.New("encodings: no built-in engine")
)

// lookups caches normalized name -> code page after the first successful
// search. Keys are registered aliases only, so it stays bounded.
var lookups sync.Map

// Lookup resolves a web name or alias, ignoring ASCII case and surrounding
// white space.
func Lookup(name string) (Info, bool) {
	key := ascii.LowerString(strings.TrimSpace(name))
	if cp, ok := lookups.Load(key); ok {
		return ByCodePage(cp.(int))
	}
	i, found := slices.BinarySearchFunc(aliases, key, func(a alias, k string) int {
		return strings.Compare(a.name, k)
	})
	if !found {
		return Info{}, false
	}
	cp := aliases[i].codePage
	lookups.Store(key, cp)
	return ByCodePage(cp)
}

// ByCodePage returns the entry for cp.
func ByCodePage(cp int) (Info, bool) {
	i, found := slices.BinarySearchFunc(infos, cp, func(in Info, cp int) int { return in.CodePage - cp })
	if !found {
		return Info{}, false
	}
	return infos[i], true
}

// Names returns the web names of all registered encodings, sorted.
func Names() []string {
	names := make([]string, len(infos))
	for i, in := range infos {
		names[i] = in.WebName
	}
	slices.Sort(names)
	return names
}

var (
	builtinOnce sync.Once
	builtins    map[int]*transcode.Encoding
)

func builtin(cp int) (*transcode.Encoding, bool) {
	builtinOnce.Do(func() {
		builtins = map[int]*transcode.Encoding{
			transcode.CodePageUTF8:    transcode.UTF8(transcode.UTF8Options{}),
			transcode.CodePageUTF16LE: transcode.UTF16(transcode.UTF16Options{}),
			transcode.CodePageUTF16BE: transcode.UTF16(transcode.UTF16Options{BigEndian: true}),
			transcode.CodePageASCII:   transcode.ASCII(),
		}
	})
	e, ok := builtins[cp]
	return e, ok
}

// Get returns the built-in engine registered under name.
func Get(name string) (*transcode.Encoding, error) {
	in, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return GetCodePage(in.CodePage)
}

// GetCodePage returns the built-in engine for cp.
func GetCodePage(cp int) (*transcode.Encoding, error) {
	if e, ok := builtin(cp); ok {
		return e, nil
	}
	if _, ok := ByCodePage(cp); !ok {
		return nil, fmt.Errorf("%w: code page %d", ErrUnknownEncoding, cp)
	}
	return nil, fmt.Errorf("%w: code page %d", ErrNoEngine, cp)
}

// textNames substitutes supersets x/text implements for registered
// encodings it does not.
var textNames = map[int]string{
	936: "gbk",
	949: "euc-kr",
}

// Text returns an [encoding.Encoding] converting between name and UTF-8.
// Built-in engines are adapted through [transcode.Text]; every other
// registered encoding comes from the IANA index of golang.org/x/text.
func Text(name string) (encoding.Encoding, error) {
	in, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	if e, ok := builtin(in.CodePage); ok {
		return transcode.Text(e), nil
	}
	iana := in.WebName
	if sub, ok := textNames[in.CodePage]; ok {
		iana = sub
	}
	e, err := ianaindex.IANA.Encoding(iana)
	if err != nil {
		return nil, fmt.Errorf("encodings: %s: %w", in.WebName, err)
	}
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoEngine, in.WebName)
	}
	Logger().Debug("encoding served by x/text",
		zap.String("name", in.WebName),
		zap.String("iana", iana),
		zap.Int("code_page", in.CodePage))
	return e, nil
}
