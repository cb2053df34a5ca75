// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scalar

import (
	"strconv"
	"unicode"
)

// Category is a Unicode general category.
type Category uint8

const (
	UppercaseLetter Category = iota
	LowercaseLetter
	TitlecaseLetter
	ModifierLetter
	OtherLetter
	NonSpacingMark
	SpacingCombiningMark
	EnclosingMark
	DecimalDigitNumber
	LetterNumber
	OtherNumber
	SpaceSeparator
	LineSeparator
	ParagraphSeparator
	Control
	Format
	Surrogate
	PrivateUse
	ConnectorPunctuation
	DashPunctuation
	OpenPunctuation
	ClosePunctuation
	InitialQuotePunctuation
	FinalQuotePunctuation
	OtherPunctuation
	MathSymbol
	CurrencySymbol
	ModifierSymbol
	OtherSymbol
	OtherNotAssigned
)

var categoryNames = [...]string{
	"Lu", "Ll", "Lt", "Lm", "Lo",
	"Mn", "Mc", "Me",
	"Nd", "Nl", "No",
	"Zs", "Zl", "Zp",
	"Cc", "Cf", "Cs", "Co",
	"Pc", "Pd", "Ps", "Pe", "Pi", "Pf", "Po",
	"Sm", "Sc", "Sk", "So",
	"Cn",
}

// String returns the two-letter Unicode abbreviation of c.
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Category(" + strconv.Itoa(int(c)) + ")"
}

// categoryTables lists the range tables in Category order. Surrogate is nil:
// a Value is never a surrogate.
var categoryTables = [...]*unicode.RangeTable{
	UppercaseLetter:         unicode.Lu,
	LowercaseLetter:         unicode.Ll,
	TitlecaseLetter:         unicode.Lt,
	ModifierLetter:          unicode.Lm,
	OtherLetter:             unicode.Lo,
	NonSpacingMark:          unicode.Mn,
	SpacingCombiningMark:    unicode.Mc,
	EnclosingMark:           unicode.Me,
	DecimalDigitNumber:      unicode.Nd,
	LetterNumber:            unicode.Nl,
	OtherNumber:             unicode.No,
	SpaceSeparator:          unicode.Zs,
	LineSeparator:           unicode.Zl,
	ParagraphSeparator:      unicode.Zp,
	Control:                 unicode.Cc,
	Format:                  unicode.Cf,
	Surrogate:               nil,
	PrivateUse:              unicode.Co,
	ConnectorPunctuation:    unicode.Pc,
	DashPunctuation:         unicode.Pd,
	OpenPunctuation:         unicode.Ps,
	ClosePunctuation:        unicode.Pe,
	InitialQuotePunctuation: unicode.Pi,
	FinalQuotePunctuation:   unicode.Pf,
	OtherPunctuation:        unicode.Po,
	MathSymbol:              unicode.Sm,
	CurrencySymbol:          unicode.Sc,
	ModifierSymbol:          unicode.Sk,
	OtherSymbol:             unicode.So,
}

const (
	asciiIsWhiteSpaceFlag     = 0x80
	asciiIsLetterOrDigitFlag  = 0x40
	asciiCategoryMask         = 0x1F
	latin1NextLineWhitespace  = 0x85
	latin1NoBreakSpaceControl = 0xA0
)

// asciiCharInfo holds one byte per ASCII code point:
// bit 7 whitespace, bit 6 letter or digit, bits 0-4 the Category.
var asciiCharInfo = [128]byte{
	0x0E, 0x0E, 0x0E, 0x0E, 0x0E, 0x0E, 0x0E, 0x0E, 0x0E, 0x8E, 0x8E, 0x8E, 0x8E, 0x8E, 0x0E, 0x0E, // U+0000..U+000F
	0x0E, 0x0E, 0x0E, 0x0E, 0x0E, 0x0E, 0x0E, 0x0E, 0x0E, 0x0E, 0x0E, 0x0E, 0x0E, 0x0E, 0x0E, 0x0E, // U+0010..U+001F
	0x8B, 0x18, 0x18, 0x18, 0x1A, 0x18, 0x18, 0x18, 0x14, 0x15, 0x18, 0x19, 0x18, 0x13, 0x18, 0x18, // U+0020..U+002F
	0x48, 0x48, 0x48, 0x48, 0x48, 0x48, 0x48, 0x48, 0x48, 0x48, 0x18, 0x18, 0x19, 0x19, 0x19, 0x18, // U+0030..U+003F
	0x18, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, // U+0040..U+004F
	0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x14, 0x18, 0x15, 0x1B, 0x12, // U+0050..U+005F
	0x1B, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, // U+0060..U+006F
	0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x14, 0x19, 0x15, 0x19, 0x0E, // U+0070..U+007F
}

// Category returns the general category of s.
func (s Value) Category() Category {
	if s.IsAscii() {
		return Category(asciiCharInfo[s.v] & asciiCategoryMask)
	}
	r := rune(s.v)
	for c, t := range categoryTables {
		if t != nil && unicode.Is(t, r) {
			return Category(c)
		}
	}
	return OtherNotAssigned
}

// IsLetter reports whether s is in categories Lu, Ll, Lt, Lm or Lo.
func (s Value) IsLetter() bool {
	if s.IsAscii() {
		info := asciiCharInfo[s.v]
		return info&asciiIsLetterOrDigitFlag != 0 && Category(info&asciiCategoryMask) <= OtherLetter
	}
	return s.Category() <= OtherLetter
}

// IsDigit reports whether s is a decimal digit (Nd).
func (s Value) IsDigit() bool {
	if s.IsAscii() {
		return IsInRangeInclusive(s.v, '0', '9')
	}
	return unicode.Is(unicode.Nd, rune(s.v))
}

// IsLetterOrDigit reports whether s is a letter or a decimal digit.
func (s Value) IsLetterOrDigit() bool {
	if s.IsAscii() {
		return asciiCharInfo[s.v]&asciiIsLetterOrDigitFlag != 0
	}
	c := s.Category()
	return c <= OtherLetter || c == DecimalDigitNumber
}

// IsNumber reports whether s is in categories Nd, Nl or No.
func (s Value) IsNumber() bool {
	if s.IsAscii() {
		return IsInRangeInclusive(s.v, '0', '9')
	}
	c := s.Category()
	return c >= DecimalDigitNumber && c <= OtherNumber
}

// IsUpper reports whether s is an uppercase letter (Lu).
func (s Value) IsUpper() bool {
	if s.IsAscii() {
		return IsInRangeInclusive(s.v, 'A', 'Z')
	}
	return unicode.Is(unicode.Lu, rune(s.v))
}

// IsLower reports whether s is a lowercase letter (Ll).
func (s Value) IsLower() bool {
	if s.IsAscii() {
		return IsInRangeInclusive(s.v, 'a', 'z')
	}
	return unicode.Is(unicode.Ll, rune(s.v))
}

// IsPunctuation reports whether s is in one of the P* categories.
func (s Value) IsPunctuation() bool {
	c := s.Category()
	return c >= ConnectorPunctuation && c <= OtherPunctuation
}

// IsSymbol reports whether s is in one of the S* categories.
func (s Value) IsSymbol() bool {
	c := s.Category()
	return c >= MathSymbol && c <= OtherSymbol
}

// IsSeparator reports whether s is in categories Zs, Zl or Zp.
func (s Value) IsSeparator() bool {
	c := s.Category()
	return c >= SpaceSeparator && c <= ParagraphSeparator
}

// IsControl reports whether s is in [U+0000, U+001F] or [U+007F, U+009F].
//
// Adding 1 maps both ranges to [0x01, 0x20] and [0x80, 0xA0]; clearing bit 7
// folds the second onto the first.
func (s Value) IsControl() bool {
	return ((s.v + 1) &^ 0x80) <= 0x20
}

// IsWhiteSpace reports whether s is white space: the ASCII table entries,
// U+0085 and U+00A0, and categories Zs, Zl and Zp.
func (s Value) IsWhiteSpace() bool {
	if s.IsAscii() {
		return asciiCharInfo[s.v]&asciiIsWhiteSpaceFlag != 0
	}
	if s.v == latin1NextLineWhitespace || s.v == latin1NoBreakSpaceControl {
		return true
	}
	if s.v < 0x100 {
		return false
	}
	return s.IsSeparator()
}

// ToUpper returns the simple uppercase mapping of s.
func (s Value) ToUpper() Value {
	if s.IsAscii() {
		if IsInRangeInclusive(s.v, 'a', 'z') {
			return Value{s.v - 0x20}
		}
		return s
	}
	return Value{uint32(unicode.ToUpper(rune(s.v)))}
}

// ToLower returns the simple lowercase mapping of s.
func (s Value) ToLower() Value {
	if s.IsAscii() {
		if IsInRangeInclusive(s.v, 'A', 'Z') {
			return Value{s.v + 0x20}
		}
		return s
	}
	return Value{uint32(unicode.ToLower(rune(s.v)))}
}
