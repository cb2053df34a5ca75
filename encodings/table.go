// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package encodings

// Flags describe where an encoding may be used.
type Flags uint8

const (
	BrowserDisplay Flags = 1 << iota
	BrowserSave
	MailNewsDisplay
	MailNewsSave
	SingleByte
)

// Has reports whether f includes all of g.
func (f Flags) Has(g Flags) bool { return f&g == g }

// Info describes one registered encoding.
type Info struct {
	CodePage    int
	WebName     string
	DisplayName string
	Flags       Flags
}

const (
	mimeFlags = BrowserDisplay | BrowserSave | MailNewsDisplay | MailNewsSave
)

// infos is sorted by code page.
var infos = []Info{
	{437, "ibm437", "OEM United States", SingleByte},
	{850, "ibm850", "Western European (DOS)", SingleByte},
	{866, "cp866", "Cyrillic (DOS)", SingleByte},
	{932, "shift_jis", "Japanese (Shift-JIS)", mimeFlags},
	{936, "gb2312", "Chinese Simplified (GB2312)", mimeFlags},
	{949, "ks_c_5601-1987", "Korean", mimeFlags},
	{950, "big5", "Chinese Traditional (Big5)", mimeFlags},
	{1200, "utf-16", "Unicode", 0},
	{1201, "utf-16BE", "Unicode (Big-Endian)", 0},
	{1250, "windows-1250", "Central European (Windows)", mimeFlags | SingleByte},
	{1251, "windows-1251", "Cyrillic (Windows)", mimeFlags | SingleByte},
	{1252, "windows-1252", "Western European (Windows)", mimeFlags | SingleByte},
	{1253, "windows-1253", "Greek (Windows)", mimeFlags | SingleByte},
	{1254, "windows-1254", "Turkish (Windows)", mimeFlags | SingleByte},
	{1255, "windows-1255", "Hebrew (Windows)", mimeFlags | SingleByte},
	{1256, "windows-1256", "Arabic (Windows)", mimeFlags | SingleByte},
	{1257, "windows-1257", "Baltic (Windows)", mimeFlags | SingleByte},
	{1258, "windows-1258", "Vietnamese (Windows)", mimeFlags | SingleByte},
	{10000, "macintosh", "Western European (Mac)", SingleByte},
	{20127, "us-ascii", "US-ASCII", MailNewsDisplay | MailNewsSave | SingleByte},
	{20866, "koi8-r", "Cyrillic (KOI8-R)", mimeFlags | SingleByte},
	{21866, "koi8-u", "Cyrillic (KOI8-U)", mimeFlags | SingleByte},
	{28591, "iso-8859-1", "Western European (ISO)", mimeFlags | SingleByte},
	{28592, "iso-8859-2", "Central European (ISO)", mimeFlags | SingleByte},
	{28595, "iso-8859-5", "Cyrillic (ISO)", mimeFlags | SingleByte},
	{28597, "iso-8859-7", "Greek (ISO)", mimeFlags | SingleByte},
	{28605, "iso-8859-15", "Latin 9 (ISO)", mimeFlags | SingleByte},
	{51932, "euc-jp", "Japanese (EUC)", mimeFlags},
	{51949, "euc-kr", "Korean (EUC)", mimeFlags},
	{52936, "hz-gb-2312", "Chinese Simplified (HZ)", mimeFlags},
	{54936, "gb18030", "Chinese Simplified (GB18030)", mimeFlags},
	{65001, "utf-8", "Unicode (UTF-8)", mimeFlags},
}

type alias struct {
	name     string
	codePage int
}

// aliases maps lower-case names to code pages. It is sorted by name.
var aliases = []alias{
	{"ansi_x3.4-1968", 20127},
	{"ansi_x3.4-1986", 20127},
	{"ascii", 20127},
	{"big5", 950},
	{"cn-big5", 950},
	{"cp1250", 1250},
	{"cp1251", 1251},
	{"cp1252", 1252},
	{"cp367", 20127},
	{"cp437", 437},
	{"cp819", 28591},
	{"cp850", 850},
	{"cp866", 866},
	{"cp936", 936},
	{"csascii", 20127},
	{"csbig5", 950},
	{"cseuckr", 51949},
	{"csisolatin1", 28591},
	{"csisolatin2", 28592},
	{"cskoi8r", 20866},
	{"csshiftjis", 932},
	{"euc-jp", 51932},
	{"euc-kr", 51949},
	{"gb18030", 54936},
	{"gb2312", 936},
	{"gbk", 936},
	{"hz-gb-2312", 52936},
	{"ibm367", 20127},
	{"ibm437", 437},
	{"ibm819", 28591},
	{"ibm850", 850},
	{"ibm866", 866},
	{"iso-10646-ucs-2", 1200},
	{"iso-8859-1", 28591},
	{"iso-8859-15", 28605},
	{"iso-8859-2", 28592},
	{"iso-8859-5", 28595},
	{"iso-8859-7", 28597},
	{"iso-ir-100", 28591},
	{"iso-ir-6", 20127},
	{"iso646-us", 20127},
	{"iso_646.irv:1991", 20127},
	{"iso_8859-1", 28591},
	{"koi8", 20866},
	{"koi8-r", 20866},
	{"koi8-u", 21866},
	{"ks_c_5601-1987", 949},
	{"l1", 28591},
	{"l2", 28592},
	{"latin1", 28591},
	{"latin2", 28592},
	{"macintosh", 10000},
	{"ms_kanji", 932},
	{"shift_jis", 932},
	{"sjis", 932},
	{"ucs-2", 1200},
	{"unicode", 1200},
	{"unicode-1-1-utf-8", 65001},
	{"unicode-2-0-utf-8", 65001},
	{"unicodefffe", 1201},
	{"us", 20127},
	{"us-ascii", 20127},
	{"utf-16", 1200},
	{"utf-16be", 1201},
	{"utf-16le", 1200},
	{"utf-8", 65001},
	{"windows-1250", 1250},
	{"windows-1251", 1251},
	{"windows-1252", 1252},
	{"windows-1253", 1253},
	{"windows-1254", 1254},
	{"windows-1255", 1255},
	{"windows-1256", 1256},
	{"windows-1257", 1257},
	{"windows-1258", 1258},
	{"x-mac-roman", 10000},
	{"x-sjis", 932},
	{"x-unicode20utf8", 65001},
}
