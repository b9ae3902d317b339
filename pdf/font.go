package pdf

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	textunicode "golang.org/x/text/encoding/unicode"
)

// fontDecoder turns the bytes of a shown string into text for one font.
//
// Decoding follows the font: a ToUnicode CMap when present, otherwise
// two-byte codes for composite (Type0) fonts, and for simple fonts a
// UTF-16 byte order mark or else the base encoding with its Differences.
type fontDecoder struct {
	toUnicode   *cmap
	twoByte     bool
	base        *charmap.Charmap
	differences map[byte]rune
}

// winAnsi decodes strings shown without a known font.
var winAnsi = &fontDecoder{base: charmap.Windows1252}

var utf16BE = textunicode.UTF16(textunicode.BigEndian, textunicode.ExpectBOM)

// baseEncoding returns the charmap for a predefined simple encoding.
// StandardEncoding differs from WinAnsi only in punctuation outside ASCII,
// so WinAnsi stands in for it and for unknown names.
func baseEncoding(name string) *charmap.Charmap {
	if name == "MacRomanEncoding" {
		return charmap.Macintosh
	}
	return charmap.Windows1252
}

// setDifferences applies a Differences array: a code followed by the glyph
// names of consecutive codes, repeated. Names without a known Unicode
// value are skipped.
func (f *fontDecoder) setDifferences(diffs []any) {
	code := -1
	for _, item := range diffs {
		switch v := item.(type) {
		case int:
			code = v
		case string:
			if code < 0 || code > 255 {
				continue
			}
			if r, ok := glyphRune(v); ok {
				if f.differences == nil {
					f.differences = make(map[byte]rune)
				}
				f.differences[byte(code)] = r
			}
			code++
		}
	}
}

func (f *fontDecoder) decode(s pdfString) string {
	if f == nil {
		f = winAnsi
	}

	var text string
	switch {
	case f.toUnicode != nil:
		width := 1
		if f.twoByte {
			width = 2
		}
		text = f.toUnicode.decode(s, width, f.unmapped)
	case f.twoByte:
		text = identityText(s)
	case len(s) >= 2 && s[0] == 0xFE && s[1] == 0xFF:
		out, err := utf16BE.NewDecoder().Bytes(s)
		if err != nil {
			return ""
		}
		text = string(out)
	default:
		text = f.simple(s)
	}

	return strings.Map(func(r rune) rune {
		if r != '\t' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}

// unmapped decodes a code the ToUnicode map lacks. Single-byte codes fall
// back to the simple encoding; glyph ids of composite fonts carry no text.
func (f *fontDecoder) unmapped(code []byte) string {
	if len(code) == 1 && !f.twoByte {
		return f.simple(code)
	}
	return ""
}

func (f *fontDecoder) simple(s []byte) string {
	base := f.base
	if base == nil {
		base = charmap.Windows1252
	}

	var sb strings.Builder
	for _, c := range s {
		if r, ok := f.differences[c]; ok {
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(base.DecodeByte(c))
	}
	return sb.String()
}

// identityText reads two-byte codes as Unicode values, the best guess for
// a composite font without a ToUnicode map.
func identityText(s []byte) string {
	var sb strings.Builder
	for i := 0; i+1 < len(s); i += 2 {
		sb.WriteRune(rune(codeValue(s[i : i+2])))
	}
	return sb.String()
}

// glyphNames maps the Adobe glyph names found in Differences arrays of
// Latin text fonts. Single-letter names map to themselves and uniXXXX and
// uXXXX names carry their code point.
var glyphNames = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"parenleft": '(', "parenright": ')', "asterisk": '*', "plus": '+',
	"comma": ',', "hyphen": '-', "period": '.', "slash": '/',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"colon": ':', "semicolon": ';', "less": '<', "equal": '=',
	"greater": '>', "question": '?', "at": '@', "bracketleft": '[',
	"backslash": '\\', "bracketright": ']', "asciicircum": '^',
	"underscore": '_', "grave": '`', "braceleft": '{', "bar": '|',
	"braceright": '}', "asciitilde": '~',
	"quoteleft": '‘', "quoteright": '’',
	"quotedblleft": '“', "quotedblright": '”',
	"quotesinglbase": '‚', "quotedblbase": '„',
	"endash": '–', "emdash": '—', "bullet": '•',
	"ellipsis": '…', "dagger": '†', "daggerdbl": '‡',
	"Euro": '€', "trademark": '™', "copyright": '©',
	"registered": '®', "degree": '°', "section": '§',
	"paragraph": '¶', "minus": '−', "fi": 'ﬁ', "fl": 'ﬂ',
	"ff": 'ﬀ', "ffi": 'ﬃ', "ffl": 'ﬄ', "nbspace": '\u00a0',
	"eacute": 'é', "egrave": 'è', "ecircumflex": 'ê', "agrave": 'à',
	"ccedilla": 'ç', "udieresis": 'ü', "odieresis": 'ö', "adieresis": 'ä',
	"germandbls": 'ß',
}

func glyphRune(name string) (rune, bool) {
	if r, ok := glyphNames[name]; ok {
		return r, true
	}
	if len(name) == 1 {
		c := name[0]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			return rune(c), true
		}
	}

	var hex string
	switch {
	case strings.HasPrefix(name, "uni") && len(name) == 7:
		hex = name[3:]
	case strings.HasPrefix(name, "u") && len(name) >= 5 && len(name) <= 7:
		hex = name[1:]
	default:
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || v > unicode.MaxRune {
		return 0, false
	}
	return rune(v), true
}
