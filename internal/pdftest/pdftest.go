// Package pdftest assembles small PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"unicode/utf16"
)

// Page describes one page. Content is the raw content stream; font F1
// (Helvetica) is always available. When Image is set it is available as
// /Im1.
//
// ToUnicode adds /F2, a Type0 font with Identity-H encoding and the given
// ToUnicode CMap. Differences adds /F3, Helvetica with a WinAnsi based
// encoding and the given Differences array body.
type Page struct {
	Content     string
	Links       []string
	Image       *JPEG
	ToUnicode   string
	Differences string
}

// JPEG is a DCT-encoded image XObject.
type JPEG struct {
	Data          []byte
	Width, Height int
}

// Build returns a complete PDF with the given pages and a correct cross
// reference table.
func Build(pages ...Page) []byte {
	w := &writer{}
	w.buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	// Object numbers: 1 catalog, 2 page tree, 3 font, then page objects.
	next := 4
	type layout struct {
		page, content, image int
		cidFont, simpleFont  int
		annots               []int
	}
	layouts := make([]layout, len(pages))
	for i, p := range pages {
		l := layout{page: next, content: next + 1}
		next += 2
		if p.Image != nil {
			l.image = next
			next++
		}
		if p.ToUnicode != "" {
			// Type0, descendant, descriptor, ToUnicode stream.
			l.cidFont = next
			next += 4
		}
		if p.Differences != "" {
			l.simpleFont = next
			next++
		}
		for range p.Links {
			l.annots = append(l.annots, next)
			next++
		}
		layouts[i] = l
	}
	w.offsets = make([]int, next)

	kids := make([]string, len(pages))
	for i, l := range layouts {
		kids[i] = fmt.Sprintf("%d 0 R", l.page)
	}
	w.object(1, "<< /Type /Catalog /Pages 2 0 R >>")
	w.object(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	w.object(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, p := range pages {
		l := layouts[i]

		fonts := "/F1 3 0 R"
		if l.cidFont != 0 {
			fonts += fmt.Sprintf(" /F2 %d 0 R", l.cidFont)
		}
		if l.simpleFont != 0 {
			fonts += fmt.Sprintf(" /F3 %d 0 R", l.simpleFont)
		}
		resources := "/Font << " + fonts + " >>"
		if p.Image != nil {
			resources += fmt.Sprintf(" /XObject << /Im1 %d 0 R >>", l.image)
		}
		dict := fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << %s >> /Contents %d 0 R", resources, l.content)
		if len(l.annots) > 0 {
			refs := make([]string, len(l.annots))
			for j, nr := range l.annots {
				refs[j] = fmt.Sprintf("%d 0 R", nr)
			}
			dict += fmt.Sprintf(" /Annots [%s]", strings.Join(refs, " "))
		}
		w.object(l.page, dict+" >>")
		w.stream(l.content, "", []byte(p.Content))

		if p.Image != nil {
			w.stream(l.image, fmt.Sprintf("/Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /DCTDecode",
				p.Image.Width, p.Image.Height), p.Image.Data)
		}
		if l.cidFont != 0 {
			nr := l.cidFont
			w.object(nr, fmt.Sprintf("<< /Type /Font /Subtype /Type0 /BaseFont /ABCDEF+Arial /Encoding /Identity-H /DescendantFonts [%d 0 R] /ToUnicode %d 0 R >>", nr+1, nr+3))
			w.object(nr+1, fmt.Sprintf("<< /Type /Font /Subtype /CIDFontType2 /BaseFont /ABCDEF+Arial /CIDSystemInfo << /Registry (Adobe) /Ordering (Identity) /Supplement 0 >> /FontDescriptor %d 0 R /DW 1000 /CIDToGIDMap /Identity >>", nr+2))
			w.object(nr+2, "<< /Type /FontDescriptor /FontName /ABCDEF+Arial /Flags 32 /FontBBox [-665 -325 2000 1040] /ItalicAngle 0 /Ascent 905 /Descent -212 /CapHeight 716 /StemV 80 >>")
			w.stream(nr+3, "", []byte(p.ToUnicode))
		}
		if l.simpleFont != 0 {
			w.object(l.simpleFont, fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding << /Type /Encoding /BaseEncoding /WinAnsiEncoding /Differences [%s] >> >>", p.Differences))
		}
		for j, uri := range p.Links {
			rect := fmt.Sprintf("[72 %d 300 %d]", 700-j*20, 715-j*20)
			w.object(l.annots[j], fmt.Sprintf("<< /Type /Annot /Subtype /Link /Rect %s /Border [0 0 0] /A << /Type /Action /S /URI /URI %s >> >>",
				rect, literal(uri)))
		}
	}

	xref := w.buf.Len()
	fmt.Fprintf(&w.buf, "xref\n0 %d\n", next)
	w.buf.WriteString("0000000000 65535 f \n")
	for nr := 1; nr < next; nr++ {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", w.offsets[nr])
	}
	fmt.Fprintf(&w.buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", next, xref)
	return w.buf.Bytes()
}

// Write builds a PDF named name in a fresh temp dir and returns its path.
func Write(t testing.TB, name string, pages ...Page) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, Build(pages...), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// NewJPEG encodes a solid w x h image.
func NewJPEG(t testing.TB, w, h int) *JPEG {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	return &JPEG{Data: buf.Bytes(), Width: w, Height: h}
}

// TextContent returns a content stream that shows each line with Tj, one
// line below the other.
func TextContent(lines ...string) string {
	var sb strings.Builder
	sb.WriteString("BT\n/F1 12 Tf\n72 720 Td\n14 TL\n")
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("T*\n")
		}
		sb.WriteString(literal(line))
		sb.WriteString(" Tj\n")
	}
	sb.WriteString("ET\n")
	return sb.String()
}

// GlyphText encodes s as two-byte glyph ids numbered the way subset
// TrueType fonts commonly number ASCII glyphs (space is 3). It returns
// the hex string operand and the codes it uses, for ToUnicodeCMap.
func GlyphText(s string) (string, map[uint16]rune) {
	codes := make(map[uint16]rune)
	var sb strings.Builder
	sb.WriteByte('<')
	for _, r := range s {
		code := uint16(r) - 29
		codes[code] = r
		fmt.Fprintf(&sb, "%04X", code)
	}
	sb.WriteByte('>')
	return sb.String(), codes
}

// ToUnicodeCMap returns a ToUnicode CMap with a two-byte codespace and a
// bfchar entry for each code.
func ToUnicodeCMap(codes map[uint16]rune) string {
	keys := make([]int, 0, len(codes))
	for code := range codes {
		keys = append(keys, int(code))
	}
	sort.Ints(keys)

	var sb strings.Builder
	sb.WriteString("/CIDInit /ProcSet findresource begin\n12 dict begin\nbegincmap\n")
	sb.WriteString("/CIDSystemInfo << /Registry (Adobe) /Ordering (UCS) /Supplement 0 >> def\n")
	sb.WriteString("/CMapName /Adobe-Identity-UCS def\n/CMapType 2 def\n")
	sb.WriteString("1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n")
	fmt.Fprintf(&sb, "%d beginbfchar\n", len(keys))
	for _, code := range keys {
		fmt.Fprintf(&sb, "<%04X> <", code)
		for _, u := range utf16.Encode([]rune{codes[uint16(code)]}) {
			fmt.Fprintf(&sb, "%04X", u)
		}
		sb.WriteString(">\n")
	}
	sb.WriteString("endbfchar\nendcmap\nCMapName currentdict /CMap defineresource pop\nend\nend\n")
	return sb.String()
}

type writer struct {
	buf     bytes.Buffer
	offsets []int
}

func (w *writer) object(nr int, body string) {
	w.offsets[nr] = w.buf.Len()
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", nr, body)
}

func (w *writer) stream(nr int, entries string, data []byte) {
	w.offsets[nr] = w.buf.Len()
	fmt.Fprintf(&w.buf, "%d 0 obj\n<< %s /Length %d >>\nstream\n", nr, entries, len(data))
	w.buf.Write(data)
	w.buf.WriteString("\nendstream\nendobj\n")
}

// literal writes s as a PDF literal string.
func literal(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return "(" + r.Replace(s) + ")"
}
