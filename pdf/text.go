package pdf

import (
	"strings"
	"unicode"
)

// Run is one text-showing operation on a page: its decoded text and the
// operation's source text.
type Run struct {
	Text   string
	Markup string
}

// kerningSpace is the TJ adjustment, in thousandths of an em, beyond
// which a gap is read as a space.
const kerningSpace = 200

// textBuilder lays out runs as lines. Line breaks come from text
// positioning operators that move vertically.
type textBuilder struct {
	lines []string
	line  strings.Builder
	runs  []Run
	lastY float64
	hasY  bool

	fonts map[string]*fontDecoder
	font  *fontDecoder
	saved []*fontDecoder // font at each q
}

// pageText decodes a content stream into its runs and its text, one line
// per text line with trailing spaces and empty lines removed. Strings are
// decoded with the font selected by Tf from fonts; unknown fonts decode
// as WinAnsi.
func pageText(data []byte, fonts map[string]*fontDecoder) (string, []Run) {
	ops, _ := parseContent(data)

	b := &textBuilder{fonts: fonts}
	for _, op := range ops {
		b.apply(op)
	}
	b.newline()
	return strings.Join(b.lines, "\n"), b.runs
}

func (b *textBuilder) apply(op operation) {
	switch op.operator {
	case "q":
		b.saved = append(b.saved, b.font)
	case "Q":
		if n := len(b.saved); n > 0 {
			b.font = b.saved[n-1]
			b.saved = b.saved[:n-1]
		}
	case "Tf":
		if len(op.operands) == 2 {
			if n, ok := op.operands[0].(name); ok {
				b.font = b.fonts[string(n)]
			}
		}
	case "BT":
		b.hasY = false
		b.newline()
	case "T*":
		b.newline()
	case "Td", "TD":
		if len(op.operands) == 2 {
			if ty, ok := op.operands[1].(float64); ok && ty != 0 {
				b.newline()
				return
			}
		}
		b.space()
	case "Tm":
		if len(op.operands) == 6 {
			if y, ok := op.operands[5].(float64); ok {
				if b.hasY && y != b.lastY {
					b.newline()
				} else {
					b.space()
				}
				b.lastY, b.hasY = y, true
			}
		}
	case "Tj":
		b.show(op, b.lastString(op.operands))
	case "'":
		b.newline()
		b.show(op, b.lastString(op.operands))
	case "\"":
		b.newline()
		b.show(op, b.lastString(op.operands))
	case "TJ":
		b.show(op, b.joinTJ(op.operands))
	}
}

func (b *textBuilder) show(op operation, text string) {
	b.line.WriteString(text)
	b.runs = append(b.runs, Run{Text: text, Markup: string(op.raw)})
}

func (b *textBuilder) space() {
	s := b.line.String()
	if s != "" && !strings.HasSuffix(s, " ") {
		b.line.WriteByte(' ')
	}
}

func (b *textBuilder) newline() {
	s := strings.TrimRightFunc(b.line.String(), unicode.IsSpace)
	if s != "" {
		b.lines = append(b.lines, s)
	}
	b.line.Reset()
}

func (b *textBuilder) lastString(operands []any) string {
	if len(operands) == 0 {
		return ""
	}
	if s, ok := operands[len(operands)-1].(pdfString); ok {
		return b.font.decode(s)
	}
	return ""
}

// joinTJ concatenates the strings of a TJ array. Large negative
// adjustments move the next glyph right and are read as word gaps.
func (b *textBuilder) joinTJ(operands []any) string {
	if len(operands) == 0 {
		return ""
	}
	arr, ok := operands[len(operands)-1].([]any)
	if !ok {
		return ""
	}

	var sb strings.Builder
	for _, el := range arr {
		switch v := el.(type) {
		case pdfString:
			sb.WriteString(b.font.decode(v))
		case float64:
			if v < -kerningSpace && sb.Len() > 0 && !strings.HasSuffix(sb.String(), " ") {
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String()
}
