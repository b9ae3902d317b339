package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// operation is a single content stream operator with the operands that
// precede it and the source bytes from the first operand through the
// operator.
type operation struct {
	operator string
	operands []any
	raw      []byte
}

// Operand values are float64, bool, nil, name, pdfString, []any and
// map[string]any.
type (
	name      string
	pdfString []byte
)

var errUnclosed = errors.New("unexpected end of stream")

// contentParser splits a content stream into operations. It is lenient:
// unexpected bytes are skipped, and a truncated stream yields the
// operations read so far along with the error.
type contentParser struct {
	data     []byte
	pos      int
	ops      []operation
	operands []any
	start    int // start of the pending operation's source text
}

func parseContent(data []byte) ([]operation, error) {
	p := &contentParser{data: data, start: -1}
	for {
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return p.ops, nil
		}
		if err := p.parseNext(); err != nil {
			return p.ops, err
		}
	}
}

func (p *contentParser) parseNext() error {
	if p.start < 0 {
		p.start = p.pos
	}

	c := p.data[p.pos]
	if isRegular(c) && !isNumberStart(c) {
		return p.parseKeyword()
	}

	operand, err := p.parseOperand()
	if err != nil {
		return fmt.Errorf("at position %d: %w", p.pos, err)
	}
	if operand != skipped {
		p.operands = append(p.operands, operand)
	}
	return nil
}

// parseKeyword reads an operator, or one of the keywords true, false and
// null, which are operands.
func (p *contentParser) parseKeyword() error {
	start := p.pos
	for p.pos < len(p.data) && isRegular(p.data[p.pos]) {
		p.pos++
	}
	word := string(p.data[start:p.pos])

	switch word {
	case "true", "false":
		p.operands = append(p.operands, word == "true")
		return nil
	case "null":
		p.operands = append(p.operands, nil)
		return nil
	}

	p.ops = append(p.ops, operation{
		operator: word,
		operands: p.operands,
		raw:      p.data[p.start:p.pos],
	})
	p.operands = nil
	p.start = -1

	if word == "ID" {
		p.skipInlineImage()
	}
	return nil
}

// skipInlineImage advances past inline image data to the EI operator.
func (p *contentParser) skipInlineImage() {
	if p.pos < len(p.data) && isWhitespace(p.data[p.pos]) {
		p.pos++
	}
	for i := p.pos; i+1 < len(p.data); i++ {
		if p.data[i] != 'E' || p.data[i+1] != 'I' {
			continue
		}
		before := i == 0 || isWhitespace(p.data[i-1])
		after := i+2 >= len(p.data) || isWhitespace(p.data[i+2])
		if before && after {
			p.pos = i + 2
			return
		}
	}
	p.pos = len(p.data)
}

// skipped marks input that produced no operand, such as a comment.
var skipped = new(struct{})

func (p *contentParser) parseOperand() (any, error) {
	c := p.data[p.pos]
	switch {
	case isNumberStart(c):
		return p.parseNumber()
	case c == '(':
		return p.parseString()
	case c == '<' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '<':
		return p.parseDict()
	case c == '<':
		return p.parseHexString()
	case c == '/':
		return p.parseName(), nil
	case c == '[':
		return p.parseArray()
	case c == '%':
		for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
			p.pos++
		}
		return skipped, nil
	default:
		// Stray delimiter.
		p.pos++
		return skipped, nil
	}
}

func (p *contentParser) parseNumber() (any, error) {
	start := p.pos
	if p.data[p.pos] == '+' || p.data[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if (c < '0' || c > '9') && c != '.' {
			break
		}
		p.pos++
	}

	s := string(p.data[start:p.pos])
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Lone signs and dots read as zero.
		return 0.0, nil
	}
	return v, nil
}

// parseString parses a literal string (...) with escape sequence handling.
func (p *contentParser) parseString() (any, error) {
	p.pos++ // skip '('

	var result bytes.Buffer
	depth := 1
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++

		switch c {
		case '\\':
			if p.pos >= len(p.data) {
				return nil, errUnclosed
			}
			p.unescape(&result)
		case '(':
			depth++
			result.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return pdfString(result.Bytes()), nil
			}
			result.WriteByte(c)
		default:
			result.WriteByte(c)
		}
	}
	return nil, errUnclosed
}

func (p *contentParser) unescape(out *bytes.Buffer) {
	next := p.data[p.pos]
	p.pos++

	switch next {
	case 'n':
		out.WriteByte('\n')
	case 'r':
		out.WriteByte('\r')
	case 't':
		out.WriteByte('\t')
	case 'b':
		out.WriteByte('\b')
	case 'f':
		out.WriteByte('\f')
	case '\r':
		// Line continuation.
		if p.pos < len(p.data) && p.data[p.pos] == '\n' {
			p.pos++
		}
	case '\n':
	case '0', '1', '2', '3', '4', '5', '6', '7':
		v := int(next - '0')
		for i := 0; i < 2 && p.pos < len(p.data); i++ {
			d := p.data[p.pos]
			if d < '0' || d > '7' {
				break
			}
			v = v*8 + int(d-'0')
			p.pos++
		}
		out.WriteByte(byte(v))
	default:
		// Covers \( \) \\ and unknown escapes, which drop the backslash.
		out.WriteByte(next)
	}
}

// parseHexString parses <...>. Whitespace is ignored and an odd final
// digit is padded with 0.
func (p *contentParser) parseHexString() (any, error) {
	p.pos++ // skip '<'

	var result []byte
	var hi byte
	odd := false
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++

		if c == '>' {
			if odd {
				result = append(result, hi<<4)
			}
			return pdfString(result), nil
		}
		if !isHexDigit(c) {
			continue
		}
		if odd {
			result = append(result, hi<<4|hexValue(c))
		} else {
			hi = hexValue(c)
		}
		odd = !odd
	}
	return nil, errUnclosed
}

// parseName parses /Name with # escapes.
func (p *contentParser) parseName() any {
	p.pos++ // skip '/'

	var result bytes.Buffer
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		if c == '#' && p.pos+2 < len(p.data) && isHexDigit(p.data[p.pos+1]) && isHexDigit(p.data[p.pos+2]) {
			result.WriteByte(hexValue(p.data[p.pos+1])<<4 | hexValue(p.data[p.pos+2]))
			p.pos += 3
			continue
		}
		result.WriteByte(c)
		p.pos++
	}
	return name(result.String())
}

func (p *contentParser) parseArray() (any, error) {
	p.pos++ // skip '['

	arr := make([]any, 0)
	for {
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return nil, errUnclosed
		}

		c := p.data[p.pos]
		if c == ']' {
			p.pos++
			return arr, nil
		}
		if isRegular(c) && !isNumberStart(c) {
			// Keywords inside arrays are only true, false and null.
			start := p.pos
			for p.pos < len(p.data) && isRegular(p.data[p.pos]) {
				p.pos++
			}
			switch string(p.data[start:p.pos]) {
			case "true":
				arr = append(arr, true)
			case "false":
				arr = append(arr, false)
			default:
				arr = append(arr, nil)
			}
			continue
		}

		v, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		if v != skipped {
			arr = append(arr, v)
		}
	}
}

// parseDict parses <<...>>, found in inline marked-content properties.
func (p *contentParser) parseDict() (any, error) {
	p.pos += 2 // skip '<<'

	dict := make(map[string]any)
	for {
		p.skipWhitespace()
		if p.pos+1 >= len(p.data) {
			return nil, errUnclosed
		}
		if p.data[p.pos] == '>' && p.data[p.pos+1] == '>' {
			p.pos += 2
			return dict, nil
		}
		if p.data[p.pos] != '/' {
			p.pos++
			continue
		}

		key := p.parseName().(name)
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return nil, errUnclosed
		}
		if c := p.data[p.pos]; isRegular(c) && !isNumberStart(c) {
			start := p.pos
			for p.pos < len(p.data) && isRegular(p.data[p.pos]) {
				p.pos++
			}
			dict[string(key)] = string(p.data[start:p.pos])
			continue
		}
		v, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		dict[string(key)] = v
	}
}

func (p *contentParser) skipWhitespace() {
	for p.pos < len(p.data) && isWhitespace(p.data[p.pos]) {
		p.pos++
	}
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

// isDelimiter reports whether c is a PDF delimiter character.
func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}

// isRegular reports whether c can be part of an operator or number.
func isRegular(c byte) bool {
	return !isWhitespace(c) && !isDelimiter(c)
}

func isNumberStart(c byte) bool {
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
