package pdf

import (
	"strings"

	textunicode "golang.org/x/text/encoding/unicode"
)

// cmap maps character codes to Unicode, as read from a ToUnicode stream.
type cmap struct {
	// Codespace ranges give the byte length of each code.
	codespaces []codespace

	// Single character mappings: charCode -> unicode string
	chars map[uint32]string

	ranges []cmapRange
}

type codespace struct {
	width     int
	low, high uint32
}

// cmapRange maps start..end to consecutive values counted from dst.
type cmapRange struct {
	start, end uint32
	dst        []rune
}

var utf16Codes = textunicode.UTF16(textunicode.BigEndian, textunicode.IgnoreBOM)

// parseCMap reads the codespace, bfchar and bfrange sections of a CMap.
// Entries that do not parse are skipped, so a damaged CMap still maps
// what it can.
func parseCMap(data []byte) *cmap {
	cm := &cmap{chars: make(map[uint32]string)}

	// CMap syntax shares the content stream tokens, so each section
	// arrives as the operands of its end keyword.
	ops, _ := parseContent(data)
	for _, op := range ops {
		switch op.operator {
		case "endcodespacerange":
			cm.addCodespaces(op.operands)
		case "endbfchar":
			cm.addChars(op.operands)
		case "endbfrange":
			cm.addRanges(op.operands)
		}
	}
	return cm
}

func (cm *cmap) addCodespaces(operands []any) {
	for i := 0; i+1 < len(operands); i += 2 {
		lo, ok1 := operands[i].(pdfString)
		hi, ok2 := operands[i+1].(pdfString)
		if !ok1 || !ok2 || len(lo) == 0 || len(lo) != len(hi) || len(lo) > 4 {
			continue
		}
		cm.codespaces = append(cm.codespaces, codespace{
			width: len(lo),
			low:   codeValue(lo),
			high:  codeValue(hi),
		})
	}
}

// addChars reads <srcCode> <dstUnicode> pairs.
func (cm *cmap) addChars(operands []any) {
	for i := 0; i+1 < len(operands); i += 2 {
		src, ok1 := operands[i].(pdfString)
		dst, ok2 := operands[i+1].(pdfString)
		if !ok1 || !ok2 || len(src) == 0 || len(src) > 4 {
			continue
		}
		if text := utf16Text(dst); text != "" {
			cm.chars[codeValue(src)] = text
		}
	}
}

// addRanges reads <start> <end> <dst> and <start> <end> [<u1> <u2> ...]
// triples.
func (cm *cmap) addRanges(operands []any) {
	for i := 0; i+2 < len(operands); i += 3 {
		lo, ok1 := operands[i].(pdfString)
		hi, ok2 := operands[i+1].(pdfString)
		if !ok1 || !ok2 || len(lo) == 0 || len(lo) > 4 || len(hi) > 4 {
			continue
		}
		start, end := codeValue(lo), codeValue(hi)
		if end < start {
			continue
		}

		switch dst := operands[i+2].(type) {
		case pdfString:
			runes := []rune(utf16Text(dst))
			if len(runes) == 0 {
				continue
			}
			cm.ranges = append(cm.ranges, cmapRange{start: start, end: end, dst: runes})
		case []any:
			code := start
			for _, el := range dst {
				if code > end {
					break
				}
				if s, ok := el.(pdfString); ok {
					if text := utf16Text(s); text != "" {
						cm.chars[code] = text
					}
				}
				code++
			}
		}
	}
}

// lookup returns the text for a character code.
func (cm *cmap) lookup(code uint32) (string, bool) {
	if text, ok := cm.chars[code]; ok {
		return text, true
	}
	for _, r := range cm.ranges {
		if code >= r.start && code <= r.end {
			runes := append([]rune(nil), r.dst...)
			runes[len(runes)-1] += rune(code - r.start)
			return string(runes), true
		}
	}
	return "", false
}

// codeWidth returns the byte length of the code starting data. Without a
// matching codespace the font's own width applies.
func (cm *cmap) codeWidth(data []byte, fallback int) int {
	for _, cs := range cm.codespaces {
		if cs.width > len(data) {
			continue
		}
		if v := codeValue(data[:cs.width]); v >= cs.low && v <= cs.high {
			return cs.width
		}
	}
	return fallback
}

// decode splits data into codes and maps each one. Unmapped codes go to
// unmapped, which returns "" to drop them.
func (cm *cmap) decode(data []byte, width int, unmapped func(code []byte) string) string {
	var sb strings.Builder
	for i := 0; i < len(data); {
		w := max(cm.codeWidth(data[i:], width), 1)
		if i+w > len(data) {
			w = len(data) - i
		}
		code := data[i : i+w]
		if text, ok := cm.lookup(codeValue(code)); ok {
			sb.WriteString(text)
		} else if unmapped != nil {
			sb.WriteString(unmapped(code))
		}
		i += w
	}
	return sb.String()
}

func codeValue(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

// utf16Text decodes a destination string. A single byte is taken as a
// Latin-1 character.
func utf16Text(b []byte) string {
	if len(b) == 1 {
		return string(rune(b[0]))
	}
	out, err := utf16Codes.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}
