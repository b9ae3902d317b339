package docx

import (
	"encoding/xml"
	"strings"
)

// documentXML represents the structure of word/document.xml
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *bodyXML `xml:"body"`
}

// bodyXML represents the document body.
// Note: Paragraphs and Tables are collected separately by xml.Unmarshal,
// so the relative order of paragraphs and tables is not kept.
type bodyXML struct {
	Paragraphs []paragraphXML `xml:"p"`
	Tables     []tableXML     `xml:"tbl"`
}

// paragraphXML represents a paragraph element (<w:p>).
// Runs holds every run in document order, including runs nested in
// hyperlinks, tracked insertions and smart tags.
type paragraphXML struct {
	Runs []runXML
}

// runContainers are paragraph children whose runs count as paragraph runs.
var runContainers = map[string]bool{
	"hyperlink":  true,
	"ins":        true,
	"smartTag":   true,
	"customXml":  true,
	"sdt":        true,
	"sdtContent": true,
	"fldSimple":  true,
}

// UnmarshalXML walks the paragraph's children in order so that runs
// inside hyperlinks keep their position relative to plain runs.
func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "r":
				var r runXML
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, r)
			case runContainers[t.Name.Local]:
				depth++
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// runXML represents a text run (<w:r>). Raw keeps the run's inner markup
// verbatim; visible text is derived from it by runText.
type runXML struct {
	Raw string `xml:",innerxml"`
}

// runText returns the visible text of a run's inner markup: <w:t> content,
// tabs, and line breaks, in order. Field instructions and deleted text
// are not visible and are dropped.
func runText(raw string) string {
	d := xml.NewDecoder(strings.NewReader("<r>" + raw + "</r>"))
	d.Strict = false

	var sb strings.Builder
	inText := false
	for {
		tok, err := d.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab", "ptab":
				sb.WriteString("\t")
			case "br", "cr":
				sb.WriteString("\n")
			case "noBreakHyphen":
				sb.WriteString("-")
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String()
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	XMLName xml.Name      `xml:"tbl"`
	Rows    []tableRowXML `xml:"tr"`
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	XMLName xml.Name       `xml:"tr"`
	Cells   []tableCellXML `xml:"tc"`
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	XMLName    xml.Name       `xml:"tc"`
	Paragraphs []paragraphXML `xml:"p"`
}
