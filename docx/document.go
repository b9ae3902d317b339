// Package docx extracts text, tables, images and hyperlinks from Word
// (.docx) documents.
//
// [Open] parses the package into a [Document] handle. [Loader] wraps Open
// with extension and existence checks, and [Extractor] runs the four
// extraction operations against a loaded handle.
package docx

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"

	"github.com/tsawler/docextract/model"
	"github.com/tsawler/docextract/opc"
)

const defaultMainPart = "word/document.xml"

// Document is an opened DOCX package with its main part parsed.
type Document struct {
	pkg        *opc.Package
	mainPart   string
	paragraphs []Paragraph
	tables     []tableXML
}

// Paragraph is a body paragraph with its runs in order.
type Paragraph struct {
	Text string
	Runs []Run
}

// Run is a text run: its visible text and its raw inner markup.
type Run struct {
	Text   string
	Markup string
}

// Open opens a DOCX file and parses its main document part.
func Open(filename string) (*Document, error) {
	pkg, err := opc.Open(filename)
	if err != nil {
		return nil, err
	}

	d := &Document{pkg: pkg, mainPart: mainPartName(pkg)}
	if err := d.parse(); err != nil {
		pkg.Close()
		return nil, err
	}
	return d, nil
}

// Close releases the underlying package.
func (d *Document) Close() error {
	return d.pkg.Close()
}

// MainPart returns the name of the main document part.
func (d *Document) MainPart() string {
	return d.mainPart
}

// Paragraphs returns the body paragraphs in document order.
func (d *Document) Paragraphs() []Paragraph {
	return d.paragraphs
}

// Tables returns the body tables in document order, cells trimmed.
func (d *Document) Tables() []model.Table {
	tables := make([]model.Table, 0, len(d.tables))
	for _, tbl := range d.tables {
		rows := make([][]string, 0, len(tbl.Rows))
		for _, tr := range tbl.Rows {
			cells := make([]string, 0, len(tr.Cells))
			for _, tc := range tr.Cells {
				cells = append(cells, cellText(tc))
			}
			rows = append(rows, cells)
		}
		tables = append(tables, model.NewTable(rows))
	}
	return tables
}

// Relationships returns the main part's relationships. A malformed
// relationships part yields none.
func (d *Document) Relationships() []opc.Relationship {
	rels, err := d.pkg.Relationships(d.mainPart)
	if err != nil {
		return nil
	}
	return rels
}

// Image reads the part targeted by rel as an image. It reports false when
// the part is missing, empty, or has no usable content type.
func (d *Document) Image(rel opc.Relationship) (model.Image, bool) {
	if rel.IsExternal() {
		return model.Image{}, false
	}
	name := rel.PartName()
	data, err := d.pkg.ReadPart(name)
	if err != nil {
		return model.Image{}, false
	}
	img, ok := model.NewImage(data, d.pkg.ContentType(name))
	if !ok {
		return model.Image{}, false
	}
	img.Name = path.Base(name)
	return img, true
}

func (d *Document) parse() error {
	data, err := d.pkg.ReadPart(d.mainPart)
	if err != nil {
		return fmt.Errorf("missing required file: %s", d.mainPart)
	}

	var doc documentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshaling %s: %w", d.mainPart, err)
	}
	if doc.Body == nil {
		return nil
	}

	d.paragraphs = make([]Paragraph, 0, len(doc.Body.Paragraphs))
	for _, p := range doc.Body.Paragraphs {
		d.paragraphs = append(d.paragraphs, newParagraph(p))
	}
	d.tables = doc.Body.Tables
	return nil
}

func newParagraph(p paragraphXML) Paragraph {
	para := Paragraph{Runs: make([]Run, 0, len(p.Runs))}
	var sb strings.Builder
	for _, r := range p.Runs {
		text := runText(r.Raw)
		sb.WriteString(text)
		para.Runs = append(para.Runs, Run{Text: text, Markup: r.Raw})
	}
	para.Text = sb.String()
	return para
}

// cellText joins the cell's paragraphs with newlines.
func cellText(tc tableCellXML) string {
	parts := make([]string, 0, len(tc.Paragraphs))
	for _, p := range tc.Paragraphs {
		parts = append(parts, newParagraph(p).Text)
	}
	return strings.Join(parts, "\n")
}

// mainPartName finds the officeDocument target in the package
// relationships, falling back to word/document.xml.
func mainPartName(pkg *opc.Package) string {
	rels, err := pkg.Relationships("")
	if err != nil {
		return defaultMainPart
	}
	for _, rel := range rels {
		if rel.Type == opc.RelTypeOfficeDocument && !rel.IsExternal() {
			name := rel.PartName()
			if pkg.Has(name) {
				return name
			}
		}
	}
	return defaultMainPart
}
