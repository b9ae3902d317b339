// Package pptx extracts text, tables, images and hyperlinks from
// PowerPoint presentations.
//
// Only the Office Open XML layout is parsed. Legacy binary .ppt files are
// accepted by [Loader.Validate] because the format is chosen by extension,
// but they fail to open with extract.ErrUnreadable.
package pptx

import (
	"encoding/xml"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/tsawler/docextract/model"
	"github.com/tsawler/docextract/opc"
)

const presentationPart = "ppt/presentation.xml"

// Document is an opened presentation with its slides parsed.
type Document struct {
	pkg    *opc.Package
	slides []*Slide
}

// Slide is one parsed slide.
type Slide struct {
	Number     int    // 1-based position in the presentation
	Part       string // e.g. ppt/slides/slide1.xml
	Paragraphs []Paragraph
	Tables     []model.Table

	cellRuns []Run
}

// Paragraph is a text paragraph from a shape or table cell.
type Paragraph struct {
	Text string
	Runs []Run
}

// Run is a text run: its visible text and its raw inner markup.
type Run struct {
	Text   string
	Markup string
}

// Open opens a PPTX file and parses every slide. Slides that fail to
// parse are left out; their numbers are not reused.
func Open(filename string) (*Document, error) {
	pkg, err := opc.Open(filename)
	if err != nil {
		return nil, err
	}
	if !pkg.Has(presentationPart) {
		pkg.Close()
		return nil, fmt.Errorf("missing required file: %s", presentationPart)
	}

	d := &Document{pkg: pkg}
	for i, part := range slideParts(pkg) {
		slide, err := d.parseSlide(part, i+1)
		if err != nil {
			continue
		}
		d.slides = append(d.slides, slide)
	}
	return d, nil
}

// Close releases the underlying package.
func (d *Document) Close() error {
	return d.pkg.Close()
}

// Slides returns the parsed slides in presentation order.
func (d *Document) Slides() []*Slide {
	return d.slides
}

// Relationships returns the relationships of a slide. A malformed
// relationships part yields none.
func (d *Document) Relationships(s *Slide) []opc.Relationship {
	rels, err := d.pkg.Relationships(s.Part)
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

// Text returns the slide's paragraphs followed by its table rows, one
// line each, joined with newlines. Empty paragraphs are dropped.
func (s *Slide) Text() string {
	var lines []string
	for _, p := range s.Paragraphs {
		if p.Text != "" {
			lines = append(lines, p.Text)
		}
	}
	for _, t := range s.Tables {
		for _, row := range t {
			lines = append(lines, strings.Join(row, "\t"))
		}
	}
	return strings.Join(lines, "\n")
}

// Runs returns every run on the slide, shape text first, then table
// cells.
func (s *Slide) Runs() []Run {
	var runs []Run
	for _, p := range s.Paragraphs {
		runs = append(runs, p.Runs...)
	}
	return append(runs, s.cellRuns...)
}

func (d *Document) parseSlide(part string, number int) (*Slide, error) {
	data, err := d.pkg.ReadPart(part)
	if err != nil {
		return nil, err
	}

	var sx slideXML
	if err := xml.Unmarshal(data, &sx); err != nil {
		return nil, err
	}

	slide := &Slide{Number: number, Part: part}
	collectShapes(&sx.CSld.SpTree, slide)
	return slide, nil
}

// collectShapes gathers text and tables from a shape tree, descending
// into groups.
func collectShapes(tree *spTreeXML, slide *Slide) {
	for _, sp := range tree.Sp {
		if sp.TxBody == nil {
			continue
		}
		for _, p := range sp.TxBody.P {
			slide.Paragraphs = append(slide.Paragraphs, newParagraph(p))
		}
	}

	for _, gf := range tree.GraphicFrame {
		if tbl := gf.Graphic.GraphicData.Tbl; tbl != nil {
			slide.Tables = append(slide.Tables, collectTable(tbl, slide))
		}
	}

	for i := range tree.GrpSp {
		collectShapes(&tree.GrpSp[i], slide)
	}
}

// collectTable builds a table from a graphic frame. Cell paragraphs are
// joined with newlines. Cell runs are kept on the slide for hyperlink
// attribution.
func collectTable(tbl *tblXML, slide *Slide) model.Table {
	rows := make([][]string, 0, len(tbl.Tr))
	for _, tr := range tbl.Tr {
		cells := make([]string, 0, len(tr.Tc))
		for _, tc := range tr.Tc {
			var parts []string
			if tc.TxBody != nil {
				for _, p := range tc.TxBody.P {
					para := newParagraph(p)
					parts = append(parts, para.Text)
					slide.cellRuns = append(slide.cellRuns, para.Runs...)
				}
			}
			cells = append(cells, strings.Join(parts, "\n"))
		}
		rows = append(rows, cells)
	}
	return model.NewTable(rows)
}

func newParagraph(p pXML) Paragraph {
	para := Paragraph{Runs: make([]Run, 0, len(p.Runs))}
	var sb strings.Builder
	for _, r := range p.Runs {
		if r.Break {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(r.T)
		para.Runs = append(para.Runs, Run{Text: r.T, Markup: r.Raw})
	}
	para.Text = strings.TrimSpace(sb.String())
	return para
}

// slideParts returns slide part names in presentation order. The order
// comes from the slide id list in presentation.xml; when that cannot be
// resolved, slide files are sorted by their number.
func slideParts(pkg *opc.Package) []string {
	if parts := orderedSlideParts(pkg); len(parts) > 0 {
		return parts
	}

	var parts []string
	for _, name := range pkg.PartNames("ppt/slides/slide") {
		if strings.HasSuffix(name, ".xml") {
			parts = append(parts, name)
		}
	}
	sort.SliceStable(parts, func(i, j int) bool {
		return slideNumber(parts[i]) < slideNumber(parts[j])
	})
	return parts
}

func orderedSlideParts(pkg *opc.Package) []string {
	data, err := pkg.ReadPart(presentationPart)
	if err != nil {
		return nil
	}
	var pres presentationXML
	if err := xml.Unmarshal(data, &pres); err != nil || pres.SlideIdList == nil {
		return nil
	}
	rels, err := pkg.Relationships(presentationPart)
	if err != nil {
		return nil
	}

	targets := make(map[string]string, len(rels))
	for _, rel := range rels {
		if rel.Type == opc.RelTypeSlide {
			targets[rel.ID] = rel.PartName()
		}
	}

	var parts []string
	for _, id := range pres.SlideIdList.SlideId {
		if part, ok := targets[id.RID]; ok && pkg.Has(part) {
			parts = append(parts, part)
		}
	}
	return parts
}

// slideNumber extracts the slide number from a path like "ppt/slides/slide1.xml"
func slideNumber(name string) int {
	name = strings.TrimPrefix(name, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}
