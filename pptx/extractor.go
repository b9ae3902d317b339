package pptx

import (
	"strings"

	"github.com/tsawler/docextract/extract"
	"github.com/tsawler/docextract/model"
)

var _ extract.Extractor = (*Extractor)(nil)

// Extractor extracts content from a loaded presentation.
type Extractor struct {
	extract.Shell[*Document]
}

// NewExtractor returns an unloaded PPTX extractor.
func NewExtractor() *Extractor {
	return &Extractor{Shell: extract.NewShell[*Document](Loader{})}
}

// ExtractText returns the text of every slide, each followed by a newline.
func (e *Extractor) ExtractText() (string, error) {
	pages, err := e.ExtractPages()
	if err != nil {
		return "", err
	}
	return model.JoinPages(pages), nil
}

// ExtractPages returns one page per slide, numbered by slide position.
func (e *Extractor) ExtractPages() ([]model.Page, error) {
	doc, err := e.Document()
	if err != nil {
		return nil, err
	}

	pages := make([]model.Page, 0, len(doc.Slides()))
	for _, s := range doc.Slides() {
		pages = append(pages, model.Page{Number: s.Number, Text: s.Text()})
	}
	return pages, nil
}

// ExtractImages returns the images referenced by each slide, in slide
// order. Image.Page holds the slide number.
func (e *Extractor) ExtractImages() ([]model.Image, error) {
	doc, err := e.Document()
	if err != nil {
		return nil, err
	}

	images := make([]model.Image, 0)
	for _, s := range doc.Slides() {
		for _, rel := range doc.Relationships(s) {
			if !rel.RefersToImage() {
				continue
			}
			if img, ok := doc.Image(rel); ok {
				img.Page = s.Number
				images = append(images, img)
			}
		}
	}
	return images, nil
}

// ExtractURLs returns one link per hyperlink relationship across all
// slides.
//
// Attribution scans slides first to last and, within each, runs in order.
// The first run whose raw markup contains the URL supplies LinkedText and
// its slide number becomes PageNumber. Without a match the link has empty
// text and a nil page.
func (e *Extractor) ExtractURLs() ([]model.Link, error) {
	doc, err := e.Document()
	if err != nil {
		return nil, err
	}

	slides := doc.Slides()
	runs := make([][]Run, len(slides))
	for i, s := range slides {
		runs[i] = s.Runs()
	}

	links := make([]model.Link, 0)
	for _, s := range slides {
		for _, rel := range doc.Relationships(s) {
			if !rel.IsHyperlink() {
				continue
			}
			link := model.Link{URL: rel.Target}
			if link.URL != "" {
			scan:
				for i, slideRuns := range runs {
					for _, run := range slideRuns {
						if strings.Contains(run.Markup, link.URL) {
							link.LinkedText = run.Text
							link.PageNumber = model.PageRef(slides[i].Number)
							break scan
						}
					}
				}
			}
			links = append(links, link)
		}
	}
	return links, nil
}

// ExtractTables returns every table on every slide, in slide order.
func (e *Extractor) ExtractTables() ([]model.Table, error) {
	doc, err := e.Document()
	if err != nil {
		return nil, err
	}

	tables := make([]model.Table, 0)
	for _, s := range doc.Slides() {
		tables = append(tables, s.Tables...)
	}
	return tables, nil
}
