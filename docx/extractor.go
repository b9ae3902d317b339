package docx

import (
	"strings"

	"github.com/tsawler/docextract/extract"
	"github.com/tsawler/docextract/model"
)

var _ extract.Extractor = (*Extractor)(nil)

// Extractor extracts content from a loaded DOCX document.
type Extractor struct {
	extract.Shell[*Document]
}

// NewExtractor returns an unloaded DOCX extractor.
func NewExtractor() *Extractor {
	return &Extractor{Shell: extract.NewShell[*Document](Loader{})}
}

// ExtractText returns every paragraph's text followed by a newline, then
// every table row as tab-joined cells followed by a newline. All
// paragraphs come before all tables regardless of where the tables sit in
// the document.
func (e *Extractor) ExtractText() (string, error) {
	doc, err := e.Document()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, para := range doc.Paragraphs() {
		sb.WriteString(para.Text)
		sb.WriteString("\n")
	}
	for _, table := range doc.Tables() {
		sb.WriteString(table.Text())
	}
	return sb.String(), nil
}

// ExtractPages returns the whole document text as page 1. DOCX has no
// fixed pagination.
func (e *Extractor) ExtractPages() ([]model.Page, error) {
	text, err := e.ExtractText()
	if err != nil {
		return nil, err
	}
	return []model.Page{{Number: 1, Text: text}}, nil
}

// ExtractImages returns the images referenced by the main document part.
// A relationship qualifies when its target contains "image"; empty parts
// and parts without a content type are skipped.
func (e *Extractor) ExtractImages() ([]model.Image, error) {
	doc, err := e.Document()
	if err != nil {
		return nil, err
	}

	images := make([]model.Image, 0)
	for _, rel := range doc.Relationships() {
		if !rel.RefersToImage() {
			continue
		}
		if img, ok := doc.Image(rel); ok {
			images = append(images, img)
		}
	}
	return images, nil
}

// ExtractURLs returns one link per hyperlink relationship of the main
// document part.
//
// Attribution is a linear scan: paragraphs are visited first to last
// (numbered from 1) and, within each, runs in order. The first run whose
// raw markup contains the URL supplies LinkedText, and its paragraph
// number becomes PageNumber. Later occurrences of the same URL are never
// considered. Without a match the link has empty text and a nil page.
func (e *Extractor) ExtractURLs() ([]model.Link, error) {
	doc, err := e.Document()
	if err != nil {
		return nil, err
	}

	paragraphs := doc.Paragraphs()
	links := make([]model.Link, 0)
	for _, rel := range doc.Relationships() {
		if !rel.IsHyperlink() {
			continue
		}
		link := model.Link{URL: rel.Target}
		if link.URL != "" {
		scan:
			for i, para := range paragraphs {
				for _, run := range para.Runs {
					if strings.Contains(run.Markup, link.URL) {
						link.LinkedText = run.Text
						link.PageNumber = model.PageRef(i + 1)
						break scan
					}
				}
			}
		}
		links = append(links, link)
	}
	return links, nil
}

// ExtractTables returns the body tables with trimmed cell text.
func (e *Extractor) ExtractTables() ([]model.Table, error) {
	doc, err := e.Document()
	if err != nil {
		return nil, err
	}
	return doc.Tables(), nil
}
