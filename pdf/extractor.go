package pdf

import (
	"strings"

	"github.com/tsawler/docextract/extract"
	"github.com/tsawler/docextract/model"
)

var _ extract.Extractor = (*Extractor)(nil)

// Extractor extracts content from a loaded PDF.
type Extractor struct {
	extract.Shell[*Document]
}

// NewExtractor returns an unloaded PDF extractor.
func NewExtractor() *Extractor {
	return &Extractor{Shell: extract.NewShell[*Document](Loader{})}
}

// ExtractText returns the text of every page, each followed by a newline.
func (e *Extractor) ExtractText() (string, error) {
	pages, err := e.ExtractPages()
	if err != nil {
		return "", err
	}
	return model.JoinPages(pages), nil
}

// ExtractPages returns one entry per page, numbered from 1.
func (e *Extractor) ExtractPages() ([]model.Page, error) {
	doc, err := e.Document()
	if err != nil {
		return nil, err
	}

	pages := make([]model.Page, 0, doc.PageCount())
	for n := 1; n <= doc.PageCount(); n++ {
		p := doc.Page(n)
		pages = append(pages, model.Page{Number: p.Number, Text: p.Text})
	}
	return pages, nil
}

// ExtractImages returns the image XObjects of every page, in page order.
func (e *Extractor) ExtractImages() ([]model.Image, error) {
	doc, err := e.Document()
	if err != nil {
		return nil, err
	}

	images := make([]model.Image, 0)
	for n := 1; n <= doc.PageCount(); n++ {
		images = append(images, doc.Images(n)...)
	}
	return images, nil
}

// ExtractURLs returns one link per URI link annotation, in page order.
//
// Attribution scans pages first to last and, within each, text-showing
// operations in stream order. The first operation whose source text or
// decoded text contains the URL supplies LinkedText and its page number
// becomes PageNumber. This is usually, but not necessarily, the page carrying the
// annotation. Without a match the link has empty text and a nil page.
func (e *Extractor) ExtractURLs() ([]model.Link, error) {
	doc, err := e.Document()
	if err != nil {
		return nil, err
	}

	pages := make([]Page, 0, doc.PageCount())
	for n := 1; n <= doc.PageCount(); n++ {
		pages = append(pages, doc.Page(n))
	}

	links := make([]model.Link, 0)
	for n := 1; n <= doc.PageCount(); n++ {
		for _, uri := range doc.Links(n) {
			link := model.Link{URL: uri}
			if link.URL != "" {
			scan:
				for _, page := range pages {
					for _, run := range page.Runs {
						if strings.Contains(run.Markup, link.URL) || strings.Contains(run.Text, link.URL) {
							link.LinkedText = run.Text
							link.PageNumber = model.PageRef(page.Number)
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

// ExtractTables returns an empty slice once a document is loaded.
func (e *Extractor) ExtractTables() ([]model.Table, error) {
	if _, err := e.Document(); err != nil {
		return nil, err
	}
	return make([]model.Table, 0), nil
}
