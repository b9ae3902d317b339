// Package docextract extracts text, images, hyperlinks and tables from
// PDF, Word and PowerPoint files through one interface.
//
// Basic usage:
//
//	e, err := docextract.Open("report.docx")
//	if err != nil {
//	    // handle error
//	}
//	defer e.Close()
//
//	text, err := e.ExtractText()
//	links, err := e.ExtractURLs()
//
// The format is chosen by file extension. For finer control, create an
// unloaded extractor with New and call Load yourself, or use the docx,
// pptx and pdf packages directly.
package docextract

import (
	"fmt"

	"github.com/tsawler/docextract/docx"
	"github.com/tsawler/docextract/extract"
	"github.com/tsawler/docextract/format"
	"github.com/tsawler/docextract/pdf"
	"github.com/tsawler/docextract/pptx"
)

// New returns an unloaded extractor for f. Unknown formats fail with
// extract.ErrInvalidFormat.
func New(f format.Format) (extract.Extractor, error) {
	switch f {
	case format.PDF:
		return pdf.NewExtractor(), nil
	case format.DOCX:
		return docx.NewExtractor(), nil
	case format.PPTX:
		return pptx.NewExtractor(), nil
	}
	return nil, fmt.Errorf("%w: %v", extract.ErrInvalidFormat, f)
}

// ForPath returns an unloaded extractor chosen by the extension of path.
func ForPath(path string) (extract.Extractor, error) {
	f := format.Detect(path)
	if f == format.Unknown {
		return nil, fmt.Errorf("%w: unsupported extension: %s", extract.ErrInvalidFormat, path)
	}
	return New(f)
}

// Open chooses an extractor by the extension of path and loads the file.
// The caller must Close the returned extractor.
func Open(path string) (extract.Extractor, error) {
	e, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	if err := e.Load(path); err != nil {
		return nil, err
	}
	return e, nil
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	text := docextract.Must(docextract.Must(docextract.Open("memo.docx")).ExtractText())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
