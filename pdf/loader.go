package pdf

import (
	"github.com/tsawler/docextract/extract"
	"github.com/tsawler/docextract/format"
)

// Loader opens .pdf files.
type Loader struct{}

// Format returns format.PDF.
func (Loader) Format() format.Format { return format.PDF }

// Validate reports whether path ends in .pdf, ignoring case.
func (Loader) Validate(path string) bool { return format.PDF.Accepts(path) }

// Load validates path and reads the document.
func (Loader) Load(path string) (*Document, error) {
	if err := extract.CheckFile(format.PDF, path); err != nil {
		return nil, err
	}
	doc, err := Open(path)
	if err != nil {
		return nil, extract.Unreadable(path, err)
	}
	return doc, nil
}
