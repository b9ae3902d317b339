package docx

import (
	"github.com/tsawler/docextract/extract"
	"github.com/tsawler/docextract/format"
)

// Loader opens .docx files.
type Loader struct{}

// Format returns format.DOCX.
func (Loader) Format() format.Format { return format.DOCX }

// Validate reports whether path ends in .docx, ignoring case.
func (Loader) Validate(path string) bool { return format.DOCX.Accepts(path) }

// Load validates path and opens it.
func (Loader) Load(path string) (*Document, error) {
	if err := extract.CheckFile(format.DOCX, path); err != nil {
		return nil, err
	}
	doc, err := Open(path)
	if err != nil {
		return nil, extract.Unreadable(path, err)
	}
	return doc, nil
}
