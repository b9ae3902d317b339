package pptx

import (
	"github.com/tsawler/docextract/extract"
	"github.com/tsawler/docextract/format"
)

// Loader opens .ppt and .pptx files.
type Loader struct{}

// Format returns format.PPTX.
func (Loader) Format() format.Format { return format.PPTX }

// Validate reports whether path ends in .ppt or .pptx, ignoring case.
func (Loader) Validate(path string) bool { return format.PPTX.Accepts(path) }

// Load validates path and opens it.
func (Loader) Load(path string) (*Document, error) {
	if err := extract.CheckFile(format.PPTX, path); err != nil {
		return nil, err
	}
	doc, err := Open(path)
	if err != nil {
		return nil, extract.Unreadable(path, err)
	}
	return doc, nil
}
