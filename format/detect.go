// Package format resolves the document format tag from a file name.
//
// Selection is by extension only. File contents are never sniffed, so a
// mislabelled file is routed by its name and fails later when its parser
// rejects it.
package format

import (
	"path/filepath"
	"strings"
)

// Format represents a supported document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// PPTX indicates a Microsoft PowerPoint (.ppt or .pptx) document.
	PPTX
)

// acceptedExtensions lists the lowercase suffixes routed to each format.
var acceptedExtensions = map[Format][]string{
	PDF:  {".pdf"},
	DOCX: {".docx"},
	PPTX: {".ppt", ".pptx"},
}

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case DOCX:
		return "DOCX"
	case PPTX:
		return "PPTX"
	default:
		return "Unknown"
	}
}

// Extensions returns the lowercase extensions accepted for the format,
// including the leading dot. Unknown has none.
func (f Format) Extensions() []string {
	exts := acceptedExtensions[f]
	return append([]string(nil), exts...)
}

// Accepts reports whether filename carries one of the format's extensions.
// The comparison is a case-insensitive suffix match.
func (f Format) Accepts(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range acceptedExtensions[f] {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".docx":
		return DOCX
	case ".ppt", ".pptx":
		return PPTX
	default:
		return Unknown
	}
}

// Supported returns every format that has a loader.
func Supported() []Format {
	return []Format{PDF, DOCX, PPTX}
}
