// Package extract defines the contract shared by every format extractor.
//
// A format plugs in two pieces: a [Loader] that validates a path and opens
// it into a format-specific document handle, and an extractor type that
// embeds a [Shell] holding that loader. The shell owns the handle and
// enforces the Unloaded → Loaded state machine, so format code only
// implements the extraction operations themselves:
//
//	type Extractor struct {
//	    extract.Shell[*Document]
//	}
//
//	func NewExtractor() *Extractor {
//	    return &Extractor{Shell: extract.NewShell[*Document](Loader{})}
//	}
//
// Extraction is best-effort. A malformed relationship, paragraph, table or
// page is skipped, never reported; only loading can fail hard.
package extract

import (
	"errors"
	"fmt"
	"os"

	"github.com/tsawler/docextract/format"
	"github.com/tsawler/docextract/model"
)

var (
	// ErrInvalidFormat is returned by Load when the path's extension is not
	// accepted by the loader.
	ErrInvalidFormat = errors.New("invalid file format")

	// ErrFileNotFound is returned by Load when the path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnreadable is returned by Load when the parser rejects the file.
	ErrUnreadable = errors.New("unreadable document")

	// ErrNotLoaded is returned by extraction operations called before Load.
	ErrNotLoaded = errors.New("no document loaded")
)

// Extractor is implemented by every format extractor.
type Extractor interface {
	// Format reports the format the extractor handles.
	Format() format.Format

	// Load opens path and retains its handle, replacing any previous one.
	Load(path string) error

	// ExtractText returns the visible text in source order.
	ExtractText() (string, error)

	// ExtractPages returns the same text split per page or slide.
	ExtractPages() ([]model.Page, error)

	// ExtractImages returns every non-empty embedded image.
	ExtractImages() ([]model.Image, error)

	// ExtractURLs returns one entry per hyperlink relationship.
	ExtractURLs() ([]model.Link, error)

	// ExtractTables returns every table, cells trimmed.
	ExtractTables() ([]model.Table, error)

	// Close releases the loaded handle. It is safe to call more than once.
	Close() error
}

// Loader validates a path and opens it into a document handle of type D.
type Loader[D any] interface {
	Format() format.Format
	Validate(path string) bool
	Load(path string) (D, error)
}

// CheckFile performs the checks every loader runs before parsing: the
// extension must be accepted by f and the file must exist.
func CheckFile(f format.Format, path string) error {
	if !f.Accepts(path) {
		return fmt.Errorf("%w: %s is not a %s file", ErrInvalidFormat, path, f)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrUnreadable, path)
	}
	return nil
}

// Unreadable wraps a parser error so that it matches ErrUnreadable.
func Unreadable(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
}
