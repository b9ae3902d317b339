package extract

import (
	"io"

	"github.com/tsawler/docextract/format"
)

// Shell holds a loader and the handle it produced. Format extractors embed
// a Shell and call Document at the start of each extraction operation.
//
// A Shell is not safe for concurrent use; the handle belongs to the one
// extractor that loaded it.
type Shell[D io.Closer] struct {
	loader Loader[D]
	doc    D
	path   string
	loaded bool
}

// NewShell returns an unloaded shell that opens documents with loader.
func NewShell[D io.Closer](loader Loader[D]) Shell[D] {
	return Shell[D]{loader: loader}
}

// Format reports the loader's format.
func (s *Shell[D]) Format() format.Format {
	return s.loader.Format()
}

// Load opens path and makes it the current document. On failure the
// previously loaded document, if any, stays current.
func (s *Shell[D]) Load(path string) error {
	doc, err := s.loader.Load(path)
	if err != nil {
		return err
	}
	if s.loaded {
		s.doc.Close()
	}
	s.doc = doc
	s.path = path
	s.loaded = true
	return nil
}

// Document returns the current handle, or ErrNotLoaded.
func (s *Shell[D]) Document() (D, error) {
	if !s.loaded {
		var zero D
		return zero, ErrNotLoaded
	}
	return s.doc, nil
}

// Path returns the path of the current document, or "" when unloaded.
func (s *Shell[D]) Path() string {
	return s.path
}

// Loaded reports whether a document is current.
func (s *Shell[D]) Loaded() bool {
	return s.loaded
}

// Close releases the current handle and returns the shell to the
// unloaded state.
func (s *Shell[D]) Close() error {
	if !s.loaded {
		return nil
	}
	err := s.doc.Close()
	var zero D
	s.doc = zero
	s.path = ""
	s.loaded = false
	return err
}
