package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tsawler/docextract/model"
)

// File names inside a document's directory.
const (
	TextFile  = "text.txt"
	TableFile = "table.json"
	URLFile   = "url.csv"
	ImageDir  = "image"
)

// FileStorage writes artifacts under Root, one directory per source
// document. Storing the same artifact twice leaves the same files.
type FileStorage struct {
	Root string
}

// NewFileStorage returns a FileStorage rooted at root. The directory is
// created on first use.
func NewFileStorage(root string) *FileStorage {
	return &FileStorage{Root: root}
}

// Dir returns the directory that holds artifacts for sourceName.
func (s *FileStorage) Dir(sourceName string) string {
	return filepath.Join(s.Root, filepath.Base(sourceName))
}

// Store writes one artifact of the given kind for sourceName. The
// artifact must be a string for text, []model.Image for images,
// []model.Link for URLs and []model.Table for tables.
func (s *FileStorage) Store(artifact any, sourceName string, kind model.Kind) error {
	base := filepath.Base(sourceName)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return fmt.Errorf("storage: invalid source name %q", sourceName)
	}
	dir := s.Dir(sourceName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	switch kind {
	case model.KindText:
		text, ok := artifact.(string)
		if !ok {
			return artifactTypeError(artifact, kind)
		}
		return writeFile(filepath.Join(dir, TextFile), []byte(text))

	case model.KindTable:
		tables, ok := artifact.([]model.Table)
		if !ok {
			return artifactTypeError(artifact, kind)
		}
		if tables == nil {
			tables = []model.Table{}
		}
		data, err := json.MarshalIndent(tables, "", "  ")
		if err != nil {
			return fmt.Errorf("encode tables: %w", err)
		}
		return writeFile(filepath.Join(dir, TableFile), data)

	case model.KindURL:
		links, ok := artifact.([]model.Link)
		if !ok {
			return artifactTypeError(artifact, kind)
		}
		return writeLinks(filepath.Join(dir, URLFile), links)

	case model.KindImage:
		images, ok := artifact.([]model.Image)
		if !ok {
			return artifactTypeError(artifact, kind)
		}
		return writeImages(filepath.Join(dir, ImageDir), images)
	}
	return fmt.Errorf("storage: unknown kind %v", kind)
}

func artifactTypeError(artifact any, kind model.Kind) error {
	return fmt.Errorf("%w: %T for %s", ErrArtifactType, artifact, kind)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeLinks writes links as CSV with a header row. A nil page number is
// an empty field.
func writeLinks(path string, links []model.Link) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	records := make([][]string, 0, len(links)+1)
	records = append(records, []string{"linked_text", "url", "page_number"})
	for _, l := range links {
		page := ""
		if l.PageNumber != nil {
			page = strconv.Itoa(*l.PageNumber)
		}
		records = append(records, []string{l.LinkedText, l.URL, page})
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// writeImages replaces dir with one file per image, named image_<n>.<ext>
// and numbered from 1.
func writeImages(dir string, images []model.Image) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clear %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for i, img := range images {
		name := img.FileName(fmt.Sprintf("image_%d", i+1))
		if err := writeFile(filepath.Join(dir, name), img.Data); err != nil {
			return err
		}
	}
	return nil
}
