package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/docextract/format"
)

// fakeDoc records whether it was closed.
type fakeDoc struct {
	path   string
	closed bool
}

func (d *fakeDoc) Close() error {
	d.closed = true
	return nil
}

type fakeLoader struct{}

func (fakeLoader) Format() format.Format { return format.DOCX }

func (fakeLoader) Validate(path string) bool { return format.DOCX.Accepts(path) }

func (fakeLoader) Load(path string) (*fakeDoc, error) {
	if err := CheckFile(format.DOCX, path); err != nil {
		return nil, err
	}
	return &fakeDoc{path: path}, nil
}

func writeFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestShell_NotLoaded(t *testing.T) {
	s := NewShell[*fakeDoc](fakeLoader{})

	if s.Loaded() {
		t.Error("new shell should be unloaded")
	}
	if _, err := s.Document(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Document() error = %v, want ErrNotLoaded", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on unloaded shell = %v", err)
	}
}

func TestShell_LoadAndClose(t *testing.T) {
	s := NewShell[*fakeDoc](fakeLoader{})
	path := writeFile(t, "a.docx")

	if err := s.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	doc, err := s.Document()
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if doc.path != path || s.Path() != path {
		t.Errorf("loaded path = %q, want %q", doc.path, path)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !doc.closed {
		t.Error("Close() should close the handle")
	}
	if _, err := s.Document(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Document() after Close = %v, want ErrNotLoaded", err)
	}
}

func TestShell_ReloadClosesPrevious(t *testing.T) {
	s := NewShell[*fakeDoc](fakeLoader{})
	first := writeFile(t, "first.docx")
	second := writeFile(t, "second.docx")

	if err := s.Load(first); err != nil {
		t.Fatal(err)
	}
	old, _ := s.Document()
	if err := s.Load(second); err != nil {
		t.Fatal(err)
	}
	if !old.closed {
		t.Error("loading a second document should close the first")
	}
}

func TestShell_FailedLoadKeepsCurrent(t *testing.T) {
	s := NewShell[*fakeDoc](fakeLoader{})
	path := writeFile(t, "keep.docx")
	if err := s.Load(path); err != nil {
		t.Fatal(err)
	}

	if err := s.Load("slides.pptx"); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Load(pptx) error = %v, want ErrInvalidFormat", err)
	}
	if s.Path() != path {
		t.Errorf("Path() = %q, want %q", s.Path(), path)
	}
}

func TestCheckFile(t *testing.T) {
	existing := writeFile(t, "doc.PDF")

	tests := []struct {
		name string
		f    format.Format
		path string
		want error
	}{
		{"accepted and present", format.PDF, existing, nil},
		{"wrong extension", format.DOCX, existing, ErrInvalidFormat},
		{"missing file", format.PDF, filepath.Join(t.TempDir(), "missing.pdf"), ErrFileNotFound},
		{"missing in empty dir", format.PDF, t.TempDir() + "/dir.pdf", ErrFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFile(tt.f, tt.path)
			if tt.want == nil {
				if err != nil {
					t.Errorf("CheckFile() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("CheckFile() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCheckFile_DirectoryIsUnreadable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "folder.pdf")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := CheckFile(format.PDF, dir); !errors.Is(err, ErrUnreadable) {
		t.Errorf("CheckFile(dir) error = %v, want ErrUnreadable", err)
	}
}

func TestUnreadable(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := Unreadable("x.docx", cause)
	if !errors.Is(err, ErrUnreadable) || !errors.Is(err, cause) {
		t.Errorf("Unreadable() = %v, should wrap both sentinel and cause", err)
	}
}
