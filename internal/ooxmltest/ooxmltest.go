// Package ooxmltest assembles Office Open XML containers for tests.
package ooxmltest

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

// Part is one file inside a container.
type Part struct {
	Name string
	Data string
}

// Write creates a zip container named name in a fresh temp dir and
// returns its path. Parts are written in the order given.
func Write(t testing.TB, name string, parts ...Part) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, p := range parts {
		w, err := zw.Create(p.Name)
		if err != nil {
			t.Fatalf("failed to add %s: %v", p.Name, err)
		}
		if _, err := w.Write([]byte(p.Data)); err != nil {
			t.Fatalf("failed to write %s: %v", p.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finish zip: %v", err)
	}
	return path
}

// ContentTypes returns a [Content_Types].xml part with Defaults for rels,
// xml and the common image extensions, plus the given Override entries
// (part name to content type).
func ContentTypes(overrides map[string]string) Part {
	body := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Default Extension="png" ContentType="image/png"/>
  <Default Extension="jpeg" ContentType="image/jpeg"/>
  <Default Extension="gif" ContentType="image/gif"/>
`
	for name, ct := range overrides {
		body += `  <Override PartName="` + name + `" ContentType="` + ct + `"/>
`
	}
	body += `</Types>`
	return Part{Name: "[Content_Types].xml", Data: body}
}

// Rel is a relationship entry for Rels.
type Rel struct {
	ID, Type, Target string
	External         bool
}

// Rels returns a .rels part with the given relationships.
func Rels(name string, rels ...Rel) Part {
	body := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
`
	for _, r := range rels {
		body += `  <Relationship Id="` + r.ID + `" Type="` + r.Type + `" Target="` + r.Target + `"`
		if r.External {
			body += ` TargetMode="External"`
		}
		body += `/>
`
	}
	body += `</Relationships>`
	return Part{Name: name, Data: body}
}

// Relationship type URIs used by fixtures.
const (
	TypeImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	TypeHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	TypeSlide     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	TypeStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	TypeOfficeDoc = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
)
