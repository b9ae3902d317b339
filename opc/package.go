// Package opc reads Open Packaging Conventions containers, the zip layout
// shared by DOCX and PPTX files.
//
// It exposes the three things both formats need: part bytes, the
// relationships of a source part, and the content type of a part as
// declared in [Content_Types].xml.
package opc

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// Relationship types referenced by the extractors.
const (
	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	RelTypeSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
)

const contentTypesPart = "[Content_Types].xml"

// Package is an open OPC container.
type Package struct {
	zr        *zip.ReadCloser
	files     map[string]*zip.File
	defaults  map[string]string // lowercase extension -> content type
	overrides map[string]string // part name without leading slash -> content type
}

// Open opens the container at filename and reads its content types.
// A container without [Content_Types].xml is rejected.
func Open(filename string) (*Package, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	p := &Package{
		zr:        zr,
		files:     make(map[string]*zip.File, len(zr.File)),
		defaults:  make(map[string]string),
		overrides: make(map[string]string),
	}
	for _, f := range zr.File {
		p.files[f.Name] = f
	}

	if err := p.parseContentTypes(); err != nil {
		zr.Close()
		return nil, err
	}
	return p, nil
}

// Close releases the underlying archive.
func (p *Package) Close() error {
	if p.zr != nil {
		err := p.zr.Close()
		p.zr = nil
		return err
	}
	return nil
}

// Has reports whether the container holds a part with the given name.
func (p *Package) Has(name string) bool {
	_, ok := p.files[name]
	return ok
}

// ReadPart returns the bytes of the named part.
func (p *Package) ReadPart(name string) ([]byte, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, fmt.Errorf("part not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// PartNames returns the names of parts under prefix, sorted.
func (p *Package) PartNames(prefix string) []string {
	var names []string
	for name := range p.files {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ContentType returns the declared content type of a part: its Override
// entry if present, else the Default for its extension, else "".
func (p *Package) ContentType(name string) string {
	name = strings.TrimPrefix(name, "/")
	if ct, ok := p.overrides[name]; ok {
		return ct
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	return p.defaults[ext]
}

// Relationships returns the relationships whose source is the named part,
// in file order. A part without a .rels file has no relationships.
func (p *Package) Relationships(source string) ([]Relationship, error) {
	relsName := RelsPartName(source)
	if !p.Has(relsName) {
		return nil, nil
	}
	data, err := p.ReadPart(relsName)
	if err != nil {
		return nil, err
	}

	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", relsName, err)
	}

	out := make([]Relationship, 0, len(rels.Relationship))
	for _, r := range rels.Relationship {
		out = append(out, Relationship{
			ID:         r.ID,
			Type:       r.Type,
			Target:     r.Target,
			TargetMode: r.TargetMode,
			Source:     source,
		})
	}
	return out, nil
}

func (p *Package) parseContentTypes() error {
	data, err := p.ReadPart(contentTypesPart)
	if err != nil {
		return fmt.Errorf("missing required file: %s", contentTypesPart)
	}

	var types contentTypesXML
	if err := xml.Unmarshal(data, &types); err != nil {
		return fmt.Errorf("parsing %s: %w", contentTypesPart, err)
	}
	for _, d := range types.Defaults {
		p.defaults[strings.ToLower(d.Extension)] = d.ContentType
	}
	for _, o := range types.Overrides {
		p.overrides[strings.TrimPrefix(o.PartName, "/")] = o.ContentType
	}
	return nil
}

// RelsPartName returns the name of the .rels part for source:
// "word/document.xml" gives "word/_rels/document.xml.rels".
func RelsPartName(source string) string {
	dir, base := path.Split(source)
	return dir + "_rels/" + base + ".rels"
}
