package opc

import (
	"encoding/xml"
	"path"
	"strings"
)

// Relationship links a source part to a target part or external resource.
type Relationship struct {
	ID         string
	Type       string
	Target     string // as written in the .rels file
	TargetMode string // "External" for URLs
	Source     string // part the relationship belongs to
}

// IsExternal reports whether the target lies outside the package.
func (r Relationship) IsExternal() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

// IsHyperlink reports whether the relationship type denotes a hyperlink.
func (r Relationship) IsHyperlink() bool {
	return strings.Contains(r.Type, "hyperlink")
}

// RefersToImage reports whether the target reference names an image.
// Any target containing "image" qualifies, which covers both the usual
// media/imageN.ext parts and image relationships with other names.
func (r Relationship) RefersToImage() bool {
	return strings.Contains(r.Target, "image")
}

// PartName resolves the target against the source part's directory.
// External targets are returned unchanged.
func (r Relationship) PartName() string {
	if r.IsExternal() {
		return r.Target
	}
	if strings.HasPrefix(r.Target, "/") {
		return strings.TrimPrefix(r.Target, "/")
	}
	return path.Join(path.Dir(r.Source), r.Target)
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// contentTypesXML represents [Content_Types].xml.
type contentTypesXML struct {
	XMLName   xml.Name      `xml:"Types"`
	Defaults  []defaultXML  `xml:"Default"`
	Overrides []overrideXML `xml:"Override"`
}

type defaultXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type overrideXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}
