package opc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/docextract/internal/ooxmltest"
)

func testPackage(t *testing.T) string {
	t.Helper()
	return ooxmltest.Write(t, "test.docx",
		ooxmltest.ContentTypes(map[string]string{
			"/word/document.xml":  "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml",
			"/word/media/pic.bin": "image/x-custom",
		}),
		ooxmltest.Rels("_rels/.rels",
			ooxmltest.Rel{ID: "rId1", Type: ooxmltest.TypeOfficeDoc, Target: "word/document.xml"}),
		ooxmltest.Part{Name: "word/document.xml", Data: `<w:document/>`},
		ooxmltest.Rels("word/_rels/document.xml.rels",
			ooxmltest.Rel{ID: "rId1", Type: ooxmltest.TypeImage, Target: "media/image1.PNG"},
			ooxmltest.Rel{ID: "rId2", Type: ooxmltest.TypeHyperlink, Target: "https://example.com", External: true},
			ooxmltest.Rel{ID: "rId3", Type: ooxmltest.TypeImage, Target: "/word/media/pic.bin"}),
		ooxmltest.Part{Name: "word/media/image1.PNG", Data: "png-bytes"},
		ooxmltest.Part{Name: "word/media/pic.bin", Data: "bin-bytes"},
	)
}

func TestOpen(t *testing.T) {
	p, err := Open(testPackage(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer p.Close()

	if !p.Has("word/document.xml") {
		t.Error("Has(word/document.xml) = false")
	}
	data, err := p.ReadPart("word/media/image1.PNG")
	if err != nil || string(data) != "png-bytes" {
		t.Errorf("ReadPart() = %q, %v", data, err)
	}
	if _, err := p.ReadPart("word/missing.xml"); err == nil {
		t.Error("ReadPart() should fail for a missing part")
	}
}

func TestOpen_Errors(t *testing.T) {
	if _, err := Open("/nonexistent/file.docx"); err == nil {
		t.Error("Open() should fail for a missing file")
	}

	notZip := filepath.Join(t.TempDir(), "plain.docx")
	if err := os.WriteFile(notZip, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(notZip); err == nil {
		t.Error("Open() should fail for a non-zip file")
	}

	noTypes := ooxmltest.Write(t, "bare.docx", ooxmltest.Part{Name: "word/document.xml", Data: "<w:document/>"})
	if _, err := Open(noTypes); err == nil {
		t.Error("Open() should fail without [Content_Types].xml")
	}
}

func TestContentType(t *testing.T) {
	p, err := Open(testPackage(t))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	tests := []struct {
		part string
		want string
	}{
		{"word/media/image1.PNG", "image/png"},
		{"/word/media/pic.bin", "image/x-custom"},
		{"word/document.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
		{"word/styles.xml", "application/xml"},
		{"word/media/unknown.tiff", ""},
	}
	for _, tt := range tests {
		if got := p.ContentType(tt.part); got != tt.want {
			t.Errorf("ContentType(%q) = %q, want %q", tt.part, got, tt.want)
		}
	}
}

func TestRelationships(t *testing.T) {
	p, err := Open(testPackage(t))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	rels, err := p.Relationships("word/document.xml")
	if err != nil {
		t.Fatalf("Relationships() error = %v", err)
	}
	if len(rels) != 3 {
		t.Fatalf("got %d relationships, want 3", len(rels))
	}

	if !rels[0].RefersToImage() || rels[0].PartName() != "word/media/image1.PNG" {
		t.Errorf("rels[0] = %+v, part %q", rels[0], rels[0].PartName())
	}
	if !rels[1].IsHyperlink() || !rels[1].IsExternal() || rels[1].PartName() != "https://example.com" {
		t.Errorf("rels[1] = %+v", rels[1])
	}
	if rels[2].PartName() != "word/media/pic.bin" {
		t.Errorf("absolute target resolved to %q", rels[2].PartName())
	}

	none, err := p.Relationships("word/media/image1.PNG")
	if err != nil || len(none) != 0 {
		t.Errorf("Relationships() for part without rels = %v, %v", none, err)
	}
}

func TestRelationship_PartNameRelativeToSlides(t *testing.T) {
	r := Relationship{Source: "ppt/slides/slide1.xml", Target: "../media/image2.jpeg"}
	if got := r.PartName(); got != "ppt/media/image2.jpeg" {
		t.Errorf("PartName() = %q", got)
	}
}

func TestRelsPartName(t *testing.T) {
	tests := map[string]string{
		"word/document.xml":     "word/_rels/document.xml.rels",
		"ppt/slides/slide3.xml": "ppt/slides/_rels/slide3.xml.rels",
		"":                      "_rels/.rels",
	}
	for source, want := range tests {
		if got := RelsPartName(source); got != want {
			t.Errorf("RelsPartName(%q) = %q, want %q", source, got, want)
		}
	}
}

func TestPartNames(t *testing.T) {
	p, err := Open(testPackage(t))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	names := p.PartNames("word/media/")
	if len(names) != 2 || names[0] != "word/media/image1.PNG" || names[1] != "word/media/pic.bin" {
		t.Errorf("PartNames() = %v", names)
	}
}
