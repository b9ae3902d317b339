// Package pdf extracts text, images and hyperlinks from PDF files.
//
// Files are read and validated by pdfcpu. Page text comes from the page
// content streams: each text-showing operation is a run, and runs are laid
// out in stream order with line breaks taken from the text positioning
// operators. Strings are decoded through the page font that shows them:
// its ToUnicode CMap, two-byte codes for composite fonts, or the simple
// encoding with its Differences.
//
// PDF has no table objects, so no tables are extracted.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/tsawler/docextract/model"
)

// Document is a validated PDF held in memory.
type Document struct {
	ctx *pdfmodel.Context
}

// Page is the decoded text of one page.
type Page struct {
	Number int
	Text   string
	Runs   []Run
}

// Open reads and validates a PDF file.
func Open(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	return &Document{ctx: ctx}, nil
}

// Close releases the document. The file itself was closed after reading.
func (d *Document) Close() error {
	d.ctx = nil
	return nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	if d.ctx == nil {
		return 0
	}
	return d.ctx.PageCount
}

// Page decodes the text of page n (1-based). A page whose content cannot
// be read has no text.
func (d *Document) Page(n int) Page {
	page := Page{Number: n}

	r, err := pdfcpu.ExtractPageContent(d.ctx, n)
	if err != nil || r == nil {
		return page
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return page
	}

	page.Text, page.Runs = pageText(data, d.pageFonts(n))
	return page
}

// pageFonts resolves the font resources of page n by resource name. Fonts
// that cannot be read are left out and their strings decode as WinAnsi.
func (d *Document) pageFonts(n int) map[string]*fontDecoder {
	pageDict, _, inherited, err := d.ctx.PageDict(n, false)
	if err != nil || pageDict == nil {
		return nil
	}

	var resources types.Dict
	if obj, found := pageDict.Find("Resources"); found {
		resources, _ = d.ctx.DereferenceDict(obj)
	}
	if resources == nil && inherited != nil {
		resources = inherited.Resources
	}
	if resources == nil {
		return nil
	}

	obj, found := resources.Find("Font")
	if !found {
		return nil
	}
	fontDicts, err := d.ctx.DereferenceDict(obj)
	if err != nil || fontDicts == nil {
		return nil
	}

	fonts := make(map[string]*fontDecoder, len(fontDicts))
	for key, obj := range fontDicts {
		fd, err := d.ctx.DereferenceDict(obj)
		if err != nil || fd == nil {
			continue
		}
		fonts[key] = d.fontDecoder(fd)
	}
	return fonts
}

func (d *Document) fontDecoder(fd types.Dict) *fontDecoder {
	f := &fontDecoder{base: baseEncoding("")}
	if st := fd.NameEntry("Subtype"); st != nil && *st == "Type0" {
		f.twoByte = true
	}

	if obj, found := fd.Find("ToUnicode"); found {
		sd, _, err := d.ctx.DereferenceStreamDict(obj)
		if err == nil && sd != nil && sd.Decode() == nil {
			f.toUnicode = parseCMap(sd.Content)
		}
	}

	if f.twoByte {
		return f
	}
	obj, found := fd.Find("Encoding")
	if !found {
		return f
	}
	obj, err := d.ctx.Dereference(obj)
	if err != nil {
		return f
	}
	switch enc := obj.(type) {
	case types.Name:
		f.base = baseEncoding(string(enc))
	case types.Dict:
		if base := enc.NameEntry("BaseEncoding"); base != nil {
			f.base = baseEncoding(*base)
		}
		if diffs, found := enc.Find("Differences"); found {
			if arr, err := d.ctx.DereferenceArray(diffs); err == nil {
				f.setDifferences(differences(arr))
			}
		}
	}
	return f
}

// differences converts a Differences array to codes and glyph names.
func differences(arr types.Array) []any {
	out := make([]any, 0, len(arr))
	for _, el := range arr {
		switch v := el.(type) {
		case types.Integer:
			out = append(out, int(v))
		case types.Float:
			out = append(out, int(v))
		case types.Name:
			out = append(out, string(v))
		}
	}
	return out
}

// Images returns the image XObjects of page n in object number order.
// Images pdfcpu cannot export and empty payloads are skipped.
func (d *Document) Images(n int) []model.Image {
	found, err := pdfcpu.ExtractPageImages(d.ctx, n, false)
	if err != nil || len(found) == 0 {
		return nil
	}

	objNrs := make([]int, 0, len(found))
	for nr := range found {
		objNrs = append(objNrs, nr)
	}
	sort.Ints(objNrs)

	images := make([]model.Image, 0, len(objNrs))
	for _, nr := range objNrs {
		pi := found[nr]
		if pi.Reader == nil {
			continue
		}
		data, err := io.ReadAll(pi.Reader)
		if err != nil {
			continue
		}
		img, ok := model.NewImage(data, contentType(pi.FileType))
		if !ok {
			continue
		}
		img.Name = fmt.Sprintf("%s.%s", pi.Name, img.Ext)
		img.Page = n
		if img.Width == 0 && img.Height == 0 {
			img.Width, img.Height = pi.Width, pi.Height
		}
		images = append(images, img)
	}
	return images
}

// contentType maps a pdfcpu image file type to a MIME type.
func contentType(fileType string) string {
	switch fileType {
	case "":
		return ""
	case "jpg", "jpeg":
		return "image/jpeg"
	case "tif", "tiff":
		return "image/tiff"
	case "jpx", "jp2":
		return "image/jp2"
	default:
		return "image/" + fileType
	}
}

// Links returns the URIs of the link annotations on page n, in
// annotation order. Annotations that are not URI actions are skipped.
func (d *Document) Links(n int) []string {
	pageDict, _, _, err := d.ctx.PageDict(n, false)
	if err != nil || pageDict == nil {
		return nil
	}
	obj, found := pageDict.Find("Annots")
	if !found {
		return nil
	}
	annots, err := d.ctx.DereferenceArray(obj)
	if err != nil {
		return nil
	}

	var uris []string
	for _, a := range annots {
		annot, err := d.ctx.DereferenceDict(a)
		if err != nil || annot == nil {
			continue
		}
		if st := annot.NameEntry("Subtype"); st == nil || *st != "Link" {
			continue
		}
		if uri, ok := d.linkURI(annot); ok {
			uris = append(uris, uri)
		}
	}
	return uris
}

func (d *Document) linkURI(annot types.Dict) (string, bool) {
	obj, found := annot.Find("A")
	if !found {
		return "", false
	}
	action, err := d.ctx.DereferenceDict(obj)
	if err != nil || action == nil {
		return "", false
	}
	if s := action.NameEntry("S"); s == nil || *s != "URI" {
		return "", false
	}
	obj, found = action.Find("URI")
	if !found {
		return "", false
	}
	obj, err = d.ctx.Dereference(obj)
	if err != nil {
		return "", false
	}

	var uri string
	switch v := obj.(type) {
	case types.StringLiteral:
		uri, err = types.StringLiteralToString(v)
	case types.HexLiteral:
		uri, err = types.HexLiteralToString(v)
	default:
		return "", false
	}
	if err != nil {
		return "", false
	}
	return uri, true
}
