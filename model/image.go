package model

import (
	"bytes"
	"image"
	"strings"

	// Decoders for DecodeConfig. The standard library covers PNG, JPEG
	// and GIF; x/image adds the formats Office documents also embed.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is an embedded media payload.
type Image struct {
	Data        []byte `json:"data"`
	Ext         string `json:"ext"`          // second segment of ContentType, e.g. "png"
	ContentType string `json:"content_type"` // MIME type the extension was derived from
	Name        string `json:"name,omitempty"`
	Page        int    `json:"page,omitempty"` // 1-based page or slide; 0 when not tied to one
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// NewImage builds an Image from a blob and its MIME content type.
// It reports false when the blob is empty or the content type has no
// second segment; such relations are skipped by every extractor.
// Width and Height are filled in when the payload header can be decoded.
func NewImage(data []byte, contentType string) (Image, bool) {
	if len(data) == 0 {
		return Image{}, false
	}
	ext, ok := ExtFromContentType(contentType)
	if !ok {
		return Image{}, false
	}

	img := Image{
		Data:        data,
		Ext:         ext,
		ContentType: contentType,
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.Width = cfg.Width
		img.Height = cfg.Height
	}
	return img, true
}

// ExtFromContentType returns the second segment of a MIME type as
// written: "image/png" gives "png" and "image/PNG" gives "PNG".
// Parameters after ';' are ignored.
func ExtFromContentType(contentType string) (string, bool) {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	parts := strings.Split(strings.TrimSpace(contentType), "/")
	if len(parts) < 2 || parts[1] == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// FileName returns the name used when the image is written to disk.
func (i Image) FileName(base string) string {
	return base + "." + i.Ext
}
