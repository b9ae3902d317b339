package model

import "strings"

// Page is the text of one page (PDF), slide (PPTX), or whole document (DOCX).
type Page struct {
	Number int    `json:"number"` // 1-based
	Text   string `json:"text"`
}

// JoinPages concatenates page text, terminating each page with a newline.
// It returns "" for no pages.
func JoinPages(pages []Page) string {
	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(p.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
