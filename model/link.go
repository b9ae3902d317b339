package model

// Link is one hyperlink relationship found in a document.
//
// LinkedText and PageNumber come from a best-effort scan of the document
// text. When no run mentions the URL, LinkedText is empty and PageNumber
// is nil.
type Link struct {
	LinkedText string `json:"linked_text"`
	URL        string `json:"url"`
	PageNumber *int   `json:"page_number"`
}

// Attributed reports whether the link was matched to a run of text.
func (l Link) Attributed() bool {
	return l.PageNumber != nil
}

// PageRef returns a pointer to n, for use as Link.PageNumber.
func PageRef(n int) *int {
	return &n
}
