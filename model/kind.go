package model

import "fmt"

// Kind identifies one of the four artifact kinds.
type Kind int

const (
	// KindText is the concatenated document text.
	KindText Kind = iota
	// KindImage is the list of embedded images.
	KindImage
	// KindURL is the list of hyperlinks.
	KindURL
	// KindTable is the list of tables.
	KindTable
)

// Kinds returns every artifact kind in extraction order.
func Kinds() []Kind {
	return []Kind{KindText, KindImage, KindURL, KindTable}
}

// String returns the kind name used for filesystem artifacts.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindURL:
		return "url"
	case KindTable:
		return "table"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Label returns the relational table name for the kind.
// Tables are stored under "data_table"; every other kind uses its name.
func (k Kind) Label() string {
	if k == KindTable {
		return "data_table"
	}
	return k.String()
}

// ParseKind returns the kind named by s. Both "table" and "data_table"
// resolve to KindTable.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "text":
		return KindText, nil
	case "image":
		return KindImage, nil
	case "url":
		return KindURL, nil
	case "table", "data_table":
		return KindTable, nil
	default:
		return 0, fmt.Errorf("unknown artifact kind %q", s)
	}
}
