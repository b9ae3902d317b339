package pptx

import "encoding/xml"

// presentationXML represents the ppt/presentation.xml file structure.
type presentationXML struct {
	XMLName     xml.Name        `xml:"presentation"`
	SlideIdList *slideIdListXML `xml:"sldIdLst"`
}

type slideIdListXML struct {
	SlideId []slideIdXML `xml:"sldId"`
}

type slideIdXML struct {
	ID  string `xml:"id,attr"`
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"` // r:id attribute for relationship
}

// slideXML represents a ppt/slides/slide*.xml file structure.
type slideXML struct {
	XMLName xml.Name `xml:"sld"`
	CSld    cSldXML  `xml:"cSld"`
}

type cSldXML struct {
	SpTree spTreeXML `xml:"spTree"`
}

// spTreeXML is a shape tree. A group shape has the same layout as the
// slide's tree, so groups nest as spTreeXML. Only graphic frames holding
// a table contribute content.
type spTreeXML struct {
	Sp           []spXML           `xml:"sp"`
	GraphicFrame []graphicFrameXML `xml:"graphicFrame"`
	GrpSp        []spTreeXML       `xml:"grpSp"`
}

// spXML represents a shape element.
type spXML struct {
	TxBody *txBodyXML `xml:"txBody"`
}

// txBodyXML is the text of a shape or table cell.
type txBodyXML struct {
	P []pXML `xml:"p"`
}

// pXML represents a paragraph. Runs holds text runs and fields in
// document order; line breaks appear as runs with Break set.
type pXML struct {
	Runs []rXML
}

// UnmarshalXML keeps runs, fields and breaks in their source order.
func (p *pXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "r", "fld":
				var r rXML
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, r)
			case "br":
				p.Runs = append(p.Runs, rXML{Break: true})
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// rXML represents a text run (<a:r>) or field (<a:fld>).
type rXML struct {
	T     string `xml:"t"`         // Text content
	Raw   string `xml:",innerxml"` // Inner markup, verbatim
	Break bool   `xml:"-"`
}

// graphicFrameXML represents a graphic frame (tables, charts).
type graphicFrameXML struct {
	Graphic graphicXML `xml:"graphic"`
}

type graphicXML struct {
	GraphicData graphicDataXML `xml:"graphicData"`
}

type graphicDataXML struct {
	URI string  `xml:"uri,attr"`
	Tbl *tblXML `xml:"tbl"` // Table
}

// tblXML represents a table.
type tblXML struct {
	Tr []trXML `xml:"tr"` // Table rows
}

type trXML struct {
	Tc []tcXML `xml:"tc"` // Table cells
}

type tcXML struct {
	TxBody *txBodyXML `xml:"txBody"`
}
