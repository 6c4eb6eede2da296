package render

import "resume-engine/resume/document"

// RunStyle captures the paragraph and run formatting applied per line kind.
type RunStyle struct {
	Bold   bool
	Italic bool
	Size   int
	Color  string
	// Align is a w:jc value; empty means left.
	Align string
	// Style is a paragraph style id from styles.xml.
	Style string
}

const (
	HeadingColor = "1F2937"
	NameColor    = "111111"
	HeadingSize  = 24
	NameSize     = 32
	BodySize     = 21
)

// StyleMap centralizes the formatting for each classified line.
var StyleMap = map[document.Kind]RunStyle{
	document.Name: {
		Bold:  true,
		Size:  NameSize,
		Color: NameColor,
		Align: "center",
		Style: "Title",
	},
	document.Contact: {
		Size:  BodySize,
		Align: "center",
	},
	document.Heading: {
		Bold:  true,
		Size:  HeadingSize,
		Color: HeadingColor,
		Style: "Heading1",
	},
	document.RoleHeader: {
		Bold: true,
		Size: BodySize,
	},
	document.RoleDetail: {
		Italic: true,
		Size:   BodySize,
	},
	document.Bullet: {
		Size:  BodySize,
		Style: "ListBullet",
	},
	document.Paragraph: {
		Size: BodySize,
	},
}
