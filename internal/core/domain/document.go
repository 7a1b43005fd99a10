package domain

// MimeTypeDocument is the mimetype of a native cloud document.
const MimeTypeDocument = "application/vnd.google-apps.document"

// MimeTypeFolder is the mimetype of a folder.
const MimeTypeFolder = "application/vnd.google-apps.folder"

// HeadingLevel is the paragraph tier applied to an inserted entry.
type HeadingLevel int

const (
	HeadingNone HeadingLevel = 0
	Heading1    HeadingLevel = 1
	Heading2    HeadingLevel = 2
)

// AnchorIndex is the body offset every entry is inserted at.
// Inserting there prepends, so the last entry written renders first.
const AnchorIndex int64 = 1

// Body is the structured content of a document.
type Body struct {
	Content []StructuralElement
}

// StructuralElement is one top-level element of a body.
// Only paragraphs carry text; tables, section breaks etc. have a nil Paragraph.
type StructuralElement struct {
	Paragraph *Paragraph
}

// Paragraph is a run of paragraph elements.
type Paragraph struct {
	Elements []ParagraphElement
}

// ParagraphElement is one element inside a paragraph.
type ParagraphElement struct {
	TextRun *TextRun
}

// TextRun is a span of uniformly styled text.
type TextRun struct {
	Content string
}

// StructuralOp is one mutation in a document batch update.
// Exactly one of InsertText or UpdateStyle is set.
type StructuralOp struct {
	InsertText  *InsertText
	UpdateStyle *UpdateParagraphStyle
}

// InsertText inserts Text at Index.
type InsertText struct {
	Index int64
	Text  string
}

// UpdateParagraphStyle applies a named style to [StartIndex, EndIndex).
type UpdateParagraphStyle struct {
	StartIndex int64
	EndIndex   int64
	NamedStyle string
}
