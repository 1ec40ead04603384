package document

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the type of a content node.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryDocument
	CategoryTable
	CategoryTableOfContents
	CategoryTableCell
	CategoryTitle
	CategoryText
	CategoryParagraph
	CategoryH1
	CategoryH2
	CategoryH3
	CategoryH4
	CategoryH5
	CategoryTableTitle
	CategoryFigureTitle
	CategoryImageTitle
	CategoryTableOfContentsTitle
	CategoryFigure
	CategoryCaption
	CategoryFootnote
	CategoryListItem
	CategoryPageHeader
	CategoryPageFooter

	categoryEnd
)

var categoryNames = [...]string{
	CategoryUnknown:              "",
	CategoryDocument:             "DOCUMENT",
	CategoryTable:                "TABLE",
	CategoryTableOfContents:      "TABLE_OF_CONTENTS",
	CategoryTableCell:            "TABLE_CELL",
	CategoryTitle:                "TITLE",
	CategoryText:                 "TEXT",
	CategoryParagraph:            "PARAGRAPH",
	CategoryH1:                   "H1",
	CategoryH2:                   "H2",
	CategoryH3:                   "H3",
	CategoryH4:                   "H4",
	CategoryH5:                   "H5",
	CategoryTableTitle:           "TABLE_TITLE",
	CategoryFigureTitle:          "FIGURE_TITLE",
	CategoryImageTitle:           "IMAGE_TITLE",
	CategoryTableOfContentsTitle: "TABLE_OF_CONTENTS_TITLE",
	CategoryFigure:               "FIGURE",
	CategoryCaption:              "CAPTION",
	CategoryFootnote:             "FOOTNOTE",
	CategoryListItem:             "LIST_ITEM",
	CategoryPageHeader:           "PAGE_HEADER",
	CategoryPageFooter:           "PAGE_FOOTER",
}

// Categories returns every known category in declaration order.
func Categories() []Category {
	out := make([]Category, 0, int(categoryEnd)-1)
	for c := CategoryDocument; c < categoryEnd; c++ {
		out = append(out, c)
	}
	return out
}

// ParseCategory parses an upper-case category tag such as "TABLE_CELL".
func ParseCategory(s string) (Category, error) {
	for c := CategoryDocument; c < categoryEnd; c++ {
		if categoryNames[c] == s {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("%w: content category %q", ErrTaxonomy, s)
}

// Known reports whether c is a member of the category enumeration.
func (c Category) Known() bool {
	return c > CategoryUnknown && c < categoryEnd
}

func (c Category) String() string {
	if !c.Known() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Lower returns the segment form of the category, e.g. "table_cell".
func (c Category) Lower() string {
	return strings.ToLower(c.String())
}

func (c Category) MarshalJSON() ([]byte, error) {
	if !c.Known() {
		return nil, fmt.Errorf("%w: %s", ErrTaxonomy, c)
	}
	return json.Marshal(categoryNames[c])
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: content category: %v", ErrValidation, err)
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// AnnotationType is the kind of an annotation record.
type AnnotationType int

const (
	AnnotationUnknown AnnotationType = iota
	AnnotationTableStructure
	AnnotationFigureExtractedTableStructure
)

// ParseAnnotationType parses an annotation type tag such as "table_structure".
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "table_structure":
		return AnnotationTableStructure, nil
	case "figure_extracted_table_structure":
		return AnnotationFigureExtractedTableStructure, nil
	}
	return AnnotationUnknown, fmt.Errorf("%w: annotation type %q", ErrTaxonomy, s)
}

func (t AnnotationType) String() string {
	switch t {
	case AnnotationTableStructure:
		return "table_structure"
	case AnnotationFigureExtractedTableStructure:
		return "figure_extracted_table_structure"
	}
	return fmt.Sprintf("AnnotationType(%d)", int(t))
}

func (t AnnotationType) MarshalJSON() ([]byte, error) {
	switch t {
	case AnnotationTableStructure, AnnotationFigureExtractedTableStructure:
		return json.Marshal(t.String())
	}
	return nil, fmt.Errorf("%w: %s", ErrTaxonomy, t)
}

func (t *AnnotationType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: annotation type: %v", ErrValidation, err)
	}
	parsed, err := ParseAnnotationType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
