// Package segment flattens a content tree into an ordered list of segments.
package segment

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hanpama/kenvert/internal/document"
	"github.com/hanpama/kenvert/internal/grid"
)

// Segment is one flattened unit of a document: a text, a title or a table.
type Segment struct {
	Type     document.Category
	Category string
	Text     string
	Table    [][]string

	// Locations is nil unless locations were requested and the node had them.
	Locations []document.Location

	// LocationsRequested is set by Extract when locations were asked for, so
	// a segment without any is encoded with "locations": null.
	LocationsRequested bool
}

type segmentJSON struct {
	Category  string               `json:"category"`
	Text      string               `json:"text"`
	Table     [][]string           `json:"table,omitempty"`
	Locations *[]document.Location `json:"locations,omitempty"`
}

// MarshalJSON encodes the segment. The locations key is written when
// locations were requested or present, as null when the node had none.
func (s Segment) MarshalJSON() ([]byte, error) {
	out := segmentJSON{
		Category: s.Category,
		Text:     s.Text,
		Table:    s.Table,
	}
	if s.LocationsRequested || s.Locations != nil {
		out.Locations = &s.Locations
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// IsTable reports whether the segment holds a table grid.
func (s Segment) IsTable() bool {
	return s.Table != nil
}

// Config controls extraction.
type Config struct {
	ReturnLocations bool
	Grid            grid.Config
}

// DefaultConfig returns the extraction defaults: no locations, merged cells
// duplicated, missing cells back-filled.
func DefaultConfig() Config {
	return Config{Grid: grid.DefaultConfig()}
}

// Kind is how the extractor treats a content category.
type Kind int

const (
	KindDropped Kind = iota
	KindTable
	KindText
)

// Classify maps a category to exactly one Kind.
func Classify(c document.Category) (Kind, error) {
	switch c {
	case document.CategoryDocument, document.CategoryTableCell:
		return KindDropped, nil
	case document.CategoryTable, document.CategoryTableOfContents:
		return KindTable, nil
	case document.CategoryTitle,
		document.CategoryText,
		document.CategoryParagraph,
		document.CategoryH1,
		document.CategoryH2,
		document.CategoryH3,
		document.CategoryH4,
		document.CategoryH5,
		document.CategoryTableTitle,
		document.CategoryFigureTitle,
		document.CategoryImageTitle,
		document.CategoryTableOfContentsTitle,
		document.CategoryFigure,
		document.CategoryCaption,
		document.CategoryFootnote,
		document.CategoryListItem,
		document.CategoryPageHeader,
		document.CategoryPageFooter:
		return KindText, nil
	}
	return KindDropped, fmt.Errorf("%w: content category must be one of %v, found %s",
		document.ErrTaxonomy, document.Categories(), c)
}

// Extract walks the content tree of doc in pre-order and returns one segment
// per text bearing node and per non-empty table. Table cells are consumed by
// their table and never produce segments of their own.
func Extract(doc *document.Document, cfg Config) ([]Segment, error) {
	e := &extractor{
		cfg:     cfg,
		tables:  grid.NewBuilder(doc, cfg.Grid),
		visited: make(map[string]bool),
	}
	if err := e.walk(doc.ContentTree); err != nil {
		return nil, err
	}
	return e.segments, nil
}

type extractor struct {
	cfg      Config
	tables   *grid.Builder
	visited  map[string]bool
	segments []Segment
}

func (e *extractor) walk(node *document.ContentNode) error {
	if node == nil || e.visited[node.UID] {
		return nil
	}
	e.visited[node.UID] = true

	kind, err := Classify(node.Type)
	if err != nil {
		return err
	}

	switch kind {
	case KindTable:
		if err := e.table(node); err != nil {
			return err
		}
	case KindText:
		e.emit(Segment{
			Type:     node.Type,
			Category: node.Type.Lower(),
			Text:     node.Text(),
		}, node)
	}

	for _, child := range node.Children {
		if kind == KindTable && child.Type == document.CategoryTableCell {
			continue
		}
		if err := e.walk(child); err != nil {
			return err
		}
	}
	return nil
}

// table emits the segment of a table node.
func (e *extractor) table(node *document.ContentNode) error {
	hasCells := false
	for _, child := range node.Children {
		if child.Type == document.CategoryTableCell {
			hasCells = true
			break
		}
	}
	if !hasCells {
		return nil
	}

	t, err := e.tables.Table(node)
	if err != nil {
		return err
	}
	if t == nil || t.Grid.Rows() == 0 {
		return nil
	}

	e.emit(Segment{
		Type:     node.Type,
		Category: node.Type.Lower(),
		Text:     TableMarkdown(t.Grid),
		Table:    t.Grid,
	}, node)
	return nil
}

func (e *extractor) emit(seg Segment, node *document.ContentNode) {
	if e.cfg.ReturnLocations {
		seg.Locations = node.Locations
		seg.LocationsRequested = true
	}
	e.segments = append(e.segments, seg)
}
