package grid

import (
	"fmt"
	"sort"

	"github.com/hanpama/kenvert/internal/document"
)

// Cell is one table cell as annotated, before merged cells are expanded.
type Cell struct {
	Row     int
	Col     int
	RowSpan int
	ColSpan int
	Text    string
}

// Position addresses a single grid position.
type Position struct {
	Row int
	Col int
}

// Table is a reconstructed table together with the node it came from.
type Table struct {
	ID       string
	Category document.Category
	Grid     Grid

	// Cells covers every grid position exactly once; positions without an
	// annotation are filled with empty 1x1 cells.
	Cells []Cell

	// Merges lists, for every merged cell, the positions it covers.
	Merges [][]Position

	Locations []document.Location
}

// Builder reconstructs the tables of one document.
type Builder struct {
	cfg         Config
	doc         *document.Document
	nodes       document.Index
	byContentID map[string][]int
	owned       map[string][]int
}

// NewBuilder indexes the content tree and annotations of doc.
//
// Table structure annotations are reached through the TABLE_CELL nodes they
// link. A figure extracted annotation that does not link a TABLE_CELL belongs
// to the node named by its first content uid.
func NewBuilder(doc *document.Document, cfg Config) *Builder {
	b := &Builder{
		cfg:         cfg,
		doc:         doc,
		nodes:       document.NewIndex(doc.ContentTree),
		byContentID: make(map[string][]int),
		owned:       make(map[string][]int),
	}

	for i, ann := range doc.Annotations {
		if ann.Type == document.AnnotationFigureExtractedTableStructure && len(ann.ContentUIDs) > 0 {
			owner, ok := b.nodes[ann.ContentUIDs[0]]
			if !ok || owner.Type != document.CategoryTableCell {
				b.owned[ann.ContentUIDs[0]] = append(b.owned[ann.ContentUIDs[0]], i)
				continue
			}
		}
		for _, uid := range ann.ContentUIDs {
			b.byContentID[uid] = append(b.byContentID[uid], i)
		}
	}

	return b
}

// Nodes returns the uid index of the content tree.
func (b *Builder) Nodes() document.Index {
	return b.nodes
}

// CellAnnotations returns the annotations linking the content node uid.
func (b *Builder) CellAnnotations(uid string) []document.Annotation {
	idx := b.byContentID[uid]
	out := make([]document.Annotation, 0, len(idx))
	for _, i := range idx {
		out = append(out, b.doc.Annotations[i])
	}
	return out
}

// IsTable reports whether nodes of category c hold table cells.
func IsTable(c document.Category) bool {
	return c == document.CategoryTable || c == document.CategoryTableOfContents
}

// Annotations collects the annotations describing the table held by node,
// in the order of the node's cells. An annotation linking several cells is
// returned once.
func (b *Builder) Annotations(node *document.ContentNode) ([]document.Annotation, error) {
	var indices []int
	seen := make(map[int]bool)

	if IsTable(node.Type) {
		for _, child := range node.Children {
			if child.Type != document.CategoryTableCell {
				continue
			}
			linked, ok := b.byContentID[child.UID]
			if !ok {
				return nil, fmt.Errorf("%w: table %q cell %q has no table structure annotation",
					document.ErrGrid, node.UID, child.UID)
			}
			for _, i := range linked {
				if !seen[i] {
					seen[i] = true
					indices = append(indices, i)
				}
			}
		}
	}
	for _, i := range b.owned[node.UID] {
		if !seen[i] {
			seen[i] = true
			indices = append(indices, i)
		}
	}

	annotations := make([]document.Annotation, 0, len(indices))
	for _, i := range indices {
		annotations = append(annotations, b.doc.Annotations[i])
	}
	return annotations, nil
}

// Table reconstructs the table held by node. It returns nil when the node
// has no table annotations.
func (b *Builder) Table(node *document.ContentNode) (*Table, error) {
	annotations, err := b.Annotations(node)
	if err != nil {
		return nil, err
	}
	if len(annotations) == 0 {
		return nil, nil
	}

	g, err := Build(annotations, b.nodes, b.cfg)
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", node.UID, err)
	}

	cells, err := spanCells(annotations, g, b.nodes)
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", node.UID, err)
	}

	return &Table{
		ID:        node.UID,
		Category:  node.Type,
		Grid:      g,
		Cells:     cells,
		Merges:    Merges(annotations),
		Locations: node.Locations,
	}, nil
}

// Tables reconstructs every table of doc in document order.
func Tables(doc *document.Document, cfg Config) ([]*Table, error) {
	b := NewBuilder(doc, cfg)

	var tables []*Table
	visited := make(map[string]bool)

	var walk func(node *document.ContentNode) error
	walk = func(node *document.ContentNode) error {
		if visited[node.UID] {
			return nil
		}
		visited[node.UID] = true

		table, err := b.Table(node)
		if err != nil {
			return err
		}
		if table != nil && table.Grid.Rows() > 0 {
			tables = append(tables, table)
		}
		if IsTable(node.Type) {
			return nil
		}

		for _, child := range node.Children {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(doc.ContentTree); err != nil {
		return nil, err
	}
	return tables, nil
}

// Merges returns the positions covered by every merged cell.
func Merges(annotations []document.Annotation) [][]Position {
	var merges [][]Position
	for _, ann := range annotations {
		if ann.Data.RowSpan() <= 1 && ann.Data.ColSpan() <= 1 {
			continue
		}
		var group []Position
		for dr := 0; dr < ann.Data.RowSpan(); dr++ {
			for dc := 0; dc < ann.Data.ColSpan(); dc++ {
				group = append(group, Position{Row: ann.Data.Row() + dr, Col: ann.Data.Col() + dc})
			}
		}
		merges = append(merges, group)
	}
	return merges
}

// spanCells lists the annotated cells with their spans. Positions of g that
// no annotation covers become empty 1x1 cells.
func spanCells(annotations []document.Annotation, g Grid, nodes document.Index) ([]Cell, error) {
	typ, err := annotationType(annotations)
	if err != nil {
		return nil, err
	}

	covered := make(map[Position]bool)
	cells := make([]Cell, 0, len(annotations))
	for _, ann := range annotations {
		text, err := cellText(typ, ann, nodes)
		if err != nil {
			return nil, err
		}
		cells = append(cells, Cell{
			Row:     ann.Data.Row(),
			Col:     ann.Data.Col(),
			RowSpan: ann.Data.RowSpan(),
			ColSpan: ann.Data.ColSpan(),
			Text:    text,
		})
		for dr := 0; dr < ann.Data.RowSpan(); dr++ {
			for dc := 0; dc < ann.Data.ColSpan(); dc++ {
				covered[Position{Row: ann.Data.Row() + dr, Col: ann.Data.Col() + dc}] = true
			}
		}
	}

	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if !covered[Position{Row: r, Col: c}] {
				cells = append(cells, Cell{Row: r, Col: c, RowSpan: 1, ColSpan: 1})
			}
		}
	}

	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells, nil
}
