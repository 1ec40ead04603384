// Package grid rebuilds rectangular table grids from table structure
// annotations.
//
// Annotations address cells by (row, col) and describe merged cells with a
// (row span, col span). Merged cells are expanded into one cell per covered
// position before the grid is assembled, so every grid has the same number of
// columns in every row.
package grid

import (
	"fmt"
	"strings"

	"github.com/hanpama/kenvert/internal/document"
)

// Grid is a rectangular table of cell texts.
type Grid [][]string

// Rows returns the number of rows.
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the number of columns.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Config controls how a grid is built.
type Config struct {
	// DuplicateMergedCells copies the content of a merged cell into every
	// position it covers. When false only the top left position is filled.
	DuplicateMergedCells bool

	// Validation selects the strategy for missing positions.
	Validation Validation
}

// DefaultConfig duplicates merged cells and back-fills missing positions.
func DefaultConfig() Config {
	return Config{
		DuplicateMergedCells: true,
		Validation:           Backfill,
	}
}

// Shape returns the number of rows and columns covered by annotations,
// taking spans into account.
func Shape(annotations []document.Annotation) (rows, cols int, err error) {
	for _, ann := range annotations {
		switch ann.Type {
		case document.AnnotationTableStructure, document.AnnotationFigureExtractedTableStructure:
		default:
			return 0, 0, fmt.Errorf("%w: table shape can only be calculated from table structure "+
				"or figure extracted table annotations, got %s", document.ErrTaxonomy, ann.Type)
		}
		rows = max(rows, ann.Data.Row()+ann.Data.RowSpan())
		cols = max(cols, ann.Data.Col()+ann.Data.ColSpan())
	}
	return rows, cols, nil
}

// annotationType returns the type shared by every annotation.
func annotationType(annotations []document.Annotation) (document.AnnotationType, error) {
	if len(annotations) == 0 {
		return document.AnnotationUnknown, nil
	}
	typ := annotations[0].Type
	for _, ann := range annotations[1:] {
		if ann.Type != typ {
			return document.AnnotationUnknown, fmt.Errorf("%w: table mixes %s and %s annotations",
				document.ErrTaxonomy, typ, ann.Type)
		}
	}
	switch typ {
	case document.AnnotationTableStructure, document.AnnotationFigureExtractedTableStructure:
		return typ, nil
	}
	return document.AnnotationUnknown, fmt.Errorf("%w: %s is not a table annotation type", document.ErrTaxonomy, typ)
}

// Build assembles the grid described by annotations.
//
// Cells of table structure annotations take the text of the first linked
// content node, looked up in nodes. Cells of figure extracted annotations
// carry their text inline.
func Build(annotations []document.Annotation, nodes document.Index, cfg Config) (Grid, error) {
	typ, err := annotationType(annotations)
	if err != nil {
		return nil, err
	}

	duplicated, err := Duplicate(annotations, cfg.DuplicateMergedCells, cfg.Validation)
	if err != nil {
		return nil, err
	}

	nRows, nCols, err := Shape(annotations)
	if err != nil {
		return nil, err
	}

	byIndex := make(map[[2]int]document.Annotation, len(duplicated))
	for _, ann := range duplicated {
		byIndex[ann.Data.Index] = ann
	}

	grid := make(Grid, nRows)
	for r := range grid {
		grid[r] = make([]string, nCols)
		for c := range grid[r] {
			ann, ok := byIndex[[2]int{r, c}]
			if !ok {
				continue
			}
			text, err := cellText(typ, ann, nodes)
			if err != nil {
				return nil, err
			}
			grid[r][c] = text
		}
	}

	return grid, nil
}

func cellText(typ document.AnnotationType, ann document.Annotation, nodes document.Index) (string, error) {
	switch typ {
	case document.AnnotationFigureExtractedTableStructure:
		if ann.Data.Value == nil {
			return "", fmt.Errorf("%w: found value=None for figure extracted cell at (%d, %d)",
				document.ErrGrid, ann.Data.Row(), ann.Data.Col())
		}
		return strings.TrimSpace(*ann.Data.Value), nil

	case document.AnnotationTableStructure:
		if len(ann.ContentUIDs) == 0 {
			return "", nil
		}
		uid := ann.ContentUIDs[0]
		node, ok := nodes[uid]
		if !ok {
			return "", fmt.Errorf("%w: table cell %q not found in content tree", document.ErrGrid, uid)
		}
		if node.Content == nil {
			return "", fmt.Errorf("%w: found content=None for table cell %q, table cells must have text content",
				document.ErrGrid, uid)
		}
		return strings.TrimSpace(*node.Content), nil
	}

	return "", fmt.Errorf("%w: %s", document.ErrTaxonomy, typ)
}
