package grid_test

import (
	"testing"

	"github.com/hanpama/kenvert/internal/document"
	"github.com/hanpama/kenvert/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableDocument() *document.Document {
	cells, annotations := quarterlyTable()
	table := &document.ContentNode{
		UID:       "t1",
		Type:      document.CategoryTable,
		Children:  cells,
		Locations: []document.Location{{X: 0.16, Y: 0.4, Width: 0.66, Height: 0.09}},
	}
	merged := &document.ContentNode{
		UID:  "t2",
		Type: document.CategoryTableOfContents,
		Children: []*document.ContentNode{
			cell("m1", "Chapter"),
			cell("m2", "1"),
			cell("m3", "Intro"),
		},
	}
	annotations = append(annotations,
		ann("m1", 0, 0, 1, 2),
		ann("m2", 1, 0, 1, 1),
		ann("m3", 1, 1, 1, 1),
	)

	return &document.Document{
		ContentTree: &document.ContentNode{
			UID:  "0",
			Type: document.CategoryDocument,
			Children: []*document.ContentNode{
				{UID: "1", Type: document.CategoryTitle, Content: str("Title")},
				table,
				{UID: "2", Type: document.CategoryText, Content: str("Between")},
				{UID: "3", Type: document.CategoryTable},
				merged,
			},
		},
		Annotations: annotations,
	}
}

func TestTables(t *testing.T) {
	t.Parallel()

	t.Run("reconstructs tables in document order", func(t *testing.T) {
		t.Parallel()

		tables, err := grid.Tables(tableDocument(), grid.DefaultConfig())
		require.NoError(t, err)
		require.Len(t, tables, 2)

		assert.Equal(t, "t1", tables[0].ID)
		assert.Equal(t, document.CategoryTable, tables[0].Category)
		assert.Equal(t, grid.Grid(quarterly), tables[0].Grid)
		assert.Len(t, tables[0].Locations, 1)
		assert.Empty(t, tables[0].Merges)

		assert.Equal(t, "t2", tables[1].ID)
		assert.Equal(t, document.CategoryTableOfContents, tables[1].Category)
		assert.Equal(t, grid.Grid{{"Chapter", "Chapter"}, {"1", "Intro"}}, tables[1].Grid)
		assert.Equal(t, []grid.Cell{
			{Row: 0, Col: 0, RowSpan: 1, ColSpan: 2, Text: "Chapter"},
			{Row: 1, Col: 0, RowSpan: 1, ColSpan: 1, Text: "1"},
			{Row: 1, Col: 1, RowSpan: 1, ColSpan: 1, Text: "Intro"},
		}, tables[1].Cells)
		assert.Equal(t, [][]grid.Position{{{Row: 0, Col: 0}, {Row: 0, Col: 1}}}, tables[1].Merges)
	})

	t.Run("reports cells without annotations", func(t *testing.T) {
		t.Parallel()

		doc := tableDocument()
		doc.Annotations = doc.Annotations[1:]

		_, err := grid.Tables(doc, grid.DefaultConfig())
		require.ErrorIs(t, err, document.ErrGrid)
		assert.Contains(t, err.Error(), `"c00"`)
	})

	t.Run("links one annotation to several cell fragments once", func(t *testing.T) {
		t.Parallel()

		doc := &document.Document{
			ContentTree: &document.ContentNode{
				UID:  "0",
				Type: document.CategoryDocument,
				Children: []*document.ContentNode{{
					UID:  "t",
					Type: document.CategoryTable,
					Children: []*document.ContentNode{
						cell("a1", "split cell"),
						cell("a2", "split cell continued"),
						cell("b", "other"),
					},
				}},
			},
			Annotations: []document.Annotation{
				{
					ContentUIDs: []string{"a1", "a2"},
					Type:        document.AnnotationTableStructure,
					Data:        document.AnnotationData{Index: [2]int{0, 0}, Span: [2]int{1, 1}},
				},
				ann("b", 0, 1, 1, 1),
			},
		}

		tables, err := grid.Tables(doc, grid.DefaultConfig())
		require.NoError(t, err)
		require.Len(t, tables, 1)
		assert.Equal(t, grid.Grid{{"split cell", "other"}}, tables[0].Grid)
	})

	t.Run("groups figure extracted annotations by owner", func(t *testing.T) {
		t.Parallel()

		doc := &document.Document{
			ContentTree: &document.ContentNode{
				UID:  "0",
				Type: document.CategoryDocument,
				Children: []*document.ContentNode{
					{UID: "fig", Type: document.CategoryFigure},
				},
			},
			Annotations: []document.Annotation{
				figureAnn("fig", 0, 0, 1, 1, str("k")),
				figureAnn("fig", 0, 1, 1, 1, str("v")),
			},
		}

		tables, err := grid.Tables(doc, grid.DefaultConfig())
		require.NoError(t, err)
		require.Len(t, tables, 1)
		assert.Equal(t, "fig", tables[0].ID)
		assert.Equal(t, document.CategoryFigure, tables[0].Category)
		assert.Equal(t, grid.Grid{{"k", "v"}}, tables[0].Grid)
	})

	t.Run("rejects a cell linked by both annotation types", func(t *testing.T) {
		t.Parallel()

		doc := tableDocument()
		doc.Annotations = append(doc.Annotations, figureAnn("m3", 1, 1, 1, 1, str("x")))

		_, err := grid.Tables(doc, grid.DefaultConfig())
		assert.ErrorIs(t, err, document.ErrTaxonomy)
	})
}

func TestBuilderCellAnnotations(t *testing.T) {
	t.Parallel()

	b := grid.NewBuilder(tableDocument(), grid.DefaultConfig())
	linked := b.CellAnnotations("m1")
	require.Len(t, linked, 1)
	assert.Equal(t, [2]int{1, 2}, linked[0].Data.Span)
	assert.Empty(t, b.CellAnnotations("1"))
	assert.Contains(t, b.Nodes(), "t1")
}
