package document_test

import (
	"encoding/json"
	"testing"

	"github.com/hanpama/kenvert/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	for _, c := range document.Categories() {
		parsed, err := document.ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := document.ParseCategory("table")
	assert.ErrorIs(t, err, document.ErrTaxonomy)
}

func TestCategoryLower(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "table_of_contents_title", document.CategoryTableOfContentsTitle.Lower())
	assert.Equal(t, "h1", document.CategoryH1.Lower())
	assert.False(t, document.Category(999).Known())
	assert.False(t, document.CategoryUnknown.Known())
}

func TestCategoryJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(document.CategoryPageFooter)
	require.NoError(t, err)
	assert.JSONEq(t, `"PAGE_FOOTER"`, string(data))

	_, err = json.Marshal(document.CategoryUnknown)
	assert.Error(t, err)

	var typ document.AnnotationType
	require.NoError(t, json.Unmarshal([]byte(`"figure_extracted_table_structure"`), &typ))
	assert.Equal(t, document.AnnotationFigureExtractedTableStructure, typ)
}
