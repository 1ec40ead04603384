package kenvert_test

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/kenvert"
)

const fixture = "testdata/extract_output.json"

const tableMarkdown = "| Year | Revenue | Revenue |\n| --- | --- | --- |\n| 2020 | 100 | 200 |\n"

func options() kenvert.Options {
	opts := kenvert.DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

func load(t *testing.T) *kenvert.Document {
	t.Helper()

	doc, err := kenvert.LoadFile(fixture)
	require.NoError(t, err)
	return doc
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := kenvert.DefaultOptions()
	assert.False(t, opts.ReturnLocations)
	assert.True(t, opts.DuplicateMergedCells)
	assert.Equal(t, kenvert.Backfill, opts.Validation)
	assert.True(t, opts.UseFirstRowAsHeader)
	assert.Equal(t, 300, opts.PageWidth)
	assert.Equal(t, 100, opts.PageHeight)
	assert.True(t, opts.Resize)
}

func TestSegments(t *testing.T) {
	t.Parallel()

	doc := load(t)

	segs, err := kenvert.Segments(doc, options())
	require.NoError(t, err)

	var categories []string
	for _, s := range segs {
		categories = append(categories, s.Category)
		assert.Nil(t, s.Locations)
	}
	assert.Equal(t, []string{"title", "text", "table", "h1", "text"}, categories)
	assert.Equal(t, [][]string{{"Year", "Revenue", "Revenue"}, {"2020", "100", "200"}}, segs[2].Table)
	assert.Equal(t, tableMarkdown, segs[2].Text)

	opts := options()
	opts.ReturnLocations = true
	segs, err = kenvert.Segments(doc, opts)
	require.NoError(t, err)
	require.Len(t, segs[0].Locations, 1)
	assert.Equal(t, 1, segs[0].Locations[0].PageNumber)
	assert.Nil(t, segs[4].Locations)
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	doc := load(t)

	md, err := kenvert.Markdown(doc, options())
	require.NoError(t, err)
	assert.Equal(t, "# ESTIMATE for Kensho\n"+
		"Machine learning (ML) is a field of study.\n"+
		tableMarkdown+"\n"+
		"# Appendix\n"+
		"Floating note", md)

	text, err := kenvert.Text(doc, options())
	require.NoError(t, err)
	assert.Equal(t, "ESTIMATE for Kensho\n"+
		"Machine learning (ML) is a field of study.\n"+
		tableMarkdown+"\n"+
		"Appendix\n"+
		"Floating note", text)

	again, err := kenvert.Markdown(doc, options())
	require.NoError(t, err)
	assert.Equal(t, md, again)
}

func TestByPage(t *testing.T) {
	t.Parallel()

	doc := load(t)

	pages, err := kenvert.TextByPage(doc, options())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Floating note",
		"ESTIMATE for Kensho\nMachine learning (ML) is a field of study.",
		tableMarkdown + "\nAppendix",
	}, pages)

	pages, err = kenvert.MarkdownByPage(doc, options())
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "# ESTIMATE for Kensho\nMachine learning (ML) is a field of study.", pages[1])
	assert.Equal(t, tableMarkdown+"\n# Appendix", pages[2])
}

func TestSections(t *testing.T) {
	t.Parallel()

	sections, err := kenvert.Sections(load(t), options())
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Len(t, sections[0], 3)
	assert.Equal(t, "Appendix", sections[1][0].Text)
	assert.Equal(t, "Floating note", sections[1][1].Text)
}

func TestTableGrids(t *testing.T) {
	t.Parallel()

	doc := load(t)

	grids, err := kenvert.TableGrids(doc, options())
	require.NoError(t, err)
	assert.Equal(t, map[string]kenvert.TableGrid{
		"3": {
			Category: "table",
			Grid:     [][]string{{"Year", "Revenue", "Revenue"}, {"2020", "100", "200"}},
		},
	}, grids)

	opts := options()
	opts.DuplicateMergedCells = false
	grids, err = kenvert.TableGrids(doc, opts)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Year", "Revenue", ""}, {"2020", "100", "200"}}, grids["3"].Grid)
}

func TestTables(t *testing.T) {
	t.Parallel()

	doc := load(t)

	frames, err := kenvert.Tables(doc, options())
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, []string{"Year", "Revenue", "Revenue"}, frames[0].Columns)
	assert.Equal(t, [][]string{{"2020", "100", "200"}}, frames[0].Rows)
	require.Len(t, frames[0].Locations, 1)
	assert.Equal(t, 2, frames[0].Locations[0].PageNumber)

	tables, err := kenvert.TableStructures(doc, options())
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Merges, 1)
	assert.Len(t, tables[0].Cells, 5)
}

func TestRenderPages(t *testing.T) {
	t.Parallel()

	pages, err := kenvert.RenderPages(load(t), options())
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Contains(t, pages[0], "ESTIMATE for Kensho")
	assert.Contains(t, pages[0], "Machine learning (ML) is a field of study.")
	assert.Contains(t, pages[1], "Year")
	assert.Contains(t, pages[1], "Appendix")
	assert.NotContains(t, pages[1], "Floating note")
	for _, p := range pages {
		assert.True(t, strings.HasSuffix(p, "\n"+strings.Repeat("=", 87)))
	}
}

func TestHTML(t *testing.T) {
	t.Parallel()

	html, err := kenvert.HTML(load(t), options())
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>ESTIMATE for Kensho</h1>")
	assert.Contains(t, html, "<td>2020</td>")
}

func TestConvert(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile(fixture)
	require.NoError(t, err)

	for _, f := range kenvert.Formats() {
		t.Run(string(f), func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			require.NoError(t, kenvert.Convert(bytes.NewReader(data), &out, f, options()))
			assert.NotEmpty(t, out.String())
		})
	}

	t.Run("markdown output", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		require.NoError(t, kenvert.Convert(bytes.NewReader(data), &out, kenvert.FormatMarkdown, options()))
		assert.True(t, strings.HasPrefix(out.String(), "# ESTIMATE for Kensho\n"))
		assert.True(t, strings.HasSuffix(out.String(), "Floating note\n"))
	})

	t.Run("csv output", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		require.NoError(t, kenvert.Convert(bytes.NewReader(data), &out, kenvert.FormatCSV, options()))
		assert.Equal(t, ",Year,Revenue,Revenue\n0,2020,100,200\n", out.String())
	})

	t.Run("json marks absent locations", func(t *testing.T) {
		t.Parallel()

		opts := options()
		opts.ReturnLocations = true

		var out bytes.Buffer
		require.NoError(t, kenvert.Convert(bytes.NewReader(data), &out, kenvert.FormatJSON, opts))
		assert.Contains(t, out.String(), `"page_number": 2`)
		assert.Contains(t, out.String(), "\"text\": \"Floating note\",\n    \"locations\": null")

		out.Reset()
		require.NoError(t, kenvert.Convert(bytes.NewReader(data), &out, kenvert.FormatJSON, options()))
		assert.NotContains(t, out.String(), `"locations"`)
	})

	t.Run("invalid input writes nothing", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		err := kenvert.Convert(strings.NewReader(`{"annotations": []}`), &out, kenvert.FormatText, options())
		assert.ErrorIs(t, err, kenvert.ErrValidation)
		assert.Empty(t, out.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		err := kenvert.Convert(bytes.NewReader(data), io.Discard, kenvert.Format("pdf"), options())
		assert.Error(t, err)
	})
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := kenvert.ParseFormat("Markdown")
	require.NoError(t, err)
	assert.Equal(t, kenvert.FormatMarkdown, f)

	_, err = kenvert.ParseFormat("docx")
	assert.Error(t, err)
}

func TestGridValidation(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile(fixture)
	require.NoError(t, err)

	t.Run("strict rejects an empty column", func(t *testing.T) {
		t.Parallel()

		// Moving the last cell to column 4 leaves column 3 empty.
		input := strings.Replace(string(data), `"index": [1, 2]`, `"index": [1, 4]`, 1)
		doc, err := kenvert.Load(strings.NewReader(input))
		require.NoError(t, err)

		opts := options()
		opts.Validation = kenvert.Strict
		_, err = kenvert.TableGrids(doc, opts)
		require.ErrorIs(t, err, kenvert.ErrGrid)
		assert.Contains(t, err.Error(), "empty column 3")

		grids, err := kenvert.TableGrids(doc, options())
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"Year", "Revenue", "Revenue", "", ""},
			{"2020", "100", "", "", "200"},
		}, grids["3"].Grid)
	})

	t.Run("cell without annotation", func(t *testing.T) {
		t.Parallel()

		input := strings.Replace(string(data), `"content_uids": ["3e"]`, `"content_uids": ["3x"]`, 1)
		doc, err := kenvert.Load(strings.NewReader(input))
		require.NoError(t, err)

		_, err = kenvert.TableGrids(doc, options())
		assert.ErrorIs(t, err, kenvert.ErrGrid)
	})
}
