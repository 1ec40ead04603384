package render_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/kenvert/internal/document"
	"github.com/hanpama/kenvert/internal/render"
	"github.com/hanpama/kenvert/internal/segment"
)

func seg(c document.Category, text string, pages ...int) segment.Segment {
	s := segment.Segment{Type: c, Category: c.Lower(), Text: text}
	for _, p := range pages {
		s.Locations = append(s.Locations, document.Location{Width: 1, Height: 1, PageNumber: p})
	}
	return s
}

func TestText(t *testing.T) {
	t.Parallel()

	segs := []segment.Segment{
		seg(document.CategoryTitle, "Foo"),
		seg(document.CategoryText, "Bar"),
	}
	assert.Equal(t, "Foo\nBar", render.Text(segs))
	assert.Equal(t, "", render.Text(nil))
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("title and text", func(t *testing.T) {
		t.Parallel()

		segs := []segment.Segment{
			seg(document.CategoryTitle, "Foo"),
			seg(document.CategoryText, "Bar"),
		}
		assert.Equal(t, "# Foo\nBar", render.Markdown(segs))
		assert.Equal(t, render.Markdown(segs), render.Markdown(segs))
	})

	t.Run("heading levels", func(t *testing.T) {
		t.Parallel()

		segs := []segment.Segment{
			seg(document.CategoryH1, "one"),
			seg(document.CategoryH2, "two"),
			seg(document.CategoryH3, "three"),
			seg(document.CategoryTableTitle, "table title"),
			seg(document.CategoryH4, "four"),
			seg(document.CategoryH5, "five"),
			seg(document.CategoryFootnote, "note"),
		}
		assert.Equal(t, strings.Join([]string{
			"# one",
			"## two",
			"### three",
			"### table title",
			"#### four",
			"##### five",
			"note",
		}, "\n"), render.Markdown(segs))
	})
}

func TestByPage(t *testing.T) {
	t.Parallel()

	t.Run("groups by page number", func(t *testing.T) {
		t.Parallel()

		segs := []segment.Segment{
			seg(document.CategoryTitle, "Random Title", 1),
			seg(document.CategoryText, "About things.", 1),
			seg(document.CategoryH1, "Page 2", 2),
			seg(document.CategoryText, "Not about things.", 2),
		}

		assert.Equal(t, []string{
			"Random Title\nAbout things.",
			"Page 2\nNot about things.",
		}, render.TextByPage(segs, nil))
		assert.Equal(t, []string{
			"# Random Title\nAbout things.",
			"# Page 2\nNot about things.",
		}, render.MarkdownByPage(segs, nil))
	})

	t.Run("puts segments without locations on page 0", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))

		segs := []segment.Segment{
			seg(document.CategoryText, "late", 3),
			seg(document.CategoryText, "floating"),
		}

		assert.Equal(t, []string{"floating", "late"}, render.TextByPage(segs, logger))
		assert.Contains(t, logs.String(), "page 0")
	})

	t.Run("repeats segments spanning pages", func(t *testing.T) {
		t.Parallel()

		segs := []segment.Segment{seg(document.CategoryText, "both", 1, 2)}
		assert.Equal(t, []string{"both", "both"}, render.TextByPage(segs, nil))
	})
}

func TestWriteSegmentsJSON(t *testing.T) {
	t.Parallel()

	t.Run("text and table", func(t *testing.T) {
		t.Parallel()

		segs := []segment.Segment{
			seg(document.CategoryText, "a < b"),
			{Type: document.CategoryTable, Category: "table", Text: "| x |\n| --- |\n", Table: [][]string{{"x"}}},
		}

		var buf bytes.Buffer
		require.NoError(t, render.WriteSegmentsJSON(&buf, segs))
		assert.JSONEq(t, `[
			{"category": "text", "text": "a < b"},
			{"category": "table", "text": "| x |\n| --- |\n", "table": [["x"]]}
		]`, buf.String())
		assert.Contains(t, buf.String(), "a < b")
	})

	t.Run("locations", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, render.WriteSegmentsJSON(&buf, []segment.Segment{seg(document.CategoryText, "x", 4)}))
		assert.JSONEq(t, `[{"category": "text", "text": "x",
			"locations": [{"height": 1, "width": 1, "x": 0, "y": 0, "page_number": 4}]}]`, buf.String())
	})

	t.Run("requested locations that are absent", func(t *testing.T) {
		t.Parallel()

		s := seg(document.CategoryText, "x")
		s.LocationsRequested = true

		var buf bytes.Buffer
		require.NoError(t, render.WriteSegmentsJSON(&buf, []segment.Segment{s}))
		assert.JSONEq(t, `[{"category": "text", "text": "x", "locations": null}]`, buf.String())
		assert.Contains(t, buf.String(), `"locations": null`)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, render.WriteSegmentsJSON(&buf, nil))
		assert.Equal(t, "[]\n", buf.String())
	})
}

func TestHTML(t *testing.T) {
	t.Parallel()

	segs := []segment.Segment{
		seg(document.CategoryTitle, "Report"),
		{Type: document.CategoryTable, Category: "table", Text: segment.TableMarkdown([][]string{{"H", "Q1"}, {"x", "1"}})},
	}

	html, err := render.HTML(render.Markdown(segs))
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Report</h1>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<th>Q1</th>")
	assert.Contains(t, html, "<td>1</td>")
}
