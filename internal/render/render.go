// Package render turns extracted segments into text, Markdown, JSON and HTML.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hanpama/kenvert/internal/document"
	"github.com/hanpama/kenvert/internal/segment"
)

// Text joins the segment texts with newlines. Tables appear as Markdown.
func Text(segs []segment.Segment) string {
	texts := make([]string, len(segs))
	for i, s := range segs {
		texts[i] = s.Text
	}
	return strings.Join(texts, "\n")
}

// Markdown joins the segment texts with newlines, prefixing titles and
// headings with their Markdown heading markers.
func Markdown(segs []segment.Segment) string {
	texts := make([]string, len(segs))
	for i, s := range segs {
		texts[i] = segment.MarkdownText(s)
	}
	return strings.Join(texts, "\n")
}

// TextByPage groups segment texts by page number. Segments need locations;
// those without any are put on page 0.
func TextByPage(segs []segment.Segment, logger *slog.Logger) []string {
	return byPage(segs, logger, func(s segment.Segment) string { return s.Text })
}

// MarkdownByPage is TextByPage with Markdown heading markers.
func MarkdownByPage(segs []segment.Segment, logger *slog.Logger) []string {
	return byPage(segs, logger, segment.MarkdownText)
}

func byPage(segs []segment.Segment, logger *slog.Logger, text func(segment.Segment) string) []string {
	if logger == nil {
		logger = slog.Default()
	}

	pages := make(map[int][]string)
	for _, s := range segs {
		locations := s.Locations
		if locations == nil {
			logger.Info("segment has no location, putting it on page 0", "category", s.Category)
			locations = []document.Location{document.FullPage()}
		}
		for _, loc := range locations {
			pages[loc.PageNumber] = append(pages[loc.PageNumber], text(s))
		}
	}

	numbers := make([]int, 0, len(pages))
	for n := range pages {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	out := make([]string, len(numbers))
	for i, n := range numbers {
		out[i] = strings.Join(pages[n], "\n")
	}
	return out
}

// WriteSegmentsJSON writes segs as an indented JSON array.
func WriteSegmentsJSON(w io.Writer, segs []segment.Segment) error {
	if segs == nil {
		segs = []segment.Segment{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(segs); err != nil {
		return fmt.Errorf("error encoding segments: %w", err)
	}
	return nil
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts Markdown text, tables included, to HTML.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("error converting markdown: %w", err)
	}
	return buf.String(), nil
}
