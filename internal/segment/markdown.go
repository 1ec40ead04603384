package segment

import (
	"strings"

	"github.com/hanpama/kenvert/internal/document"
)

// MarkdownPrefix returns the heading marker for a content category.
func MarkdownPrefix(c document.Category) string {
	switch c {
	case document.CategoryTitle, document.CategoryH1:
		return "# "
	case document.CategoryH2:
		return "## "
	case document.CategoryTableTitle,
		document.CategoryFigureTitle,
		document.CategoryImageTitle,
		document.CategoryTableOfContentsTitle,
		document.CategoryH3:
		return "### "
	case document.CategoryH4:
		return "#### "
	case document.CategoryH5:
		return "##### "
	}
	return ""
}

// MarkdownText returns the segment text with its heading marker.
func MarkdownText(s Segment) string {
	return MarkdownPrefix(s.Type) + s.Text
}

// TableMarkdown renders a grid as a Markdown table. A separator row follows
// the first row and the output ends with a newline.
func TableMarkdown(table [][]string) string {
	var sb strings.Builder
	for i, row := range table {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("| ")
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteString(" |")

		if i == 0 {
			sep := make([]string, len(row))
			for j := range sep {
				sep[j] = "---"
			}
			sb.WriteString("\n| ")
			sb.WriteString(strings.Join(sep, " | "))
			sb.WriteString(" |")
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// Sections splits segments into runs that each start at a title or h1
// segment. Segments before the first title form their own section.
func Sections(segments []Segment) [][]Segment {
	var sections [][]Segment
	var current []Segment
	for _, s := range segments {
		if (s.Type == document.CategoryTitle || s.Type == document.CategoryH1) && len(current) > 0 {
			sections = append(sections, current)
			current = nil
		}
		current = append(current, s)
	}
	if len(current) > 0 {
		sections = append(sections, current)
	}
	return sections
}
