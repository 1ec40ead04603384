package render

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/hanpama/kenvert/internal/grid"
)

// BoxTable draws t as an ASCII box table. Merged cells are drawn as one box
// and column widths follow the display width of the cell text, so wide
// characters stay aligned.
func BoxTable(t *grid.Table) string {
	if t == nil || t.Grid.Rows() == 0 {
		return ""
	}
	return newBox(t.Grid.Rows(), t.Grid.Cols(), t.Cells).render()
}

// box is the computed geometry of a table before drawing.
type box struct {
	rows, cols int
	cells      []grid.Cell

	owner      [][]int    // owner[row][col] = index into cells, -1 when uncovered
	colWidths  []int      // content width for each column
	rowHeights []int      // display lines for each table row
	lines      [][]string // cell text split by newlines
}

func newBox(rows, cols int, cells []grid.Cell) *box {
	b := &box{
		rows:       rows,
		cols:       cols,
		cells:      cells,
		owner:      make([][]int, rows),
		colWidths:  make([]int, cols),
		rowHeights: make([]int, rows),
		lines:      make([][]string, len(cells)),
	}

	for r := range b.owner {
		b.owner[r] = make([]int, cols)
		for c := range b.owner[r] {
			b.owner[r][c] = -1
		}
	}

	for i, cell := range cells {
		for r := 0; r < cell.RowSpan && cell.Row+r < rows; r++ {
			for c := 0; c < cell.ColSpan && cell.Col+c < cols; c++ {
				b.owner[cell.Row+r][cell.Col+c] = i
			}
		}
		b.lines[i] = strings.Split(cell.Text, "\n")
	}

	b.computeColWidths()
	b.computeRowHeights()
	return b
}

func (b *box) textWidth(i int) int {
	width := 0
	for _, line := range b.lines[i] {
		width = max(width, runewidth.StringWidth(line))
	}
	return width
}

func (b *box) computeColWidths() {
	for i := range b.colWidths {
		b.colWidths[i] = 1
	}

	// Single column cells set the base widths.
	for i, cell := range b.cells {
		if cell.ColSpan == 1 && cell.Col < b.cols {
			b.colWidths[cell.Col] = max(b.colWidths[cell.Col], b.textWidth(i))
		}
	}

	// Merged cells spread any missing width over their columns.
	for i, cell := range b.cells {
		if cell.ColSpan <= 1 {
			continue
		}
		span := min(cell.ColSpan, b.cols-cell.Col)
		total := 0
		for c := 0; c < span; c++ {
			total += b.colWidths[cell.Col+c]
		}
		total += (span - 1) * 3

		need := b.textWidth(i)
		if need <= total {
			continue
		}
		extra := need - total
		for c := 0; c < span; c++ {
			b.colWidths[cell.Col+c] += extra / span
			if c < extra%span {
				b.colWidths[cell.Col+c]++
			}
		}
	}
}

func (b *box) computeRowHeights() {
	for r := range b.rowHeights {
		b.rowHeights[r] = 1
	}
	for i, cell := range b.cells {
		if cell.Row < b.rows {
			b.rowHeights[cell.Row] = max(b.rowHeights[cell.Row], len(b.lines[i]))
		}
	}
}

func (b *box) render() string {
	var sb strings.Builder

	sb.WriteString(b.border(-1))
	sb.WriteString("\n")

	for r := 0; r < b.rows; r++ {
		for line := 0; line < b.rowHeights[r]; line++ {
			sb.WriteString(b.content(r, line))
			sb.WriteString("\n")
		}
		sb.WriteString(b.border(r))
		sb.WriteString("\n")
	}

	return sb.String()
}

// border draws the horizontal line below row r, or the top line for r = -1.
func (b *box) border(r int) string {
	var sb strings.Builder
	sb.WriteString("+")

	for c := 0; c < b.cols; c++ {
		fill := " "
		if b.splitsRows(r, c) {
			fill = "-"
		}
		sb.WriteString(strings.Repeat(fill, b.colWidths[c]+2))

		if c < b.cols-1 {
			if b.splitsCols(r, c) {
				sb.WriteString("+")
			} else {
				sb.WriteString("-")
			}
		}
	}

	sb.WriteString("+")
	return sb.String()
}

func (b *box) splitsRows(r, c int) bool {
	if r == -1 || r == b.rows-1 {
		return true
	}
	return b.owner[r][c] != b.owner[r+1][c]
}

func (b *box) splitsCols(r, c int) bool {
	if r == -1 || r == b.rows-1 {
		return true
	}
	return b.owner[r][c] != b.owner[r][c+1] || b.owner[r+1][c] != b.owner[r+1][c+1]
}

// content draws display line n of table row r.
func (b *box) content(r, n int) string {
	var sb strings.Builder
	sb.WriteString("|")

	c := 0
	for c < b.cols {
		i := b.owner[r][c]
		span := 1
		text := ""
		if i >= 0 {
			cell := b.cells[i]
			if cell.Col != c {
				c++
				continue
			}
			span = min(cell.ColSpan, b.cols-c)
			// Row-spanning cells only show text in their first row.
			if cell.Row == r && n < len(b.lines[i]) {
				text = b.lines[i][n]
			}
		}

		width := 0
		for k := 0; k < span; k++ {
			width += b.colWidths[c+k]
		}
		width += (span - 1) * 3

		sb.WriteString(" ")
		sb.WriteString(text)
		sb.WriteString(strings.Repeat(" ", max(width-runewidth.StringWidth(text), 0)))
		sb.WriteString(" ")

		c += span
		if c < b.cols {
			sb.WriteString("|")
		}
	}

	sb.WriteString("|")
	return sb.String()
}
