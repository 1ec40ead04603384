package grid

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/hanpama/kenvert/internal/document"
)

// Frame is a table split into column labels and data rows.
type Frame struct {
	Columns   []string
	Rows      [][]string
	Locations []document.Location
}

// NewFrame converts g into a Frame. With useFirstRowAsHeader the first row
// becomes the column labels, provided the grid has more than one row.
// Otherwise columns are labelled by their position.
func NewFrame(g Grid, useFirstRowAsHeader bool) *Frame {
	if useFirstRowAsHeader && g.Rows() > 1 {
		return &Frame{
			Columns: g[0],
			Rows:    g[1:],
		}
	}

	columns := make([]string, g.Cols())
	for i := range columns {
		columns[i] = strconv.Itoa(i)
	}
	return &Frame{
		Columns: columns,
		Rows:    g,
	}
}

// String renders the frame as a text table with a leading index column.
func (f *Frame) String() string {
	style := table.StyleLight
	style.Format.Header = text.FormatDefault

	t := table.NewWriter()
	t.SetStyle(style)

	header := table.Row{""}
	for _, col := range f.Columns {
		header = append(header, col)
	}
	t.AppendHeader(header)

	for i, row := range f.Rows {
		r := table.Row{i}
		for _, cell := range row {
			r = append(r, cell)
		}
		t.AppendRow(r)
	}

	return t.Render()
}

// WriteCSV writes the frame as CSV with a leading unnamed index column.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{""}, f.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, row := range f.Rows {
		record := append([]string{strconv.Itoa(i)}, row...)
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
