// Package kenvert converts document extraction output into readable text.
//
// The input is a JSON document holding a content tree of typed nodes and a
// flat list of table structure annotations that place table cells on a grid.
// From it the package derives an ordered list of segments, Markdown and plain
// text, per-page output, sections split on titles, table grids and data
// frames, and a plain-text rendering that follows the page layout.
//
// # Example Usage
//
//	file, err := os.Open("extract_output.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	doc, err := kenvert.Load(file)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	md, err := kenvert.Markdown(doc, kenvert.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(md)
//
// # Tables
//
// Merged cells are copied into every grid position they cover unless
// DuplicateMergedCells is off, in which case only the top-left position
// keeps the text. Grid positions no annotation covers are filled with empty
// strings under the Backfill strategy and rejected under Strict.
package kenvert

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hanpama/kenvert/internal/document"
	"github.com/hanpama/kenvert/internal/grid"
	"github.com/hanpama/kenvert/internal/layout"
	"github.com/hanpama/kenvert/internal/render"
	"github.com/hanpama/kenvert/internal/segment"
)

// Errors reported by Load and the conversions. Use errors.Is to match them.
var (
	// ErrValidation reports input that does not match the document schema.
	ErrValidation = document.ErrValidation
	// ErrTaxonomy reports an unknown content category or annotation type.
	ErrTaxonomy = document.ErrTaxonomy
	// ErrGrid reports table annotations that do not form a valid grid.
	ErrGrid = document.ErrGrid
)

type (
	Document   = document.Document
	Segment    = segment.Segment
	Location   = document.Location
	Table      = grid.Table
	Frame      = grid.Frame
	Validation = grid.Validation
)

const (
	// Backfill fills grid positions without an annotation with "".
	Backfill = grid.Backfill
	// Strict rejects tables with an empty row or column.
	Strict = grid.Strict
)

// ParseValidation returns the grid validation strategy named s, "backfill"
// or "strict".
func ParseValidation(s string) (Validation, error) {
	return grid.ParseValidation(s)
}

// Options controls the conversions. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// ReturnLocations attaches node locations to segments.
	ReturnLocations bool

	// DuplicateMergedCells copies the text of a merged cell into every grid
	// position it covers.
	DuplicateMergedCells bool

	// Validation selects how incomplete grids are handled.
	Validation Validation

	// UseFirstRowAsHeader turns the first row of a table into frame columns.
	UseFirstRowAsHeader bool

	// PageWidth and PageHeight size the RenderPages canvas in characters.
	PageWidth  int
	PageHeight int

	// Resize lets RenderPages grow the canvas instead of truncating text.
	Resize bool

	Logger *slog.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	lc := layout.DefaultConfig()
	return Options{
		DuplicateMergedCells: true,
		Validation:           Backfill,
		UseFirstRowAsHeader:  true,
		PageWidth:            lc.PageWidth,
		PageHeight:           lc.PageHeight,
		Resize:               lc.Resize,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) gridConfig() grid.Config {
	return grid.Config{
		DuplicateMergedCells: o.DuplicateMergedCells,
		Validation:           o.Validation,
	}
}

func (o Options) segmentConfig() segment.Config {
	return segment.Config{
		ReturnLocations: o.ReturnLocations,
		Grid:            o.gridConfig(),
	}
}

func (o Options) layoutConfig() layout.Config {
	cfg := layout.DefaultConfig()
	cfg.PageWidth = o.PageWidth
	cfg.PageHeight = o.PageHeight
	cfg.Resize = o.Resize
	cfg.Logger = o.logger()
	return cfg
}

// Load reads and validates a JSON document.
func Load(r io.Reader) (*Document, error) {
	return document.Load(r)
}

// LoadFile reads and validates the JSON document at path.
func LoadFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer file.Close()

	return document.Load(file)
}

// Segments flattens doc into segments in document order.
func Segments(doc *Document, opts Options) ([]Segment, error) {
	return segment.Extract(doc, opts.segmentConfig())
}

// TableGrid is a reconstructed table and the category of its node.
type TableGrid struct {
	Category string
	Grid     [][]string
}

// TableGrids reconstructs every table of doc, keyed by table node uid.
func TableGrids(doc *Document, opts Options) (map[string]TableGrid, error) {
	tables, err := grid.Tables(doc, opts.gridConfig())
	if err != nil {
		return nil, err
	}

	grids := make(map[string]TableGrid, len(tables))
	for _, t := range tables {
		grids[t.ID] = TableGrid{
			Category: t.Category.Lower(),
			Grid:     t.Grid,
		}
	}
	return grids, nil
}

// TableStructures returns every table of doc in document order, with its
// cells, merged regions and locations.
func TableStructures(doc *Document, opts Options) ([]*Table, error) {
	return grid.Tables(doc, opts.gridConfig())
}

// Tables returns every table of doc as a data frame carrying the table
// locations.
func Tables(doc *Document, opts Options) ([]*Frame, error) {
	tables, err := grid.Tables(doc, opts.gridConfig())
	if err != nil {
		return nil, err
	}

	frames := make([]*Frame, 0, len(tables))
	for _, t := range tables {
		f := grid.NewFrame(t.Grid, opts.UseFirstRowAsHeader)
		f.Locations = t.Locations
		frames = append(frames, f)
	}
	return frames, nil
}

// RenderPages draws doc onto character pages that follow its visual layout,
// one string per page in page order.
func RenderPages(doc *Document, opts Options) ([]string, error) {
	items, err := layout.Items(doc, opts.logger())
	if err != nil {
		return nil, err
	}
	return layout.Render(items, opts.layoutConfig()).Texts(), nil
}

// Text returns the text of doc, tables rendered as Markdown.
func Text(doc *Document, opts Options) (string, error) {
	segs, err := Segments(doc, opts)
	if err != nil {
		return "", err
	}
	return render.Text(segs), nil
}

// Markdown returns doc as Markdown.
func Markdown(doc *Document, opts Options) (string, error) {
	segs, err := Segments(doc, opts)
	if err != nil {
		return "", err
	}
	return render.Markdown(segs), nil
}

// TextByPage returns the text of doc grouped by page. Content without a
// location is put on page 0.
func TextByPage(doc *Document, opts Options) ([]string, error) {
	opts.ReturnLocations = true
	segs, err := Segments(doc, opts)
	if err != nil {
		return nil, err
	}
	return render.TextByPage(segs, opts.logger()), nil
}

// MarkdownByPage returns doc as Markdown grouped by page.
func MarkdownByPage(doc *Document, opts Options) ([]string, error) {
	opts.ReturnLocations = true
	segs, err := Segments(doc, opts)
	if err != nil {
		return nil, err
	}
	return render.MarkdownByPage(segs, opts.logger()), nil
}

// Sections splits the segments of doc into sections, each starting at a
// title or first level heading.
func Sections(doc *Document, opts Options) ([][]Segment, error) {
	segs, err := Segments(doc, opts)
	if err != nil {
		return nil, err
	}
	return segment.Sections(segs), nil
}

// HTML returns doc as HTML rendered from its Markdown.
func HTML(doc *Document, opts Options) (string, error) {
	md, err := Markdown(doc, opts)
	if err != nil {
		return "", err
	}
	return render.HTML(md)
}

// Format is an output format of Convert.
type Format string

const (
	FormatText          Format = "text"
	FormatMarkdown      Format = "markdown"
	FormatTextPages     Format = "text-pages"
	FormatMarkdownPages Format = "markdown-pages"
	FormatLayout        Format = "layout"
	FormatSections      Format = "sections"
	FormatJSON          Format = "json"
	FormatHTML          Format = "html"
	FormatTables        Format = "tables"
	FormatFrames        Format = "frames"
	FormatCSV           Format = "csv"
)

// Formats lists every format Convert accepts.
func Formats() []Format {
	return []Format{
		FormatText, FormatMarkdown, FormatTextPages, FormatMarkdownPages, FormatLayout,
		FormatSections, FormatJSON, FormatHTML, FormatTables, FormatFrames, FormatCSV,
	}
}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// SectionSeparator separates sections in FormatSections output.
const SectionSeparator = "\n\n---\n\n"

// Convert reads one JSON document from r and writes it to w in format f.
// Nothing is written when the conversion fails.
func Convert(r io.Reader, w io.Writer, f Format, opts Options) error {
	doc, err := Load(r)
	if err != nil {
		return err
	}

	out, err := f.convert(doc, opts)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, out)
	return err
}

func (f Format) convert(doc *Document, opts Options) (string, error) {
	switch f {
	case FormatText:
		s, err := Text(doc, opts)
		return line(s), err
	case FormatMarkdown:
		s, err := Markdown(doc, opts)
		return line(s), err
	case FormatTextPages:
		pages, err := TextByPage(doc, opts)
		return joinPages(pages, layout.Separator), err
	case FormatMarkdownPages:
		pages, err := MarkdownByPage(doc, opts)
		return joinPages(pages, layout.Separator), err
	case FormatLayout:
		pages, err := RenderPages(doc, opts)
		return joinPages(pages, ""), err
	case FormatSections:
		sections, err := Sections(doc, opts)
		if err != nil {
			return "", err
		}
		parts := make([]string, len(sections))
		for i, s := range sections {
			parts[i] = render.Markdown(s)
		}
		return line(strings.Join(parts, SectionSeparator)), nil
	case FormatJSON:
		segs, err := Segments(doc, opts)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		if err := render.WriteSegmentsJSON(&sb, segs); err != nil {
			return "", err
		}
		return sb.String(), nil
	case FormatHTML:
		return HTML(doc, opts)
	case FormatTables:
		tables, err := TableStructures(doc, opts)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		for i, t := range tables {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(render.BoxTable(t))
		}
		return sb.String(), nil
	case FormatFrames:
		frames, err := Tables(doc, opts)
		if err != nil {
			return "", err
		}
		parts := make([]string, len(frames))
		for i, fr := range frames {
			parts[i] = fr.String()
		}
		return line(strings.Join(parts, "\n\n")), nil
	case FormatCSV:
		frames, err := Tables(doc, opts)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		for i, fr := range frames {
			if i > 0 {
				sb.WriteString("\n")
			}
			if err := fr.WriteCSV(&sb); err != nil {
				return "", err
			}
		}
		return sb.String(), nil
	}
	return "", fmt.Errorf("unknown format %q", string(f))
}

func line(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// joinPages writes each page on its own lines, followed by sep when set.
func joinPages(pages []string, sep string) string {
	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(line(p))
		if sep != "" {
			sb.WriteString(sep + "\n")
		}
	}
	return sb.String()
}
