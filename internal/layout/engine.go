package layout

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"
)

// Separator ends every rendered page.
var Separator = strings.Repeat("=", 87)

var errPageTooShort = errors.New("too many lines for the page size")

// Page is the rendered text of one page.
type Page struct {
	Number int
	Text   string
}

// Result is the outcome of Render.
type Result struct {
	// Pages are ordered by page number.
	Pages []Page

	// Width and Height are the canvas size of the final pass.
	Width  int
	Height int

	// Attempts counts every layout pass, the final one included.
	Attempts int

	// Truncated reports whether any words were left off the pages.
	Truncated bool
}

// Texts returns the page texts in page order.
func (r *Result) Texts() []string {
	texts := make([]string, len(r.Pages))
	for i, p := range r.Pages {
		texts[i] = p.Text
	}
	return texts
}

// Render lays items out on character pages.
//
// In resize mode a pass that cannot fit every word is discarded and retried
// with both dimensions grown by cfg.Increment. When cfg.MaxRetries passes
// fail, one more pass at the grown size truncates whatever still overflows.
func Render(items []Item, cfg Config) *Result {
	logger := cfg.logger()
	width, height := cfg.PageWidth, cfg.PageHeight

	res := &Result{}
	if cfg.Resize {
		for range cfg.MaxRetries {
			res.Attempts++
			canvases, _, err := place(items, width, height, true)
			if err == nil {
				res.Pages = clean(canvases)
				res.Width, res.Height = width, height
				return res
			}
			logger.Info("text does not fit the page, growing it",
				"width", width, "height", height,
				"next_width", width+cfg.Increment, "next_height", height+cfg.Increment)
			width += cfg.Increment
			height += cfg.Increment
		}
		logger.Info("text still does not fit after resizing, truncating overflow",
			"width", width, "height", height, "attempts", res.Attempts)
	}

	res.Attempts++
	canvases, truncated, _ := place(items, width, height, false)
	if truncated {
		logger.Info("not enough space to finish some text, skipped remaining words",
			"width", width, "height", height)
	}
	res.Pages = clean(canvases)
	res.Width, res.Height = width, height
	res.Truncated = truncated
	return res
}

type canvas [][]rune

func newCanvas(width, height int) canvas {
	c := make(canvas, height)
	for i := range c {
		c[i] = []rune(strings.Repeat(" ", width))
	}
	return c
}

// place draws every item onto per-page canvases created on first use.
func place(items []Item, width, height int, resize bool) (map[int]canvas, bool, error) {
	pages := make(map[int]canvas)
	truncated := false

	for _, item := range items {
		words := strings.Fields(item.Text)
		for _, loc := range item.Locations {
			page, ok := pages[loc.PageNumber]
			if !ok {
				page = newCanvas(width, height)
				pages[loc.PageNumber] = page
			}

			x0 := int(math.Floor(loc.X * float64(width)))
			y0 := int(math.Floor(loc.Y * float64(height)))
			w := max(int(math.Ceil(loc.Width*float64(width))), 1)
			h := max(int(math.Ceil(loc.Height*float64(height))), 1)

			box, cut, err := wrap(words, w, h, resize)
			if err != nil {
				return nil, false, err
			}
			truncated = truncated || cut

			page.draw(box, x0, y0)
		}
	}
	return pages, truncated, nil
}

// wrap fills a w x h box with words, greedily breaking lines, then spreads
// the used lines over the height of the box.
func wrap(words []string, w, h int, resize bool) (canvas, bool, error) {
	box := newCanvas(w, h)
	row, col := 0, 0
	truncated := false

	for _, word := range words {
		r := []rune(word)
		if col > 0 && col+len(r) > w {
			row++
			col = 0
		}
		if row >= h || col+len(r) > w {
			if resize {
				return nil, false, errPageTooShort
			}
			truncated = true
			break
		}
		copy(box[row][col:], r)
		col += len(r) + 1
	}

	used := min(row+1, h)
	if used == h {
		return box, truncated, nil
	}

	step := h / used
	spread := newCanvas(w, h)
	for i := range used {
		spread[min(i*step, h-1)] = box[i]
	}
	return spread, truncated, nil
}

// draw copies box onto c at (x0, y0), clipping at the canvas edges.
func (c canvas) draw(box canvas, x0, y0 int) {
	for i, line := range box {
		y := y0 + i
		if y < 0 || y >= len(c) {
			continue
		}
		for j, ch := range line {
			x := x0 + j
			if x < 0 || x >= len(c[y]) {
				continue
			}
			c[y][x] = ch
		}
	}
}

func clean(canvases map[int]canvas) []Page {
	numbers := make([]int, 0, len(canvases))
	for n := range canvases {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	pages := make([]Page, 0, len(numbers))
	for _, n := range numbers {
		pages = append(pages, Page{Number: n, Text: canvases[n].String()})
	}
	return pages
}

// String trims the common left margin, collapses runs of blank lines and
// appends the page separator.
func (c canvas) String() string {
	margin := -1
	for _, line := range c {
		n := 0
		for n < len(line) && line[n] == ' ' {
			n++
		}
		if margin < 0 || n < margin {
			margin = n
		}
	}
	margin = max(margin, 0)

	var lines []string
	previousBlank := false
	for _, line := range c {
		text := strings.TrimRightFunc(string(line[min(margin, len(line)):]), unicode.IsSpace)
		blank := text == ""
		if !blank || !previousBlank {
			lines = append(lines, text)
		}
		previousBlank = blank
	}

	page := strings.TrimRightFunc(strings.Join(lines, "\n"), unicode.IsSpace)
	return page + "\n" + Separator
}
