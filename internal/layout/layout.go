// Package layout draws located text onto fixed-size character pages so the
// output roughly follows the visual layout of the source document.
package layout

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/hanpama/kenvert/internal/document"
	"github.com/hanpama/kenvert/internal/grid"
	"github.com/hanpama/kenvert/internal/segment"
)

// Config controls page rendering.
type Config struct {
	// PageWidth and PageHeight are the canvas size in characters.
	PageWidth  int
	PageHeight int

	// Resize grows the canvas when text does not fit. Without it overflowing
	// words are dropped.
	Resize bool

	// MaxRetries bounds the number of resize attempts.
	MaxRetries int

	// Increment is added to both dimensions after each failed attempt.
	Increment int

	Logger *slog.Logger
}

// DefaultConfig returns a 300x100 canvas that may grow ten times by 50.
func DefaultConfig() Config {
	return Config{
		PageWidth:  300,
		PageHeight: 100,
		Resize:     true,
		MaxRetries: 10,
		Increment:  50,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Item is a piece of text placed at one or more page locations.
type Item struct {
	Text      string
	Locations []document.Location
}

// Items collects the located text of doc in pre-order. Text nodes are placed
// at their own locations. Each table cell becomes an item placed at the
// location of its table structure annotation, or at the cell's own location
// when the annotation has none.
func Items(doc *document.Document, logger *slog.Logger) ([]Item, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &collector{
		tables:  grid.NewBuilder(doc, grid.DefaultConfig()),
		visited: make(map[string]bool),
		logger:  logger,
	}
	if err := c.walk(doc.ContentTree); err != nil {
		return nil, err
	}
	return c.items, nil
}

type collector struct {
	tables  *grid.Builder
	visited map[string]bool
	logger  *slog.Logger
	items   []Item
}

func (c *collector) walk(node *document.ContentNode) error {
	if node == nil || c.visited[node.UID] {
		return nil
	}
	c.visited[node.UID] = true

	kind, err := segment.Classify(node.Type)
	if err != nil {
		return err
	}

	switch kind {
	case segment.KindTable:
		for _, child := range node.Children {
			if child.Type != document.CategoryTableCell {
				continue
			}
			c.visited[child.UID] = true
			if err := c.cell(child); err != nil {
				return err
			}
		}
	case segment.KindText:
		if node.Content != nil {
			c.add(node.UID, *node.Content, node.Locations)
		}
	}

	for _, child := range node.Children {
		if err := c.walk(child); err != nil {
			return err
		}
	}
	return nil
}

func (c *collector) cell(node *document.ContentNode) error {
	if node.Content == nil {
		return fmt.Errorf("%w: table cell %q has no text content", document.ErrGrid, node.UID)
	}

	locations := node.Locations
	for _, ann := range c.tables.CellAnnotations(node.UID) {
		if ann.Type == document.AnnotationTableStructure && ann.Locations != nil {
			locations = ann.Locations
			break
		}
	}

	c.add(node.UID, strings.TrimSpace(*node.Content), locations)
	return nil
}

func (c *collector) add(uid, text string, locations []document.Location) {
	if len(locations) == 0 {
		c.logger.Info("content has no location, leaving it off the page", "uid", uid)
		return
	}
	c.items = append(c.items, Item{
		Text:      norm.NFC.String(text),
		Locations: locations,
	})
}
