package grid

import (
	"fmt"

	"github.com/hanpama/kenvert/internal/document"
)

// Validation selects how missing grid positions are treated once merged
// cells have been duplicated.
type Validation int

const (
	// Backfill fills every missing position with an empty cell.
	Backfill Validation = iota

	// Strict rejects tables in which a whole row or column is never referenced.
	Strict
)

func (v Validation) String() string {
	switch v {
	case Backfill:
		return "backfill"
	case Strict:
		return "strict"
	}
	return fmt.Sprintf("Validation(%d)", int(v))
}

// ParseValidation parses "backfill" or "strict".
func ParseValidation(s string) (Validation, error) {
	switch s {
	case "backfill", "":
		return Backfill, nil
	case "strict":
		return Strict, nil
	}
	return Backfill, fmt.Errorf("unknown grid validation %q", s)
}

// Duplicate expands every annotation spanning more than one cell into one
// annotation per covered position, each with span (1, 1).
//
// When duplicateContent is true every covered position links the content of
// the merged cell. Otherwise only the top left position does and the others
// are left empty. Locations are copied unchanged to every position.
func Duplicate(annotations []document.Annotation, duplicateContent bool, validation Validation) ([]document.Annotation, error) {
	if len(annotations) == 0 {
		return nil, nil
	}

	duplicated := make([]document.Annotation, 0, len(annotations))
	maxRow, maxCol := 0, 0

	for _, ann := range annotations {
		rowSpan, colSpan := ann.Data.RowSpan(), ann.Data.ColSpan()
		if rowSpan < 1 || colSpan < 1 {
			return nil, fmt.Errorf("%w: span (%d, %d) at index (%d, %d) must be at least (1, 1)",
				document.ErrGrid, rowSpan, colSpan, ann.Data.Row(), ann.Data.Col())
		}
		if ann.Data.Row() < 0 || ann.Data.Col() < 0 {
			return nil, fmt.Errorf("%w: negative index (%d, %d)", document.ErrGrid, ann.Data.Row(), ann.Data.Col())
		}

		for dr := 0; dr < rowSpan; dr++ {
			for dc := 0; dc < colSpan; dc++ {
				origin := dr == 0 && dc == 0

				copied := document.Annotation{
					Type:        ann.Type,
					ContentUIDs: ann.ContentUIDs,
					Data: document.AnnotationData{
						Index: [2]int{ann.Data.Row() + dr, ann.Data.Col() + dc},
						Span:  [2]int{1, 1},
						Value: ann.Data.Value,
					},
					Locations: ann.Locations,
				}
				if !duplicateContent && !origin {
					copied.ContentUIDs = []string{}
					copied.Data.Value = emptyValue()
				}

				duplicated = append(duplicated, copied)
				maxRow = max(maxRow, copied.Data.Row())
				maxCol = max(maxCol, copied.Data.Col())
			}
		}
	}

	return validate(duplicated, maxRow, maxCol, validation)
}

func validate(duplicated []document.Annotation, maxRow, maxCol int, validation Validation) ([]document.Annotation, error) {
	for _, ann := range duplicated {
		if ann.Data.Span != [2]int{1, 1} {
			return nil, fmt.Errorf("%w: un-duplicated merged cells in table", document.ErrGrid)
		}
	}

	seen := make(map[[2]int]bool, len(duplicated))
	rows := make(map[int]bool)
	cols := make(map[int]bool)
	for _, ann := range duplicated {
		if seen[ann.Data.Index] {
			return nil, fmt.Errorf("%w: overlapping indices in table at (%d, %d)",
				document.ErrGrid, ann.Data.Row(), ann.Data.Col())
		}
		seen[ann.Data.Index] = true
		rows[ann.Data.Row()] = true
		cols[ann.Data.Col()] = true
	}

	switch validation {
	case Strict:
		for r := 0; r <= maxRow; r++ {
			if !rows[r] {
				return nil, fmt.Errorf("%w: empty row %d in table", document.ErrGrid, r)
			}
		}
		for c := 0; c <= maxCol; c++ {
			if !cols[c] {
				return nil, fmt.Errorf("%w: empty column %d in table", document.ErrGrid, c)
			}
		}
	case Backfill:
		typ := duplicated[0].Type
		for r := 0; r <= maxRow; r++ {
			for c := 0; c <= maxCol; c++ {
				if !seen[[2]int{r, c}] {
					duplicated = append(duplicated, emptyAnnotation(typ, r, c))
				}
			}
		}
	default:
		return nil, fmt.Errorf("unknown grid validation %s", validation)
	}

	return duplicated, nil
}

func emptyAnnotation(typ document.AnnotationType, row, col int) document.Annotation {
	return document.Annotation{
		Type:        typ,
		ContentUIDs: []string{},
		Data: document.AnnotationData{
			Index: [2]int{row, col},
			Span:  [2]int{1, 1},
			Value: emptyValue(),
		},
	}
}

func emptyValue() *string {
	s := ""
	return &s
}
