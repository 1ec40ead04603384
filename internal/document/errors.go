package document

import "errors"

var (
	// ErrValidation reports input that does not have the expected shape.
	ErrValidation = errors.New("invalid document")

	// ErrTaxonomy reports an unknown content category or annotation type.
	ErrTaxonomy = errors.New("unrecognized type")

	// ErrGrid reports a table whose annotations cannot form a grid.
	ErrGrid = errors.New("invalid table grid")
)
