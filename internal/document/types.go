package document

// Location is a bounding box normalized to the page: every coordinate is a
// fraction of the page width or height.
type Location struct {
	Height     float64 `json:"height"`
	Width      float64 `json:"width"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	PageNumber int     `json:"page_number"`
}

// FullPage returns the synthetic location used when a node carries no
// location data at all.
func FullPage() Location {
	return Location{Height: 1, Width: 1, X: 0, Y: 0, PageNumber: 0}
}

// ContentNode is one element of the extracted document tree.
type ContentNode struct {
	UID      string         `json:"uid"`
	Type     Category       `json:"type"`
	Content  *string        `json:"content"`
	Children []*ContentNode `json:"children"`

	// Locations is nil when the extraction carried no location data.
	Locations []Location `json:"locations,omitempty"`
}

// Text returns the node content, or "" for structural nodes without content.
func (n *ContentNode) Text() string {
	if n.Content == nil {
		return ""
	}
	return *n.Content
}

// HasLocations reports whether location data was present for the node.
func (n *ContentNode) HasLocations() bool {
	return n.Locations != nil
}

// AnnotationData holds the grid position of a table cell.
type AnnotationData struct {
	Index [2]int `json:"index"`
	Span  [2]int `json:"span"`

	// Value carries the cell text of figure extracted tables.
	Value *string `json:"value,omitempty"`
}

func (d AnnotationData) Row() int     { return d.Index[0] }
func (d AnnotationData) Col() int     { return d.Index[1] }
func (d AnnotationData) RowSpan() int { return d.Span[0] }
func (d AnnotationData) ColSpan() int { return d.Span[1] }

// Annotation links content nodes to a table grid position.
type Annotation struct {
	ContentUIDs []string       `json:"content_uids"`
	Data        AnnotationData `json:"data"`
	Type        AnnotationType `json:"type"`
	Locations   []Location     `json:"locations,omitempty"`
}

// PageInfo describes the geometry of one source page.
type PageInfo struct {
	Height              float64 `json:"height"`
	Width               float64 `json:"width"`
	RequiredCCWRotation int     `json:"required_ccw_rotation"`
}

// Document is a complete extraction result.
type Document struct {
	Annotations []Annotation `json:"annotations"`
	ContentTree *ContentNode `json:"content_tree"`
	Pages       []PageInfo   `json:"pdf_pages,omitempty"`
}

// Index maps node uids to nodes. The first node wins when a uid repeats.
type Index map[string]*ContentNode

// NewIndex builds an Index over every node reachable from root. Nodes that
// were already indexed are not walked again.
func NewIndex(root *ContentNode) Index {
	idx := make(Index)
	var walk func(n *ContentNode)
	walk = func(n *ContentNode) {
		if n == nil {
			return
		}
		if _, ok := idx[n.UID]; ok {
			return
		}
		idx[n.UID] = n
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
	return idx
}
