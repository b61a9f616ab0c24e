// Package masonry packs project cards into a fixed number of columns.
//
// Pack is a greedy single pass over the tiles. It does not search for the
// shortest grid; it keeps spans aligned and otherwise fills the lowest
// column first.
package masonry

import "math"

// Shape hints how many columns a tile wants to span.
type Shape string

const (
	ShapeNormal Shape = "normal"
	ShapeWide   Shape = "wide"
	ShapeTall   Shape = "tall"
)

// Normalize maps unrecognized shapes to ShapeNormal.
func (s Shape) Normalize() Shape {
	switch s {
	case ShapeWide, ShapeTall:
		return s
	default:
		return ShapeNormal
	}
}

// Tile is one card to lay out. A height that is not a positive finite
// number means the default height.
type Tile struct {
	ID     string  `json:"id"`
	Shape  Shape   `json:"shape"`
	Height float64 `json:"height,omitempty"`
}

// Placement is where a tile ended up, in pixels relative to the container.
type Placement struct {
	ID     string  `json:"id"`
	Column int     `json:"column"`
	Span   int     `json:"span"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Options controls the grid geometry.
type Options struct {
	Columns       int
	Gap           float64
	DefaultHeight float64
}

// DefaultOptions returns the five column grid used on every page.
func DefaultOptions() Options {
	return Options{Columns: 5, Gap: 16, DefaultHeight: 240}
}

// ColumnWidth is the width of a single column for the given container width.
func (o Options) ColumnWidth(width float64) float64 {
	if o.Columns <= 0 {
		return 0
	}
	return (width - float64(o.Columns-1)*o.Gap) / float64(o.Columns)
}

// SpanWidth is the width of a tile covering span columns, gaps included.
func (o Options) SpanWidth(columnWidth float64, span int) float64 {
	return columnWidth*float64(span) + o.Gap*float64(span-1)
}

// Pack places tiles in input order. It returns nil while the container
// has no usable width, and an empty slice for an empty tile list.
func Pack(tiles []Tile, width float64, opts Options) []Placement {
	colWidth := opts.ColumnWidth(width)
	if !(colWidth > 0) || math.IsInf(colWidth, 0) {
		return nil
	}

	p := packer{opts: opts, heights: make([]float64, opts.Columns)}
	out := make([]Placement, 0, len(tiles))
	for _, t := range tiles {
		col, span := p.slot(t.Shape.Normalize())

		h := t.Height
		if !(h > 0) || math.IsInf(h, 0) {
			h = opts.DefaultHeight
		}
		y := p.heights[col]
		for c := col; c < col+span; c++ {
			p.heights[c] = y + h + opts.Gap
		}

		out = append(out, Placement{
			ID:     t.ID,
			Column: col,
			Span:   span,
			X:      float64(col) * (colWidth + opts.Gap),
			Y:      y,
			Width:  opts.SpanWidth(colWidth, span),
			Height: h,
		})
	}
	return out
}

// packer holds the per-column running heights for a single Pack call.
type packer struct {
	opts    Options
	heights []float64
	wide    int
}

func (p *packer) slot(shape Shape) (col, span int) {
	switch {
	case shape == ShapeWide && p.opts.Columns >= 3:
		anchor := 0
		if p.wide%2 == 1 {
			anchor = 2
		}
		p.wide++
		if p.level(anchor, 3) {
			return anchor, 3
		}
	case shape == ShapeTall && p.opts.Columns >= 2:
		for i := 0; i < p.opts.Columns-1; i++ {
			if p.level(i, 2) {
				return i, 2
			}
		}
	}
	return p.lowest(), 1
}

// level reports whether columns [col, col+span) exist and all sit at the
// global minimum height.
func (p *packer) level(col, span int) bool {
	if col+span > len(p.heights) {
		return false
	}
	low := p.heights[p.lowest()]
	for c := col; c < col+span; c++ {
		if p.heights[c] != low {
			return false
		}
	}
	return true
}

// lowest returns the index of the shortest column, preferring the leftmost.
func (p *packer) lowest() int {
	best := 0
	for i, h := range p.heights {
		if h < p.heights[best] {
			best = i
		}
	}
	return best
}

// Extent is the height of the packed grid: the tallest column without its
// trailing gap.
func Extent(placements []Placement) float64 {
	var bottom float64
	for _, pl := range placements {
		if b := pl.Y + pl.Height; b > bottom {
			bottom = b
		}
	}
	return bottom
}
