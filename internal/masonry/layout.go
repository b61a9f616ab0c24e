package masonry

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Zachkp/portfolio/internal/motion"
)

// Measure is the rendered size of the grid container as reported by the
// browser's resize observer. A zero width means the container is not
// mounted yet.
type Measure struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Ready reports whether the container has been measured.
func (m Measure) Ready() bool { return m.Width > 0 }

// ParseMeasure reads the width and height query values. Anything that is
// not a finite, non-negative number reads as zero.
func ParseMeasure(width, height string) Measure {
	return Measure{Width: parseDim(width), Height: parseDim(height)}
}

func parseDim(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Grid is everything the page needs to draw one masonry pass.
type Grid struct {
	Ready      bool            `json:"ready"`
	Columns    int             `json:"columns"`
	Height     float64         `json:"height"`
	Placements []Placement     `json:"placements"`
	Entrances  motion.Sequence `json:"entrances"`
}

// Target is the CSS selector the page uses for a tile's element.
func Target(id string) string {
	return fmt.Sprintf("[data-key=%q]", id)
}

// Layout packs tiles for the measured container and attaches an entrance
// step for every placement. Every call replays every entrance; nothing is
// diffed against a previous layout.
func Layout(tiles []Tile, m Measure, opts Options) Grid {
	g := Grid{Columns: opts.Columns, Placements: []Placement{}, Entrances: motion.Sequence{}}
	if !m.Ready() {
		return g
	}
	placements := Pack(tiles, m.Width, opts)
	if placements == nil {
		return g
	}

	g.Ready = true
	g.Placements = placements
	g.Height = Extent(placements)
	g.Entrances = make(motion.Sequence, 0, len(placements))
	for i, pl := range placements {
		g.Entrances = append(g.Entrances, motion.TileEntrance(Target(pl.ID), pl.X, pl.Y, i))
	}
	return g
}
