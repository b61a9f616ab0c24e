package masonry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMeasure(t *testing.T) {
	tests := []struct {
		name          string
		width, height string
		want          Measure
	}{
		{"both", "1264", "1200", Measure{Width: 1264, Height: 1200}},
		{"fractional", " 987.5 ", "", Measure{Width: 987.5}},
		{"empty", "", "", Measure{}},
		{"garbage", "wide", "tall", Measure{}},
		{"negative", "-10", "-1", Measure{}},
		{"nan", "NaN", "Inf", Measure{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMeasure(tt.width, tt.height))
		})
	}
}

func TestMeasureReady(t *testing.T) {
	assert.False(t, Measure{}.Ready())
	assert.False(t, Measure{Height: 400}.Ready())
	assert.True(t, Measure{Width: 1}.Ready())
}

func TestLayout_NotReady(t *testing.T) {
	g := Layout([]Tile{normal("a")}, Measure{}, DefaultOptions())

	assert.False(t, g.Ready)
	assert.Equal(t, 5, g.Columns)
	assert.NotNil(t, g.Placements)
	assert.Empty(t, g.Placements)
	assert.Empty(t, g.Entrances)
}

func TestLayout_TooNarrow(t *testing.T) {
	g := Layout([]Tile{normal("a")}, Measure{Width: 20}, DefaultOptions())

	assert.False(t, g.Ready)
	assert.Empty(t, g.Placements)
}

func TestLayout_Entrances(t *testing.T) {
	tiles := []Tile{wide("w1"), normal("n1"), normal("n2"), {ID: "n3", Height: 300}}

	g := Layout(tiles, Measure{Width: testWidth, Height: 1200}, DefaultOptions())

	require.True(t, g.Ready)
	require.Len(t, g.Placements, 4)
	require.Len(t, g.Entrances, 4)
	assert.Equal(t, 556.0, g.Height)

	for i, pl := range g.Placements {
		st := g.Entrances[i]
		assert.Equal(t, Target(pl.ID), st.Target)
		assert.Equal(t, pl.Y, st.To.Y)
		assert.Equal(t, pl.Y+100, st.From.Y)
		assert.Equal(t, pl.X, st.To.X)
		assert.Equal(t, int64(i*70), st.DelayMS)
	}
}

func TestLayout_ResizeReplaysEveryEntrance(t *testing.T) {
	tiles := []Tile{wide("w1"), normal("n1"), normal("n2"), {ID: "n3", Height: 300}}

	wideGrid := Layout(tiles, Measure{Width: testWidth, Height: 1200}, DefaultOptions())
	narrow := Layout(tiles, Measure{Width: testWidth / 2, Height: 1200}, DefaultOptions())

	require.Len(t, wideGrid.Entrances, len(tiles))
	require.Len(t, narrow.Entrances, len(tiles))
	assert.NotEqual(t, wideGrid.Placements[1].X, narrow.Placements[1].X)
	for i, pl := range narrow.Placements {
		st := narrow.Entrances[i]
		assert.Equal(t, Target(pl.ID), st.Target)
		assert.Equal(t, pl.X, st.To.X)
		assert.Equal(t, pl.Y, st.To.Y)
		assert.Zero(t, st.From.Opacity)
	}
}

func TestLayout_EmptyTiles(t *testing.T) {
	g := Layout(nil, Measure{Width: testWidth}, DefaultOptions())

	assert.True(t, g.Ready)
	assert.Empty(t, g.Placements)
	assert.Zero(t, g.Height)
}

func TestTarget(t *testing.T) {
	assert.Equal(t, `[data-key="Kasir App1"]`, Target("Kasir App1"))
}
