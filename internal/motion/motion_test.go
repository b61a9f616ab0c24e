package motion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileEntrance(t *testing.T) {
	st := TileEntrance(`[data-key="a"]`, 32, 256, 3)

	assert.Equal(t, 210*time.Millisecond, st.Delay)
	assert.Equal(t, int64(210), st.DelayMS)
	assert.Equal(t, int64(800), st.DurationMS)
	assert.Equal(t, 356.0, st.From.Y)
	assert.Equal(t, 256.0, st.To.Y)
	assert.Equal(t, 32.0, st.From.X)
	assert.Equal(t, 10.0, st.From.Blur)
	assert.Zero(t, st.To.Blur)
	assert.Zero(t, st.From.Opacity)
	assert.Equal(t, 1.0, st.To.Opacity)
	assert.Equal(t, EasePower3Out, st.Ease)
}

func TestStagger(t *testing.T) {
	seq := Stagger([]string{"a", "b", "c"}, State{}, Visible, time.Second, 500*time.Millisecond, 100*time.Millisecond, EasePower2Out)

	require.Len(t, seq, 3)
	assert.Equal(t, 500*time.Millisecond, seq[0].Delay)
	assert.Equal(t, 700*time.Millisecond, seq[2].Delay)
	assert.Equal(t, 1700*time.Millisecond, seq.Total())
}

func TestStagger_Empty(t *testing.T) {
	seq := Stagger(nil, State{}, Visible, time.Second, 0, 0, EasePower2Out)
	assert.Empty(t, seq)
	assert.Zero(t, seq.Total())
}

func TestOpening(t *testing.T) {
	seq := Opening()

	require.NotEmpty(t, seq)
	last := seq[len(seq)-1]
	assert.Equal(t, ".opening", last.Target)
	assert.Zero(t, last.To.Opacity)
	assert.Equal(t, 7500*time.Millisecond, seq.Total())
}

func TestTimeline(t *testing.T) {
	seq := Timeline(4)

	require.Len(t, seq, 5)
	assert.Equal(t, ".journey-title", seq[0].Target)
	assert.Equal(t, `[data-entry="3"]`, seq[4].Target)
	assert.Equal(t, 600*time.Millisecond, seq[4].Delay)
}
