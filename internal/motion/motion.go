// Package motion describes entrance animations as data.
//
// The server never triggers an animation. It hands the browser a Sequence
// and the page script plays each Step with whatever animation API it has.
package motion

import "time"

// Easing names understood by the page script.
const (
	EasePower2Out = "power2.out"
	EasePower3Out = "power3.out"
	EaseBackOut   = "back.out(1.7)"
)

// State is one end of an animated transition.
type State struct {
	Opacity float64 `json:"opacity"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Scale   float64 `json:"scale"`
	Blur    float64 `json:"blur"`
}

// Visible is the resting state of an element at the origin.
var Visible = State{Opacity: 1, Scale: 1}

// Step animates Target from one State to another.
type Step struct {
	Target   string        `json:"target"`
	From     State         `json:"from"`
	To       State         `json:"to"`
	Duration time.Duration `json:"-"`
	Delay    time.Duration `json:"-"`
	Ease     string        `json:"ease"`

	DurationMS int64 `json:"duration_ms"`
	DelayMS    int64 `json:"delay_ms"`
}

// Sequence is an ordered list of steps played as one timeline.
type Sequence []Step

func newStep(target string, from, to State, duration, delay time.Duration, ease string) Step {
	return Step{
		Target:     target,
		From:       from,
		To:         to,
		Duration:   duration,
		Delay:      delay,
		Ease:       ease,
		DurationMS: duration.Milliseconds(),
		DelayMS:    delay.Milliseconds(),
	}
}

// TileStagger is the delay between consecutive grid tiles.
const TileStagger = 70 * time.Millisecond

// TileEntrance fades a grid tile in from 100px below its slot while
// removing a 10px blur. Later tiles start later.
func TileEntrance(target string, x, y float64, index int) Step {
	from := State{Opacity: 0, X: x, Y: y + 100, Scale: 1, Blur: 10}
	to := State{Opacity: 1, X: x, Y: y, Scale: 1}
	return newStep(target, from, to, 800*time.Millisecond, time.Duration(index)*TileStagger, EasePower3Out)
}

// Stagger applies the same transition to every target, delaying each one
// by step after base.
func Stagger(targets []string, from, to State, duration, base, step time.Duration, ease string) Sequence {
	seq := make(Sequence, 0, len(targets))
	for i, t := range targets {
		seq = append(seq, newStep(t, from, to, duration, base+time.Duration(i)*step, ease))
	}
	return seq
}

// Total is the time until the last step in the sequence finishes.
func (s Sequence) Total() time.Duration {
	var end time.Duration
	for _, st := range s {
		if d := st.Delay + st.Duration; d > end {
			end = d
		}
	}
	return end
}
