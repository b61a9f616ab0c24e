package motion

import (
	"fmt"
	"time"
)

const (
	EasePower2In    = "power2.in"
	EasePower2InOut = "power2.inOut"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Opening is the welcome sequence shown before the first page load: the
// icons pop in, the greeting holds for two seconds, then a battery fills
// up and the whole overlay fades away.
func Opening() Sequence {
	icons := Stagger(
		[]string{".opening-icon:nth-child(1)", ".opening-icon:nth-child(2)", ".opening-icon:nth-child(3)"},
		State{Opacity: 0, Y: 20, Scale: 0.7},
		Visible,
		ms(600), 0, ms(100), EaseBackOut,
	)

	seq := append(Sequence{}, icons...)
	seq = append(seq,
		newStep(".opening-title", State{Opacity: 0, Y: -40, Scale: 0.9}, Visible, ms(800), ms(800), EaseBackOut),
		newStep(".opening-subtitle", State{Opacity: 0, X: -30, Scale: 1}, Visible, ms(600), ms(1200), EasePower2Out),
		// the greeting holds until 3.8s
		newStep(".opening-welcome", Visible, State{Opacity: 0, Y: -20, Scale: 1}, ms(500), ms(3800), EasePower2In),
		newStep(".opening-battery", State{Opacity: 0, Scale: 1}, Visible, ms(300), ms(4100), EasePower2Out),
		newStep(".battery-liquid", State{Opacity: 1, Scale: 0}, Visible, ms(2500), ms(4300), EasePower2InOut),
		newStep(".battery-icon", Visible, State{Opacity: 1, Scale: 1.2}, ms(200), ms(6300), EaseBackOut),
		newStep(".opening-battery", Visible, State{Opacity: 1, Scale: 1.1}, ms(300), ms(6600), EasePower2Out),
		newStep(".opening", Visible, State{Opacity: 0, Scale: 0.96}, ms(700), ms(6800), EasePower2InOut),
	)
	return seq
}

// Timeline animates the journey heading followed by n timeline entries.
func Timeline(n int) Sequence {
	seq := Sequence{
		newStep(".journey-title", State{Opacity: 0, Y: -50, Scale: 0.8}, Visible, ms(1000), 0, EaseBackOut),
	}
	targets := make([]string, n)
	for i := range targets {
		targets[i] = fmt.Sprintf(`[data-entry="%d"]`, i)
	}
	return append(seq, Stagger(targets, State{Opacity: 0, Y: 60, Scale: 0.8}, Visible, ms(800), 0, ms(200), EaseBackOut)...)
}
