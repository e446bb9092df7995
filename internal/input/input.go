// Package input implements the debounced button and switch front-end:
// four momentary buttons and one two-position mode switch, each backed by
// a debouncer that commits a level change only after K consecutive polls
// agree. Ported from the original firmware's switch.c and buttons4.h,
// generalized the way github.com/jmchacon/6502/pia6532 generalizes
// positive/negative edge detection on a single PIA pin into a reusable
// edgeType, and packed into port bytes the way
// github.com/jmchacon/6502/atari2600's portA/portB aggregate several
// io.PortIn1 values into one byte.
package input

import "github.com/ence361/helicore/internal/bitfield"

// CommitThreshold is the number of consecutive polls showing the opposite
// level required before a transition commits.
const CommitThreshold = 3

// Edge is the committed transition a Debouncer reports.
type Edge int

const (
	// NoChange means no transition has committed since the last check.
	NoChange Edge = iota
	// Rising means the debounced level committed low-to-high.
	Rising
	// Falling means the debounced level committed high-to-low.
	Falling
)

// Debouncer holds a committed level, a run counter of consecutive polls at
// the opposite level, and a latched pending edge cleared on read.
type Debouncer struct {
	committed bool
	run       int
	pending   Edge
}

// NewDebouncer constructs a Debouncer with its committed level initialized
// from initial, so that the first poll of the real input doesn't spuriously
// look like an edge.
func NewDebouncer(initial bool) *Debouncer {
	return &Debouncer{committed: initial}
}

// Poll feeds one raw sample. Should be called at a fixed rate (400Hz,
// from the tick ISR).
func (d *Debouncer) Poll(raw bool) {
	if raw == d.committed {
		d.run = 0
		return
	}
	d.run++
	if d.run >= CommitThreshold {
		d.run = 0
		d.committed = raw
		if raw {
			d.pending = Rising
		} else {
			d.pending = Falling
		}
	}
}

// Check returns the latched pending edge and clears it, or NoChange if
// none is pending.
func (d *Debouncer) Check() Edge {
	e := d.pending
	d.pending = NoChange
	return e
}

// Level returns the current committed level.
func (d *Debouncer) Level() bool {
	return d.committed
}

// ButtonID identifies one of the helicopter's physical buttons.
type ButtonID int

const (
	Up ButtonID = iota
	Down
	Left
	Right
	// Reset is the optional fifth button:
	// force-reinitializes flight mode regardless of the current mode.
	Reset
	// NumButtons is the number of distinct physical buttons.
	NumButtons
)

// ButtonEvent is a committed button transition.
type ButtonEvent int

const (
	// NoEvent means no button transition is pending.
	NoEvent ButtonEvent = iota
	// Pushed means the button's debouncer committed to the pressed level.
	Pushed
	// Released means the button's debouncer committed to the released level.
	Released
)

// SwitchEvent is a committed mode-switch transition.
type SwitchEvent int

const (
	// SwitchUnchanged means the switch hasn't moved since the last check.
	SwitchUnchanged SwitchEvent = iota
	SwitchUp
	SwitchDown
)

// Panel owns the debouncers for all four buttons plus the RESET button and
// the mode switch, and packs their committed levels into port bytes the
// way a real GPIO port register would, for display/debugging purposes.
type Panel struct {
	buttons [NumButtons]*Debouncer
	// activeHigh records polarity per button: true means a raw high level
	// is "pressed". Mirrors how individual buttons on the ORBIT board wire
	// active-low or active-high depending on pull resistor placement
	//.
	activeHigh [NumButtons]bool

	sw *Debouncer
}

// NewPanel constructs a Panel. initialLevels/activeHigh give the raw pin
// level and polarity observed for each button at bring-up; switchInitial is
// the raw switch pin level (true == up) at bring-up.
func NewPanel(initialLevels, activeHigh [NumButtons]bool, switchInitial bool) *Panel {
	p := &Panel{activeHigh: activeHigh, sw: NewDebouncer(switchInitial)}
	for i := range p.buttons {
		p.buttons[i] = NewDebouncer(initialLevels[i])
	}
	return p
}

// PollButton feeds one raw sample for button id.
func (p *Panel) PollButton(id ButtonID, raw bool) {
	p.buttons[id].Poll(raw)
}

// PollSwitch feeds one raw sample for the mode switch (true == up).
func (p *Panel) PollSwitch(raw bool) {
	p.sw.Poll(raw)
}

// CheckButton returns the committed press/release event for id, translated
// through its wiring polarity, and clears it.
func (p *Panel) CheckButton(id ButtonID) ButtonEvent {
	e := p.buttons[id].Check()
	if e == NoChange {
		return NoEvent
	}
	pressed := (e == Rising) == p.activeHigh[id]
	if pressed {
		return Pushed
	}
	return Released
}

// CheckSwitch returns the committed switch transition and clears it.
func (p *Panel) CheckSwitch() SwitchEvent {
	switch p.sw.Check() {
	case Rising:
		return SwitchUp
	case Falling:
		return SwitchDown
	default:
		return SwitchUnchanged
	}
}

// Port packs the current committed button levels into a single byte, one
// bit per ButtonID, bit 0 is Up - matching the style of a real
// port-mapped GPIO register and useful for telemetry/debug dumps.
func (p *Panel) Port() byte {
	var b byte
	for i, d := range p.buttons {
		b = bitfield.Set(b, bitfield.Pos(i), d.Level())
	}
	return b
}
