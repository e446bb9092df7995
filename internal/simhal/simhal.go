// Package simhal provides software stand-ins for every internal/hal
// interface, for use by tests, cmd/helicore, cmd/groundstation and
// cmd/dashboard when no real board is attached. Each type is a small
// struct implementing exactly one hal interface, the same minimal,
// single-purpose style github.com/jmchacon/6502/atari2600's tests use for
// swtch/swap (a bool behind Input()): no hidden behavior beyond what its
// interface promises, so a test can drive it by poking fields directly.
package simhal

import (
	"fmt"

	"github.com/ence361/helicore/internal/hal"
)

// ADC is a software ADC: Value holds the next raw sample TriggerConversion
// will latch and hand to the registered OnComplete callback.
type ADC struct {
	Value uint16
	cb    func()
}

func (a *ADC) TriggerConversion() {
	if a.cb != nil {
		a.cb()
	}
}

func (a *ADC) OnComplete(cb func()) { a.cb = cb }

func (a *ADC) Read() uint16 { return a.Value }

// GPIO is a software digital input pin. Set changes Level and fires the
// registered callback if the transition matches its registered trigger.
type GPIO struct {
	Level bool

	trigger hal.Edge
	cb      func()
}

func (g *GPIO) Read() bool { return g.Level }

func (g *GPIO) OnChange(trigger hal.Edge, cb func()) {
	g.trigger = trigger
	g.cb = cb
}

// Set changes the pin level, firing the registered callback if this
// transition matches the registered trigger kind.
func (g *GPIO) Set(level bool) {
	if level == g.Level {
		return
	}
	falling := g.Level && !level
	g.Level = level
	if g.cb == nil {
		return
	}
	if g.trigger == hal.BothEdges || (g.trigger == hal.FallingEdge && falling) {
		g.cb()
	}
}

// PWM is a software PWM generator recording the last commanded duty and
// enabled state per channel, for assertions in tests and for rendering in
// cmd/groundstation.
type PWM struct {
	Duty    [2]int
	Enabled [2]bool
}

func (p *PWM) SetDuty(ch hal.PWMChannel, percent int) { p.Duty[ch] = percent }

func (p *PWM) SetEnabled(ch hal.PWMChannel, enabled bool) { p.Enabled[ch] = enabled }

// UART is a software UART that appends every written byte to Sent,
// letting tests and cmd/dashboard inspect or replay the transmitted
// stream.
type UART struct {
	Sent []byte
}

func (u *UART) WriteByte(b byte) error {
	u.Sent = append(u.Sent, b)
	return nil
}

// OLED is a software OLED holding the last text drawn to each row.
type OLED struct {
	Lines [hal.Rows]string
}

func (o *OLED) DrawLine(row int, text string) {
	if row < 0 || row >= hal.Rows {
		return
	}
	o.Lines[row] = text
}

// Ticker is a software tick source. Advance fires the registered callback
// once; it does not itself track wall-clock time, leaving pacing to the
// caller (a test loop, or cmd/helicore's simulation clock).
type Ticker struct {
	cb func()
	hz int
}

func (t *Ticker) OnInterval(hz int, cb func()) error {
	if hz <= 0 {
		return fmt.Errorf("simhal: invalid rate %d, must be positive", hz)
	}
	if t.cb != nil {
		return fmt.Errorf("simhal: callback already registered")
	}
	t.hz = hz
	t.cb = cb
	return nil
}

// Advance fires the registered callback, if any, simulating one tick.
func (t *Ticker) Advance() {
	if t.cb != nil {
		t.cb()
	}
}

// Hz returns the rate OnInterval was registered with, or 0 if none.
func (t *Ticker) Hz() int {
	return t.hz
}

// Sender is a software interrupt-condition flag.
type Sender struct {
	Flag bool
}

func (s *Sender) Raised() bool { return s.Flag }
