// Package hal defines the narrow hardware contracts the helicopter control
// core depends on. Every peripheral the core touches - the ADC, the two PWM
// channels, the quadrature/index GPIO pins, the button and switch pins, the
// tick timer, the UART and the OLED - is declared here as a small interface
// rather than a concrete driver, the same way github.com/jmchacon/6502's io
// and irq packages let a CPU core depend on an abstract Port8 or irq.Sender
// instead of a real chip. Concrete bindings (real hardware or simulated) are
// supplied by callers; this package never touches a register.
package hal

// ADC is the analog-to-digital converter used to sample altitude.
type ADC interface {
	// TriggerConversion requests one conversion. Called once per tick.
	TriggerConversion()
	// OnComplete registers the callback invoked when a conversion finishes.
	// The callback reads the result via Read from inside the callback.
	OnComplete(cb func())
	// Read returns the most recently completed raw conversion. Only valid
	// to call from inside the OnComplete callback.
	Read() uint16
}

// Edge is a GPIO interrupt trigger kind.
type Edge int

const (
	// BothEdges fires on rising and falling transitions.
	BothEdges Edge = iota
	// FallingEdge fires only on a high-to-low transition.
	FallingEdge
)

// GPIO is a digital input pin with edge-triggered interrupt support.
type GPIO interface {
	// Read returns the current logic level.
	Read() bool
	// OnChange registers cb to run whenever the pin transitions according
	// to trigger. Only one callback is supported per pin.
	OnChange(trigger Edge, cb func())
}

// PWMChannel identifies one of the two rotor PWM outputs.
type PWMChannel int

const (
	// MainChannel drives the main lift rotor.
	MainChannel PWMChannel = iota
	// TailChannel drives the tail yaw rotor.
	TailChannel
)

// PWM is a pulse-width-modulated output generator.
type PWM interface {
	// SetDuty programs the duty cycle, as an integer percentage, for ch.
	SetDuty(ch PWMChannel, percent int)
	// SetEnabled enables or disables the output for ch.
	SetEnabled(ch PWMChannel, enabled bool)
}

// UART is a blocking byte-oriented serial transmitter.
type UART interface {
	// WriteByte transmits one byte, blocking until it is accepted.
	WriteByte(b byte) error
}

// Rows is the number of addressable text rows on the OLED display.
const Rows = 4

// OLED is a small fixed-width character display.
type OLED interface {
	// DrawLine writes text to the given row, which must be in [0, Rows).
	DrawLine(row int, text string)
}

// Ticker drives the fixed-rate hardware timer underlying the scheduler and
// the altitude sampler.
type Ticker interface {
	// OnInterval registers cb to run at hz, returning an error if hz is
	// not positive or a callback is already registered.
	OnInterval(hz int, cb func()) error
}

// Sender reports whether an interrupt-like condition is currently raised.
// Mirrors github.com/jmchacon/6502's irq.Sender: a narrow interface lets a
// consumer poll an asynchronous condition without the producer and consumer
// sharing any other state.
type Sender interface {
	Raised() bool
}
