// helicore runs the helicopter control core against simulated hardware
// with no display attached, for headless regression runs and CI. If
// -tape is given it drives the simulated peripherals from a recorded
// scenario tape (internal/tape) instead of idling; otherwise it just
// boots, captures the altitude reference, and idles for -ticks ticks.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/ence361/helicore/heli"
	"github.com/ence361/helicore/internal/simhal"
	"github.com/ence361/helicore/internal/tape"
)

var (
	tapePath = flag.String("tape", "", "Path to a recorded scenario tape to replay. If empty, runs idle.")
	ticks    = flag.Int("ticks", 4000, "Number of ticks to run after boot (10 simulated seconds at 400Hz).")
	bufSize  = flag.Int("buf_size", 40, "Altitude ring buffer size.")
)

// peripherals bundles every simulated hal.* implementation one Controller
// needs, plus a tape.Sink adapter wired onto the button/GPIO set.
type peripherals struct {
	adc    *simhal.ADC
	chA    *simhal.GPIO
	chB    *simhal.GPIO
	index  *simhal.GPIO
	sw     *simhal.GPIO
	up     *simhal.GPIO
	down   *simhal.GPIO
	left   *simhal.GPIO
	right  *simhal.GPIO
	reset  *simhal.GPIO
	pwm    *simhal.PWM
	uart   *simhal.UART
	oled   *simhal.OLED
	ticker *simhal.Ticker
}

func newPeripherals() *peripherals {
	return &peripherals{
		adc: &simhal.ADC{}, chA: &simhal.GPIO{}, chB: &simhal.GPIO{}, index: &simhal.GPIO{},
		sw: &simhal.GPIO{}, up: &simhal.GPIO{}, down: &simhal.GPIO{}, left: &simhal.GPIO{},
		right: &simhal.GPIO{}, reset: &simhal.GPIO{}, pwm: &simhal.PWM{}, uart: &simhal.UART{},
		oled: &simhal.OLED{}, ticker: &simhal.Ticker{},
	}
}

func (p *peripherals) def(bufSize int) heli.Def {
	return heli.Def{
		ADC: p.adc, ChA: p.chA, ChB: p.chB, Index: p.index, Switch: p.sw,
		ButtonUp: p.up, ButtonDown: p.down, ButtonLeft: p.left, ButtonRight: p.right, ButtonReset: p.reset,
		PWM: p.pwm, UART: p.uart, OLED: p.oled, Ticker: p.ticker,
		AltitudeBufSize: bufSize,
	}
}

// SetADC implements tape.Sink.
func (p *peripherals) SetADC(v uint16) { p.adc.Value = v }

// SetSwitch implements tape.Sink.
func (p *peripherals) SetSwitch(level bool) { p.sw.Set(level) }

// SetButton implements tape.Sink; target 0-4 map to up/down/left/right/reset.
func (p *peripherals) SetButton(target byte, level bool) {
	switch target {
	case 0:
		p.up.Set(level)
	case 1:
		p.down.Set(level)
	case 2:
		p.left.Set(level)
	case 3:
		p.right.Set(level)
	case 4:
		p.reset.Set(level)
	}
}

// SetChA implements tape.Sink.
func (p *peripherals) SetChA(level bool) { p.chA.Set(level) }

// SetChB implements tape.Sink.
func (p *peripherals) SetChB(level bool) { p.chB.Set(level) }

// SetIndex implements tape.Sink.
func (p *peripherals) SetIndex(level bool) { p.index.Set(level) }

func main() {
	flag.Parse()

	p := newPeripherals()
	c, err := heli.Init(p.def(*bufSize))
	if err != nil {
		log.Fatalf("Can't init controller: %v", err)
	}

	for i := 0; i < *bufSize; i++ {
		p.ticker.Advance()
	}
	c.SetInitialReference()
	log.Printf("Reference captured, mode=%s", c.Mode())

	var player *tape.Player
	if *tapePath != "" {
		f, err := os.Open(*tapePath)
		if err != nil {
			log.Fatalf("Can't open tape %q: %v", *tapePath, err)
		}
		tp, err := tape.ReadFrom(f)
		f.Close()
		if err != nil {
			log.Fatalf("Can't parse tape %q: %v", *tapePath, err)
		}
		player = tape.NewPlayer(tp, p)
		log.Printf("Loaded tape %q with %d events", *tapePath, len(tp.Events))
	}

	for tick := 0; tick < *ticks; tick++ {
		if player != nil {
			player.Advance(uint32(tick))
		}
		p.ticker.Advance()
		if player != nil && player.Done() {
			break
		}
	}

	snap := c.Snapshot()
	log.Printf("mode=%s altitude=%d%% (want %d%%) yaw=%ddeg (want %ddeg) main=%d%% tail=%d%%",
		snap.Mode, snap.AltitudePercent, snap.AltitudeDesired, snap.YawDegrees, snap.YawDesired,
		snap.MainRotorPower, snap.TailRotorPower)
}
