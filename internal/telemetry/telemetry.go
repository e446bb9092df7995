// Package telemetry formats the altitude/yaw/rotor/mode state onto the
// OLED display and the UART status link. Ported from the original
// firmware's display.c and uartUSB.c, which both read the same handful
// of getters and format them with usnprintf; this version takes a single
// Snapshot value instead of reaching back into the other modules'
// globals, the way github.com/jmchacon/6502/atari2600 collects chip state
// into a plain struct before handing it to a renderer.
package telemetry

import (
	"fmt"

	"github.com/ence361/helicore/internal/hal"
)

// Snapshot is the read-only view of controller state telemetry renders.
// Callers (heli.Controller) populate one each time they want a display or
// UART refresh; telemetry never reads any other package's state directly.
type Snapshot struct {
	AltitudePercent int16
	AltitudeDesired int16
	AltitudeMeanADC int32
	YawDegrees      int16
	YawDesired      int16
	MainRotorPower  int
	TailRotorPower  int
	Mode            fmt.Stringer
}

// Page selects what Display.Render draws. Status is the fixed four-line
// layout (altitude, yaw, main duty, tail duty) every build renders by
// default; RawADC is the original firmware's diagnostic page, reachable
// only via CyclePage, exposing the raw mean ADC reading driving altitude.
type Page int

const (
	// Status is the fixed four-line layout: altitude, yaw, main duty, tail
	// duty. The default page.
	Status Page = iota
	// RawADC shows the raw mean ADC sample feeding the altitude sampler,
	// the original firmware's displayStateUpdate diagnostic page.
	RawADC
	numPages
)

// Display drives the OLED's Rows addressable text rows, defaulting to the
// fixed Status layout spec.md §4.9 requires; CyclePage switches to the
// original firmware's rotating diagnostic page and back.
type Display struct {
	oled hal.OLED
	page Page
}

// NewDisplay constructs a Display bound to oled, on the Status page. It
// draws nothing until the first Render.
func NewDisplay(oled hal.OLED) *Display {
	return &Display{oled: oled}
}

// CyclePage advances to the next display page, wrapping after the last.
// Intended to be wired to a button press.
func (d *Display) CyclePage() {
	d.page = (d.page + 1) % numPages
}

// Render formats the current page from snap and draws it across the
// OLED's rows.
func (d *Display) Render(snap Snapshot) {
	switch d.page {
	case RawADC:
		d.oled.DrawLine(0, fmt.Sprintf("Mean ADC: %4d  ", snap.AltitudeMeanADC))
		d.oled.DrawLine(1, "                ")
		d.oled.DrawLine(2, "                ")
		d.oled.DrawLine(3, "                ")
	default:
		d.oled.DrawLine(0, fmt.Sprintf("Alt: %4d%% [%4d]", snap.AltitudePercent, snap.AltitudeDesired))
		d.oled.DrawLine(1, fmt.Sprintf("Yaw: %4d  [%4d]", snap.YawDegrees, snap.YawDesired))
		d.oled.DrawLine(2, fmt.Sprintf("Main: %4d%%", snap.MainRotorPower))
		d.oled.DrawLine(3, fmt.Sprintf("Tail: %4d%%", snap.TailRotorPower))
	}
}

// Telemetry formats the five-line UART status report the original
// firmware's uartSendStatus sent, unchanged in field order, spacing and
// units so a downstream log parser built against the original wire
// format keeps working.
type Telemetry struct {
	uart hal.UART
}

// NewTelemetry constructs a Telemetry bound to uart.
func NewTelemetry(uart hal.UART) *Telemetry {
	return &Telemetry{uart: uart}
}

// SendStatus writes the five-line status report for snap, each line
// terminated CR/LF to match the original's usnprintf output.
func (t *Telemetry) SendStatus(snap Snapshot) error {
	lines := []string{
		fmt.Sprintf("Alt: %4d  [%4d]\r\n", snap.AltitudePercent, snap.AltitudeDesired),
		fmt.Sprintf("Yaw: %4d  [%4d]\r\n", snap.YawDegrees, snap.YawDesired),
		fmt.Sprintf("Main: %4d%%\r\n", snap.MainRotorPower),
		fmt.Sprintf("Tail: %4d%%\r\n", snap.TailRotorPower),
		fmt.Sprintf("%16s\r\n", snap.Mode.String()),
	}
	for _, line := range lines {
		for i := 0; i < len(line); i++ {
			if err := t.uart.WriteByte(line[i]); err != nil {
				return fmt.Errorf("telemetry: uart write: %w", err)
			}
		}
	}
	return nil
}
