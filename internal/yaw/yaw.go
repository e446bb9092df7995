// Package yaw implements the quadrature decoder that turns edge
// transitions on the A/B encoder channels into a signed slot count, plus
// index-pulse capture that zeroes the count once per revolution. Ported
// from the original firmware's yaw.c, which ran the same logic from a
// GPIOIntRegister port-change handler; here it is driven by
// internal/hal.GPIO.OnChange.
package yaw

import (
	"github.com/ence361/helicore/internal/hal"
)

// SlotsPerNotch is the number of quadrature slot units per encoder notch.
const SlotsPerNotch = 4

// NotchesPerRev is the number of encoder notches per full revolution.
const NotchesPerRev = 112

// SlotsPerRev is the number of quadrature slot units per 360 degrees.
const SlotsPerRev = SlotsPerNotch * NotchesPerRev // 448

// delta is the quadrature transition table, indexed by [previous
// AB][current AB] where AB is encoded as 2*A + B (encode below). A value
// of 0 also covers the "impossible in one step" diagonal transitions,
// treated as self-correcting no-ops rather than faults.
var delta = [4][4]int16{
	/* prev 00 */ {0, +1, -1, 0},
	/* prev 01 */ {-1, 0, 0, +1},
	/* prev 10 */ {+1, 0, 0, -1},
	/* prev 11 */ {0, -1, +1, 0},
}

// ModeSource reports the flight mode that gates the index pulse's reset
// behavior: the index ISR only resets state while the mode equals
// FindingReference. Kept as a narrow interface instead of a direct
// dependency on internal/flightmode to avoid a package cycle - the two
// packages otherwise need each other (flightmode reads yaw error;
// yaw checks whether flightmode is searching).
type ModeSource interface {
	IsFindingReference() bool
}

// OnReferenceFound is invoked by the index pulse handler, exactly once per
// successful reference search, after slotCount/desiredDegrees have been
// zeroed. Wired by the caller to drive the FindingReference -> Flying
// transition.
type OnReferenceFound func()

// Decoder holds the quadrature slot count, the index-referenced desired
// heading, and the previous-sample state the edge handler needs.
type Decoder struct {
	slotCount      int16
	desiredDegrees int16

	prevA, prevB bool
	readA, readB func() bool

	mode    ModeSource
	onFound OnReferenceFound
}

// New constructs a Decoder and registers its edge handlers on chA, chB and
// index. mode and onFound implement the FindingReference gate and
// mode-transition callback for the index pulse.
func New(chA, chB, index hal.GPIO, mode ModeSource, onFound OnReferenceFound) *Decoder {
	d := &Decoder{mode: mode, onFound: onFound}
	chA.OnChange(hal.BothEdges, d.onQuadratureEdge)
	chB.OnChange(hal.BothEdges, d.onQuadratureEdge)
	index.OnChange(hal.FallingEdge, d.onIndexEdge)
	d.prevA = chA.Read()
	d.prevB = chB.Read()
	d.readA, d.readB = chA.Read, chB.Read
	return d
}

// readA/readB let onQuadratureEdge re-sample the current pin levels; kept
// as closures captured at construction rather than stored GPIO handles so
// the type stays small, holding only "previous A, previous B" exactly the
// way the original's portBIntHandler kept two function-static booleans.
func (d *Decoder) onQuadratureEdge() {
	curA, curB := d.readA(), d.readB()
	prevIdx := encode(d.prevA, d.prevB)
	curIdx := encode(curA, curB)
	d.slotCount += delta[prevIdx][curIdx]
	d.prevA, d.prevB = curA, curB
}

func encode(a, b bool) int {
	i := 0
	if a {
		i |= 2
	}
	if b {
		i |= 1
	}
	return i
}

// onIndexEdge is the index-pulse interrupt handler: if and only if the
// flight mode is currently searching for the reference, it zeroes
// slotCount and desiredDegrees and signals the mode transition.
func (d *Decoder) onIndexEdge() {
	if d.mode == nil || !d.mode.IsFindingReference() {
		return
	}
	d.slotCount = 0
	d.desiredDegrees = 0
	if d.onFound != nil {
		d.onFound()
	}
}

// Reset zeroes the slot count directly; exposed for tests and for the
// optional RESET button path.
func (d *Decoder) Reset() {
	d.slotCount = 0
}

// Degrees returns the current yaw in degrees, normalized to [-180,180).
func (d *Decoder) Degrees() int16 {
	return Normalize(int32(d.slotCount) * 360 / SlotsPerRev)
}

// Desired returns the foreground-commanded desired yaw in degrees.
func (d *Decoder) Desired() int16 {
	return d.desiredDegrees
}

// SetDesired sets the desired yaw, normalized to [-180,180).
func (d *Decoder) SetDesired(degrees int16) {
	d.desiredDegrees = Normalize(int32(degrees))
}

// ChangeDesired adjusts the desired yaw by delta degrees, normalized.
func (d *Decoder) ChangeDesired(delta int16) {
	d.SetDesired(d.desiredDegrees + delta)
}

// Error returns the normalized shortest-path error from the measured yaw
// to the desired yaw, always in [-180,180).
func (d *Decoder) Error() int16 {
	return Normalize(int32(d.desiredDegrees) - int32(d.Degrees()))
}

// Normalize maps d into the half-open interval [-180,180).
func Normalize(d int32) int16 {
	d %= 360
	if d < -180 {
		d += 360
	} else if d >= 180 {
		d -= 360
	}
	return int16(d)
}
