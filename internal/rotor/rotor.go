// Package rotor implements the clamped duty-cycle driver for the two
// independent rotor PWM outputs. Ported from the original firmware's
// rotors.c; the enable/disable and cached-duty accounting mirrors the
// out{data bool}/Output() pattern github.com/jmchacon/6502/tia uses for its
// latched 1-bit output ports, generalized here to a clamped integer duty
// rather than a single bit.
package rotor

import "github.com/ence361/helicore/internal/hal"

// CarrierHz is the fixed PWM carrier frequency for both rotors.
const CarrierHz = 250

// Limits bounds the duty cycle percentage an actuator may be driven to.
type Limits struct {
	Min, Max int
}

// MainLimits are the main lift rotor's duty limits.
var MainLimits = Limits{Min: 20, Max: 95}

// TailLimits are the tail yaw rotor's duty limits.
var TailLimits = Limits{Min: 5, Max: 95}

func (l Limits) clamp(p int) int {
	if p < l.Min {
		return l.Min
	}
	if p > l.Max {
		return l.Max
	}
	return p
}

// Driver owns both rotor channels' cached duty and enabled state.
type Driver struct {
	pwm hal.PWM

	mainDuty, tailDuty int
}

// New constructs a Driver bound to pwm. Both channels start disabled.
func New(pwm hal.PWM) *Driver {
	return &Driver{pwm: pwm}
}

// StartMain enables the main rotor output and sets its duty to
// MainLimits.Min.
func (d *Driver) StartMain() {
	d.SetMain(MainLimits.Min)
	d.pwm.SetEnabled(hal.MainChannel, true)
}

// StartTail enables the tail rotor output and sets its duty to
// TailLimits.Min.
func (d *Driver) StartTail() {
	d.SetTail(TailLimits.Min)
	d.pwm.SetEnabled(hal.TailChannel, true)
}

// StopMain disables the main rotor output.
func (d *Driver) StopMain() {
	d.pwm.SetEnabled(hal.MainChannel, false)
}

// StopTail disables the tail rotor output.
func (d *Driver) StopTail() {
	d.pwm.SetEnabled(hal.TailChannel, false)
}

// SetMain clamps p into MainLimits and programs the main rotor's duty. The
// cached value equals the clamped argument, never the raw one.
func (d *Driver) SetMain(p int) {
	d.mainDuty = MainLimits.clamp(p)
	d.pwm.SetDuty(hal.MainChannel, d.mainDuty)
}

// SetTail clamps p into TailLimits and programs the tail rotor's duty.
func (d *Driver) SetTail(p int) {
	d.tailDuty = TailLimits.clamp(p)
	d.pwm.SetDuty(hal.TailChannel, d.tailDuty)
}

// GetMain returns the last commanded main rotor duty percentage.
func (d *Driver) GetMain() int {
	return d.mainDuty
}

// GetTail returns the last commanded tail rotor duty percentage.
func (d *Driver) GetTail() int {
	return d.tailDuty
}
