package heli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ence361/helicore/internal/flightmode"
	"github.com/ence361/helicore/internal/hal"
	"github.com/ence361/helicore/internal/input"
)

// newFlying wires a Controller, primes and captures the altitude reference,
// drives the switch up through takeoff and an index pulse, and returns it
// already in flightmode.Flying. Shared setup for the scenarios that don't
// care about the takeoff transition itself.
func newFlying(t *testing.T) (*Controller, *harness) {
	t.Helper()
	def, h := testDef()
	h.adc.Value = 2048
	c, err := Init(def)
	require.NoError(t, err)

	for i := 0; i < def.AltitudeBufSize; i++ {
		h.ticker.Advance()
	}
	c.SetInitialReference()

	h.sw.Set(true)
	for i := 0; i < input.CommitThreshold; i++ {
		h.ticker.Advance()
	}
	require.Equal(t, flightmode.FindingYawReference, c.Mode())

	h.index.Set(true)
	h.index.Set(false)
	require.Equal(t, flightmode.Flying, c.Mode())

	return c, h
}

// S1: cold boot. After the ring buffer primes and the reference captures,
// the craft reports zero altitude, stays Landed, and both rotors are off.
func TestColdBootCapturesZeroedReference(t *testing.T) {
	def, h := testDef()
	h.adc.Value = 2048
	c, err := Init(def)
	require.NoError(t, err)

	for i := 0; i < def.AltitudeBufSize; i++ {
		h.ticker.Advance()
	}
	c.SetInitialReference()

	assert.Equal(t, flightmode.Landed, c.Mode())
	assert.Equal(t, int16(0), c.Snapshot().AltitudePercent)
	assert.False(t, h.pwm.Enabled[hal.MainChannel])
	assert.False(t, h.pwm.Enabled[hal.TailChannel])
}

// S2: moving the switch up starts both rotors and enters the yaw-reference
// search, which advances the desired yaw at YawScanHz until an index pulse
// arrives and promotes the craft to Flying.
func TestTakeoffScansYawUntilIndexPulse(t *testing.T) {
	def, h := testDef()
	h.adc.Value = 2048
	c, err := Init(def)
	require.NoError(t, err)

	for i := 0; i < def.AltitudeBufSize; i++ {
		h.ticker.Advance()
	}
	c.SetInitialReference()

	h.sw.Set(true)
	for i := 0; i < input.CommitThreshold; i++ {
		h.ticker.Advance()
	}
	require.Equal(t, flightmode.FindingYawReference, c.Mode())
	assert.True(t, h.pwm.Enabled[hal.MainChannel])
	assert.True(t, h.pwm.Enabled[hal.TailChannel])

	ticksSoFar := def.AltitudeBufSize + input.CommitThreshold
	const scanPeriod = TickHz / YawScanHz
	for ticksSoFar%scanPeriod != 0 {
		h.ticker.Advance()
		ticksSoFar++
	}
	assert.Equal(t, int16(yawScanStepDegrees), c.Snapshot().YawDesired)

	for i := 0; i < scanPeriod; i++ {
		h.ticker.Advance()
	}
	assert.Equal(t, int16(2*yawScanStepDegrees), c.Snapshot().YawDesired)

	h.index.Set(true)
	h.index.Set(false)
	assert.Equal(t, flightmode.Flying, c.Mode())
}

// S3: once Flying, pressing UP raises the desired altitude and the
// altitude PID drives the main rotor's duty upward to chase it. With the
// altitude held at 0%, a 10% error alone commands 10% duty, below the main
// rotor's 20% floor, so the integrator needs 55 control steps before the
// duty leaves the floor; the test runs three seconds (60 steps, duty 22%).
func TestAltitudeCommandTracksUpButton(t *testing.T) {
	c, h := newFlying(t)
	before := c.rotor.GetMain()

	h.up.Set(true)
	for i := 0; i < input.CommitThreshold; i++ {
		h.ticker.Advance()
	}
	h.up.Set(false)
	for i := 0; i < input.CommitThreshold; i++ {
		h.ticker.Advance()
	}

	assert.Equal(t, int16(10), c.Snapshot().AltitudeDesired)

	for i := 0; i < 3*TickHz; i++ {
		h.ticker.Advance()
	}
	assert.Greater(t, c.rotor.GetMain(), before)
}

// S4: a yaw command that crosses the +-180 boundary wraps instead of
// accumulating past it.
func TestYawCommandWrapsAcrossBoundary(t *testing.T) {
	c, h := newFlying(t)
	c.yaw.SetDesired(170)

	h.right.Set(true)
	for i := 0; i < input.CommitThreshold; i++ {
		h.ticker.Advance()
	}
	h.right.Set(false)
	for i := 0; i < input.CommitThreshold; i++ {
		h.ticker.Advance()
	}

	assert.Equal(t, int16(-175), c.Snapshot().YawDesired)
}

// S5: moving the switch down while Flying zeroes desired yaw and begins a
// two-phase landing, settling yaw first and only then altitude, stopping
// both rotors once altitude settles.
func TestTwoPhaseLandingSettlesYawThenAltitude(t *testing.T) {
	c, h := newFlying(t)

	h.sw.Set(false)
	for i := 0; i < input.CommitThreshold; i++ {
		h.ticker.Advance()
	}
	require.Equal(t, flightmode.LandingYaw, c.Mode())
	assert.Equal(t, int16(0), c.Snapshot().YawDesired)

	for i := 0; i < TickHz/ControlHz; i++ {
		h.ticker.Advance()
		if c.Mode() != flightmode.LandingYaw {
			break
		}
	}
	require.Equal(t, flightmode.LandingAltitude, c.Mode())
	assert.Equal(t, int16(0), c.Snapshot().AltitudeDesired)

	for i := 0; i < TickHz/ControlHz; i++ {
		h.ticker.Advance()
		if c.Mode() != flightmode.LandingAltitude {
			break
		}
	}
	assert.Equal(t, flightmode.Landed, c.Mode())
	assert.False(t, h.pwm.Enabled[hal.MainChannel])
	assert.False(t, h.pwm.Enabled[hal.TailChannel])
}

// S6: button presses outside Flying are ignored; only the RESET button
// works regardless of mode.
func TestDirectionButtonsIgnoredOutsideFlying(t *testing.T) {
	def, h := testDef()
	h.adc.Value = 2048
	c, err := Init(def)
	require.NoError(t, err)

	for i := 0; i < def.AltitudeBufSize; i++ {
		h.ticker.Advance()
	}
	c.SetInitialReference()
	require.Equal(t, flightmode.Landed, c.Mode())

	h.up.Set(true)
	for i := 0; i < input.CommitThreshold; i++ {
		h.ticker.Advance()
	}
	h.up.Set(false)
	for i := 0; i < input.CommitThreshold; i++ {
		h.ticker.Advance()
	}

	assert.Equal(t, int16(0), c.Snapshot().AltitudeDesired)
	assert.Equal(t, flightmode.Landed, c.Mode())
}
