// Package pid implements the discrete-time PI controller with conditional
// anti-windup used for both the altitude and yaw control axes. Ported from
// the original firmware's control.c, which ran one static instance per
// axis directly against file-static error/integrator variables; here each
// axis gets its own *Controller value so the two control loops share no
// state beyond what's passed explicitly.
package pid

// Gains are the fixed-point proportional/integral gains for one axis.
type Gains struct {
	KP, KI int32
	// KD is the historical derivative gain from the original firmware's
	// early milestone1.c PID variant. Zero by default; if enabled it must
	// not change the steady-state behavior the PI-only path settles to.
	KD int32
}

// AltitudeGains are the reference altitude-axis gains.
var AltitudeGains = Gains{KP: 10, KI: 4}

// YawGains are the reference yaw-axis gains.
var YawGains = Gains{KP: 17, KI: 6}

// Limits bounds the actuator output the controller drives.
type Limits struct {
	Min, Max int
}

// Controller is one axis's dual-integrator PI state: the previous error
// and a 100-scaled integrated error, retained for resolution the way the
// original's
// altitudeErrorIntegrated/yawErrorIntegrated fields were.
type Controller struct {
	gains  Gains
	limits Limits
	rateHz int32 // F_CTRL, the control loop's invocation rate.

	previousError   int32
	integratedError int32 // scaled by 100.

	withDerivative bool
}

// Option configures a Controller at construction.
type Option func(*Controller)

// WithDerivative enables the historical KD term. Off by default; the
// mandated control path is PI-only.
func WithDerivative() Option {
	return func(c *Controller) { c.withDerivative = true }
}

// New constructs a Controller for one axis. rateHz is F_CTRL, the fixed
// rate (ticks-per-invocation derived) at which Update will be called; it
// must be positive and is a compile-time constant from the caller's
// perspective, letting the 100/rateHz scaling below become a constant
// divisor.
func New(gains Gains, limits Limits, rateHz int32, opts ...Option) *Controller {
	c := &Controller{gains: gains, limits: limits, rateHz: rateHz}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Update runs one control step given the current error, and returns the
// clamped actuator duty-percent to write: a 100-scaled integrator update,
// fixed-point P+I combination, clamping,
// and conditional integration (anti-windup) that withholds the integrator
// update only when the output saturates in the direction the error is
// already pushing it.
func (c *Controller) Update(e int32) int {
	eIntNext := c.integratedError + e*100/c.rateHz

	u := (c.gains.KP*e*100 + c.gains.KI*eIntNext) / 1000
	if c.withDerivative {
		derivative := (e - c.previousError) * c.rateHz
		u += (c.gains.KD * derivative * 100) / 1000
	}
	c.previousError = e

	clamped := clampI(int(u), c.limits.Min, c.limits.Max)

	saturatedWithError := (u > int32(c.limits.Max) && e > 0) || (u < int32(c.limits.Min) && e < 0)
	if !saturatedWithError {
		c.integratedError = eIntNext
	}

	return clamped
}

// IntegratedError exposes the committed 100-scaled integrator value, for
// tests verifying the anti-windup bound.
func (c *Controller) IntegratedError() int32 {
	return c.integratedError
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
