// Package flightmode implements the flight-mode state machine that
// orchestrates take-off, flight, and two-phase landing. Ported from the
// original firmware's flightState.c (which held a single file-static
// flightState_t, written from multiple translation units) and
// helicopterController.c's transition logic, collected here into one
// type whose mutation is confined to the callers allowed to change it:
// foreground tasks and, one-way, the yaw index pulse handler.
package flightmode

// Mode is one of the five flight states.
type Mode int

const (
	Landed Mode = iota
	FindingYawReference
	Flying
	LandingYaw
	LandingAltitude
)

// String returns the telemetry/display name for m: "Landed", "Taking
// off", "Flying", or "Landing".
func (m Mode) String() string {
	switch m {
	case Landed:
		return "Landed"
	case FindingYawReference:
		return "Taking off"
	case Flying:
		return "Flying"
	case LandingYaw, LandingAltitude:
		return "Landing"
	default:
		return ""
	}
}

// Actuators is the narrow set of side effects the state machine triggers
// on transitions: starting and stopping both rotors and zeroing the
// yaw/altitude setpoints. Kept as an interface so flightmode doesn't
// import internal/rotor, internal/yaw or internal/altitude directly.
type Actuators interface {
	StartRotors()
	StopRotors()
	ZeroDesiredYaw()
	ZeroDesiredAltitude()
}

// Machine holds the current flight mode and the actuator side-effect
// target. The zero value is not usable; construct with New.
type Machine struct {
	mode Mode
	act  Actuators
}

// New constructs a Machine in the Landed state.
func New(act Actuators) *Machine {
	return &Machine{mode: Landed, act: act}
}

// Mode returns the current flight mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// IsFindingReference implements yaw.ModeSource, letting the quadrature
// decoder's index-pulse handler gate its reset behavior without importing
// this package's full Mode type.
func (m *Machine) IsFindingReference() bool {
	return m.mode == FindingYawReference
}

// SwitchMovedUp handles the switch-to-UP trigger: only takes effect while
// Landed, starting both rotors and entering the yaw-reference search.
func (m *Machine) SwitchMovedUp() {
	if m.mode != Landed {
		return
	}
	m.act.StartRotors()
	m.mode = FindingYawReference
}

// SwitchMovedDown handles the switch-to-DOWN trigger: only takes effect
// while Flying, zeroing desired yaw and entering the first landing phase.
func (m *Machine) SwitchMovedDown() {
	if m.mode != Flying {
		return
	}
	m.act.ZeroDesiredYaw()
	m.mode = LandingYaw
}

// ReferenceFound is invoked by the yaw decoder's index-pulse handler,
// one-way, only while FindingYawReference.
func (m *Machine) ReferenceFound() {
	if m.mode != FindingYawReference {
		return
	}
	m.mode = Flying
}

// YawSettled handles the LandingYaw -> LandingAltitude trigger: once the
// yaw error has reached zero, zero the desired altitude and begin the
// altitude landing phase.
func (m *Machine) YawSettled() {
	if m.mode != LandingYaw {
		return
	}
	m.act.ZeroDesiredAltitude()
	m.mode = LandingAltitude
}

// AltitudeSettled handles the LandingAltitude -> Landed trigger: once the
// altitude error has reached zero, stop both rotors.
func (m *Machine) AltitudeSettled() {
	if m.mode != LandingAltitude {
		return
	}
	m.act.StopRotors()
	m.mode = Landed
}

// Reset force-reinitializes the machine to Landed from any mode,
// stopping both rotors and re-zeroing both axes.
func (m *Machine) Reset() {
	m.act.StopRotors()
	m.act.ZeroDesiredYaw()
	m.act.ZeroDesiredAltitude()
	m.mode = Landed
}
