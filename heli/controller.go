// Package heli assembles the altitude sampler, yaw decoder, input panel,
// rotor driver, PID controllers, flight-mode state machine, cooperative
// scheduler and telemetry formatters into one runnable controller. Ported
// from the original firmware's main.c/helicopterController.c, which wired
// the same pieces together as file-static globals; collected here the way
// github.com/jmchacon/6502/atari2600.Init/VCS.Tick collect a CPU, PIA and
// TIA behind one VCS value with one entry point per clock edge.
package heli

import (
	"errors"
	"fmt"

	"github.com/ence361/helicore/internal/altitude"
	"github.com/ence361/helicore/internal/flightmode"
	"github.com/ence361/helicore/internal/hal"
	"github.com/ence361/helicore/internal/input"
	"github.com/ence361/helicore/internal/pid"
	"github.com/ence361/helicore/internal/rotor"
	"github.com/ence361/helicore/internal/scheduler"
	"github.com/ence361/helicore/internal/telemetry"
	"github.com/ence361/helicore/internal/yaw"
)

// Rates, all derived from TickHz, the base hardware tick the scheduler is
// driven from.
const (
	TickHz      = 400
	ControlHz   = 20
	DisplayHz   = 5
	TelemetryHz = 4
	YawScanHz   = 2
)

// yawScanStepDegrees is how far the desired yaw advances on each
// YawScanHz tick while searching for the index pulse.
const yawScanStepDegrees = 15

// settledThreshold is how close an axis error must be to zero before a
// landing phase is considered complete.
const settledThreshold = 1

// actuators adapts the rotor driver and the two axis controllers to
// flightmode.Actuators. Its fields are filled in by Init after every
// underlying component has been constructed, since flightmode.New must
// run before yaw.New (which needs the machine as a ModeSource) and before
// the rotor driver and altitude sampler necessarily exist.
type actuators struct {
	rotor *rotor.Driver
	yaw   *yaw.Decoder
	alt   *altitude.Sampler
}

func (a *actuators) StartRotors() {
	a.rotor.StartMain()
	a.rotor.StartTail()
}

func (a *actuators) StopRotors() {
	a.rotor.StopMain()
	a.rotor.StopTail()
}

func (a *actuators) ZeroDesiredYaw() {
	a.yaw.SetDesired(0)
}

func (a *actuators) ZeroDesiredAltitude() {
	a.alt.SetDesired(0)
}

// Def defines the hardware bindings and tuning a Controller needs. All GPIO
// fields except ButtonReset, and the ADC/PWM/UART/OLED/Ticker fields, are
// required; ButtonReset and Fault may be nil. AltitudeBufSize defaults to
// altitude.DefaultBufSize when zero.
type Def struct {
	ADC hal.ADC

	ChA, ChB, Index hal.GPIO
	Switch          hal.GPIO
	ButtonUp        hal.GPIO
	ButtonDown      hal.GPIO
	ButtonLeft      hal.GPIO
	ButtonRight     hal.GPIO
	ButtonReset     hal.GPIO

	PWM    hal.PWM
	UART   hal.UART
	OLED   hal.OLED
	Ticker hal.Ticker

	// Fault is an optional level-based fault line (over-current, stalled
	// rotor, whatever the board wires to it) polled every tick alongside
	// the buttons. When Raised, it forces the same emergency reset the
	// RESET button does. Left nil on boards with no such line.
	Fault hal.Sender

	AltitudeBufSize int
}

// Controller is the assembled helicopter control core. The zero value is
// not usable; construct with Init.
type Controller struct {
	altitude *altitude.Sampler
	yaw      *yaw.Decoder
	panel    *input.Panel
	rotor    *rotor.Driver
	altPID   *pid.Controller
	yawPID   *pid.Controller
	mode     *flightmode.Machine
	sched    *scheduler.Scheduler
	display  *telemetry.Display
	telem    *telemetry.Telemetry

	def       Def
	tickCount uint32
}

// Init validates def, wires every component together in dependency order,
// registers the scheduler's tasks, and arms the tick interrupt. It does
// not block: the caller must separately call SetInitialReference once
// interrupts are flowing. Each tick then both advances and drains the
// scheduler (see Tick); there is no separate foreground loop to drive.
func Init(def Def) (*Controller, error) {
	if def.ADC == nil || def.ChA == nil || def.ChB == nil || def.Index == nil ||
		def.Switch == nil || def.PWM == nil || def.UART == nil || def.OLED == nil || def.Ticker == nil {
		return nil, errors.New("heli: Def is missing a required hal binding")
	}
	if def.ButtonUp == nil || def.ButtonDown == nil || def.ButtonLeft == nil || def.ButtonRight == nil {
		return nil, errors.New("heli: Def is missing a required button binding")
	}

	bufSize := def.AltitudeBufSize
	if bufSize == 0 {
		bufSize = altitude.DefaultBufSize
	}

	act := &actuators{}
	mode := flightmode.New(act)

	rotorDrv := rotor.New(def.PWM)
	act.rotor = rotorDrv

	altSampler, err := altitude.New(def.ADC, bufSize)
	if err != nil {
		return nil, fmt.Errorf("heli: %w", err)
	}
	act.alt = altSampler

	yawDecoder := yaw.New(def.ChA, def.ChB, def.Index, mode, mode.ReferenceFound)
	act.yaw = yawDecoder

	initialLevels := [input.NumButtons]bool{
		def.ButtonUp.Read(), def.ButtonDown.Read(), def.ButtonLeft.Read(), def.ButtonRight.Read(), false,
	}
	activeHigh := [input.NumButtons]bool{true, true, true, true, true}
	if def.ButtonReset != nil {
		initialLevels[input.Reset] = def.ButtonReset.Read()
	}
	panel := input.NewPanel(initialLevels, activeHigh, def.Switch.Read())

	sched, err := scheduler.New(8)
	if err != nil {
		return nil, fmt.Errorf("heli: %w", err)
	}

	c := &Controller{
		altitude: altSampler,
		yaw:      yawDecoder,
		panel:    panel,
		rotor:    rotorDrv,
		altPID:   pid.New(pid.AltitudeGains, pid.Limits{Min: rotor.MainLimits.Min, Max: rotor.MainLimits.Max}, ControlHz),
		yawPID:   pid.New(pid.YawGains, pid.Limits{Min: rotor.TailLimits.Min, Max: rotor.TailLimits.Max}, ControlHz),
		mode:     mode,
		sched:    sched,
		display:  telemetry.NewDisplay(def.OLED),
		telem:    telemetry.NewTelemetry(def.UART),
		def:      def,
	}

	sched.Register(c.pollInputs, 1)
	sched.Register(c.pollSwitch, 1)
	sched.Register(c.triggerADCConversion, 1)
	sched.Register(c.runControlLoop, TickHz/ControlHz)
	sched.Register(c.runYawScan, TickHz/YawScanHz)
	sched.Register(c.updateDisplay, TickHz/DisplayHz)
	sched.Register(c.sendTelemetry, TickHz/TelemetryHz)

	if err := def.Ticker.OnInterval(TickHz, c.Tick); err != nil {
		return nil, fmt.Errorf("heli: arming tick: %w", err)
	}

	return c, nil
}

// SetInitialReference blocks until the altitude ring buffer has primed,
// then captures the bring-up reference. Must be called once, after
// interrupts are enabled, before the foreground loop starts.
func (c *Controller) SetInitialReference() {
	c.altitude.SetInitialReference()
}

// Tick is the tick-interrupt handler: it advances the scheduler's task
// table, then drains every task that became ready this tick. Registered
// on Def.Ticker by Init.
func (c *Controller) Tick() {
	c.tickCount++
	c.sched.Tick()
	for c.sched.RunReady() {
	}
}

// Mode returns the current flight mode, for telemetry and tests.
func (c *Controller) Mode() flightmode.Mode {
	return c.mode.Mode()
}

// Snapshot captures the current state for display/UART rendering.
func (c *Controller) Snapshot() telemetry.Snapshot {
	return telemetry.Snapshot{
		AltitudePercent: c.altitude.Percent(),
		AltitudeDesired: c.altitude.Desired(),
		AltitudeMeanADC: c.altitude.MeanADC(),
		YawDegrees:      c.yaw.Degrees(),
		YawDesired:      c.yaw.Desired(),
		MainRotorPower:  c.rotor.GetMain(),
		TailRotorPower:  c.rotor.GetTail(),
		Mode:            c.mode.Mode(),
	}
}

// pollSwitch debounces and acts on the mode switch. Registered as its own
// scheduled task, separate from pollInputs, so switch semantics never share
// a poll window with button semantics.
func (c *Controller) pollSwitch() {
	c.panel.PollSwitch(c.def.Switch.Read())

	if ev := c.panel.CheckSwitch(); ev == input.SwitchUp {
		c.mode.SwitchMovedUp()
	} else if ev == input.SwitchDown {
		c.mode.SwitchMovedDown()
	}
}

func (c *Controller) pollInputs() {
	c.panel.PollButton(input.Up, c.def.ButtonUp.Read())
	c.panel.PollButton(input.Down, c.def.ButtonDown.Read())
	c.panel.PollButton(input.Left, c.def.ButtonLeft.Read())
	c.panel.PollButton(input.Right, c.def.ButtonRight.Read())
	if c.def.ButtonReset != nil {
		c.panel.PollButton(input.Reset, c.def.ButtonReset.Read())
	}

	if c.panel.CheckButton(input.Reset) == input.Pushed || (c.def.Fault != nil && c.def.Fault.Raised()) {
		c.mode.Reset()
		c.yaw.Reset()
		c.altitude.ResetReference()
		return
	}

	if c.mode.Mode() != flightmode.Flying {
		return
	}
	if c.panel.CheckButton(input.Up) == input.Pushed {
		c.altitude.ChangeDesired(10)
	}
	if c.panel.CheckButton(input.Down) == input.Pushed {
		c.altitude.ChangeDesired(-10)
	}
	if c.panel.CheckButton(input.Left) == input.Pushed {
		c.yaw.ChangeDesired(-15)
	}
	if c.panel.CheckButton(input.Right) == input.Pushed {
		c.yaw.ChangeDesired(15)
	}
}

func (c *Controller) triggerADCConversion() {
	c.altitude.TriggerConversion()
}

// runControlLoop steps both axis PID controllers and writes the resulting
// duty cycles, then checks whether a landing phase has settled enough to
// advance to the next flight mode.
func (c *Controller) runControlLoop() {
	mode := c.mode.Mode()
	if mode == flightmode.Landed {
		return
	}

	altErr := int32(c.altitude.Error())
	c.rotor.SetMain(c.altPID.Update(altErr))

	yawErr := int32(c.yaw.Error())
	c.rotor.SetTail(c.yawPID.Update(yawErr))

	switch mode {
	case flightmode.LandingYaw:
		if abs32(yawErr) <= settledThreshold {
			c.mode.YawSettled()
		}
	case flightmode.LandingAltitude:
		if abs32(altErr) <= settledThreshold {
			c.mode.AltitudeSettled()
		}
	}
}

// runYawScan advances the desired yaw while searching for the index
// pulse, so the yaw PID controller rotates the craft past its index mark
// instead of holding position indefinitely. A no-op outside
// FindingYawReference.
func (c *Controller) runYawScan() {
	if c.mode.Mode() != flightmode.FindingYawReference {
		return
	}
	c.yaw.ChangeDesired(yawScanStepDegrees)
}

func (c *Controller) updateDisplay() {
	c.display.Render(c.Snapshot())
}

func (c *Controller) sendTelemetry() {
	_ = c.telem.SendStatus(c.Snapshot())
}

// CyclePage advances the OLED to its next display page; intended to be
// wired to a dedicated button outside this package's own panel.
func (c *Controller) CyclePage() {
	c.display.CyclePage()
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
