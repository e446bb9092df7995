package heli

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ence361/helicore/internal/simhal"
)

func testDef() (Def, *harness) {
	h := &harness{
		adc:    &simhal.ADC{},
		chA:    &simhal.GPIO{},
		chB:    &simhal.GPIO{},
		index:  &simhal.GPIO{},
		sw:     &simhal.GPIO{},
		up:     &simhal.GPIO{},
		down:   &simhal.GPIO{},
		left:   &simhal.GPIO{},
		right:  &simhal.GPIO{},
		reset:  &simhal.GPIO{},
		pwm:    &simhal.PWM{},
		uart:   &simhal.UART{},
		oled:   &simhal.OLED{},
		ticker: &simhal.Ticker{},
	}
	def := Def{
		ADC: h.adc, ChA: h.chA, ChB: h.chB, Index: h.index, Switch: h.sw,
		ButtonUp: h.up, ButtonDown: h.down, ButtonLeft: h.left, ButtonRight: h.right, ButtonReset: h.reset,
		PWM: h.pwm, UART: h.uart, OLED: h.oled, Ticker: h.ticker,
		AltitudeBufSize: 16,
	}
	return def, h
}

type harness struct {
	adc                               *simhal.ADC
	chA, chB, index                   *simhal.GPIO
	sw, up, down, left, right, reset  *simhal.GPIO
	pwm                               *simhal.PWM
	uart                              *simhal.UART
	oled                              *simhal.OLED
	ticker                            *simhal.Ticker
}

func TestInitRejectsMissingBindings(t *testing.T) {
	def, _ := testDef()
	def.ADC = nil
	_, err := Init(def)
	require.Error(t, err)
}

func TestInitArmsTicker(t *testing.T) {
	def, h := testDef()
	_, err := Init(def)
	require.NoError(t, err)
	require.Equal(t, TickHz, h.ticker.Hz())
}
