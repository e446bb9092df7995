package telemetry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ence361/helicore/internal/flightmode"
	"github.com/ence361/helicore/internal/simhal"
)

func testSnapshot() Snapshot {
	return Snapshot{
		AltitudePercent: 42,
		AltitudeDesired: 50,
		AltitudeMeanADC: 2048,
		YawDegrees:      -30,
		YawDesired:      0,
		MainRotorPower:  60,
		TailRotorPower:  20,
		Mode:            flightmode.Flying,
	}
}

func TestDisplayRendersFixedStatusLayoutByDefault(t *testing.T) {
	oled := &simhal.OLED{}
	d := NewDisplay(oled)
	snap := testSnapshot()

	d.Render(snap)
	assert.Contains(t, oled.Lines[0], "Alt:")
	assert.Contains(t, oled.Lines[1], "Yaw:")
	assert.Contains(t, oled.Lines[2], "Main:")
	assert.Contains(t, oled.Lines[3], "Tail:")
}

func TestDisplayCyclePageTogglesRawADCAndBack(t *testing.T) {
	oled := &simhal.OLED{}
	d := NewDisplay(oled)
	snap := testSnapshot()

	d.CyclePage()
	d.Render(snap)
	assert.Contains(t, oled.Lines[0], "Mean ADC")

	d.CyclePage()
	d.Render(snap)
	assert.Contains(t, oled.Lines[0], "Alt:")
}

func TestSendStatusWritesFiveCRLFLines(t *testing.T) {
	uart := &simhal.UART{}
	tel := NewTelemetry(uart)

	require.NoError(t, tel.SendStatus(testSnapshot()))

	out := string(uart.Sent)
	lines := strings.Split(strings.TrimRight(out, "\r\n"), "\r\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "Alt:")
	assert.Contains(t, lines[1], "Yaw:")
	assert.Contains(t, lines[2], "Main:")
	assert.Contains(t, lines[3], "Tail:")
	assert.Contains(t, lines[4], "Flying")
}
