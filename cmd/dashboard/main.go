// dashboard is a terminal ground station: it boots a heli.Controller
// against simulated hardware, runs the simulation in the background, and
// renders the five-line UART telemetry stream (internal/telemetry's wire
// format) as a live styled panel. Modeled on hejops-gone/cpu/debugger.go's
// bubbletea model/update/view structure and its go-spew dump-on-demand,
// adapted from a single-step CPU debugger to a ticking live feed.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/ence361/helicore/heli"
	"github.com/ence361/helicore/internal/simhal"
)

var (
	bufSize = flag.Int("buf_size", 40, "Altitude ring buffer size")
	adcBase = flag.Int("adc_base", 2048, "Simulated ADC reading fed to the altitude sampler")
)

const ticksPerFrame = heli.TickHz / 10 // one UI refresh per 100ms of simulated time

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

func (p *peripherals) def() heli.Def {
	return heli.Def{
		ADC: p.adc, ChA: p.chA, ChB: p.chB, Index: p.index, Switch: p.sw,
		ButtonUp: p.up, ButtonDown: p.down, ButtonLeft: p.left, ButtonRight: p.right, ButtonReset: p.reset,
		PWM: p.pwm, UART: p.uart, OLED: p.oled, Ticker: p.ticker,
		AltitudeBufSize: *bufSize,
	}
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	ctrl *heli.Controller
	p    *peripherals

	uartPos int
	lines   [5]string

	showRaw bool
	err     error
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		for i := 0; i < ticksPerFrame; i++ {
			m.p.ticker.Advance()
		}
		m.drainUART()
		return m, tickCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "u":
			m.p.sw.Set(!m.p.sw.Level)
		case "r":
			m.showRaw = !m.showRaw
		}
	}
	return m, nil
}

// drainUART consumes every complete CR/LF line written to the simulated
// UART since the last drain and folds full five-line records into lines.
func (m *model) drainUART() {
	unread := m.p.uart.Sent[m.uartPos:]
	scanner := bufio.NewScanner(bytes.NewReader(unread))
	scanner.Split(scanCRLF)
	var consumed int
	idx := 0
	for scanner.Scan() {
		line := scanner.Text()
		consumed += len(line) + 2
		m.lines[idx%5] = line
		idx++
	}
	m.uartPos += consumed
}

// scanCRLF is a bufio.SplitFunc for CR/LF-terminated lines, since
// bufio.ScanLines only recognizes bare LF.
func scanCRLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.Index(data, []byte("\r\n")); i >= 0 {
		return i + 2, data[:i], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

var (
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

func (m model) View() string {
	body := strings.Join(m.lines[:], "\n")
	box := boxStyle.Render(titleStyle.Render("helicore telemetry") + "\n" + body)
	help := "u: toggle switch  r: toggle raw dump  q: quit"

	if !m.showRaw {
		return lipgloss.JoinVertical(lipgloss.Left, box, help)
	}
	return lipgloss.JoinVertical(lipgloss.Left, box, spew.Sdump(m.ctrl.Snapshot()), help)
}

func main() {
	flag.Parse()

	p := newPeripherals()
	p.adc.Value = uint16(*adcBase)
	c, err := heli.Init(p.def())
	if err != nil {
		log.Fatalf("Can't init controller: %v", err)
	}
	for i := 0; i < *bufSize; i++ {
		p.ticker.Advance()
	}
	c.SetInitialReference()

	m := model{ctrl: c, p: p, lines: [5]string{"", "", "", "", fmt.Sprintf("%16s", "Landed")}}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatalf("dashboard exited with error: %v", err)
	}
}
