// groundstation is a windowed SDL2 simulator: it boots a heli.Controller
// against simulated hardware, maps the keyboard to the four buttons, the
// RESET button and the mode switch, and renders the simulated OLED text
// grid plus rotor duty gauges and a flight-mode banner into the window
// every frame. Modeled directly on vcs/vcs_main.go's
// sdl.Init/CreateWindow/GetSurface/UpdateSurface/sdl.Do window-surface
// dance for the Atari2600 emulator; basicfont.Face7x13 renders the
// OLED's fixed-width character cells the way that file's fastImage
// renders TIA pixels.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/ence361/helicore/heli"
	"github.com/ence361/helicore/internal/hal"
	"github.com/ence361/helicore/internal/simhal"
)

var (
	scale   = flag.Int("scale", 2, "Scale factor to render the window at")
	bufSize = flag.Int("buf_size", 40, "Altitude ring buffer size")
	adcBase = flag.Int("adc_base", 2048, "Simulated ADC reading fed to the altitude sampler")
)

const (
	winWidth  = 360
	winHeight = 220
)

// canvas is a draw.Image backed directly by an SDL surface's pixel bytes,
// avoiding the GC pressure of going through color.Color.Convert on every
// Set call - the same trick vcs_main.go's fastImage uses.
type canvas struct {
	surface *sdl.Surface
	data    []byte
}

func (c *canvas) Set(x, y int, col color.Color) {
	if x < 0 || y < 0 || int32(x) >= c.surface.W || int32(y) >= c.surface.H {
		return
	}
	r, g, b, a := col.RGBA()
	i := int32(y)*c.surface.Pitch + int32(x)*int32(c.surface.Format.BytesPerPixel)
	c.data[i+0] = byte(b >> 8)
	c.data[i+1] = byte(g >> 8)
	c.data[i+2] = byte(r >> 8)
	c.data[i+3] = byte(a >> 8)
}

func (c *canvas) ColorModel() color.Model { return c.surface.ColorModel() }
func (c *canvas) Bounds() image.Rectangle { return c.surface.Bounds() }
func (c *canvas) At(x, y int) color.Color { return c.surface.At(x, y) }

func fillRect(dst draw.Image, r image.Rectangle, col color.Color) {
	draw.Draw(dst, r, &image.Uniform{C: col}, image.Point{}, draw.Src)
}

// peripherals bundles every simulated hal implementation the controller
// needs; keyboard input is wired directly onto the GPIO fields' Set
// method.
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

// onKey maps a keyboard scancode to the GPIO it should drive, and toggles
// the quadrature/index pins by hand since groundstation has no physical
// encoder: '[' and ']' nudge yaw backward/forward a quarter notch, '\'
// fires the index pulse.
func (p *peripherals) onKey(key sdl.Keycode, down bool) {
	switch key {
	case sdl.K_UP:
		p.up.Set(down)
	case sdl.K_DOWN:
		p.down.Set(down)
	case sdl.K_LEFT:
		p.left.Set(down)
	case sdl.K_RIGHT:
		p.right.Set(down)
	case sdl.K_r:
		p.reset.Set(down)
	case sdl.K_SPACE:
		p.sw.Set(down)
	case sdl.K_LEFTBRACKET, sdl.K_RIGHTBRACKET:
		if !down {
			return
		}
		// Forward order is 00 -> 01 -> 11 -> 10: forward flips B when A == B.
		forward := key == sdl.K_RIGHTBRACKET
		if (p.chA.Level == p.chB.Level) == forward {
			p.chB.Set(!p.chB.Level)
		} else {
			p.chA.Set(!p.chA.Level)
		}
	case sdl.K_BACKSLASH:
		if down {
			p.index.Set(true)
			p.index.Set(false)
		}
	}
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

	if err := sdl.Init(sdl.INIT_EVERYTHING); err != nil {
		log.Fatalf("Can't init SDL: %v", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow("helicore groundstation",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(winWidth**scale), int32(winHeight**scale), sdl.WINDOW_SHOWN)
	if err != nil {
		log.Fatalf("Can't create window: %v", err)
	}
	defer window.Destroy()

	surface, err := window.GetSurface()
	if err != nil {
		log.Fatalf("Can't get window surface: %v", err)
	}
	cv := &canvas{surface: surface, data: surface.Pixels()}

	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: cv, Src: image.NewUniform(color.White), Face: face}

	const ticksPerFrame = heli.TickHz / 60
	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				p.onKey(e.Keysym.Sym, e.State == sdl.PRESSED)
			}
		}

		for i := 0; i < ticksPerFrame; i++ {
			p.ticker.Advance()
		}

		fillRect(cv, cv.Bounds(), color.Black)

		snap := c.Snapshot()
		drawer.Dot = fixed.P(8, 16)
		drawer.DrawString(fmt.Sprintf("Mode: %s", snap.Mode))

		for row, line := range p.oled.Lines {
			drawer.Dot = fixed.P(8, 40+row*16)
			drawer.DrawString(line)
		}

		drawGauge(cv, 240, 40, p.pwm.Duty[hal.MainChannel], p.pwm.Enabled[hal.MainChannel])
		drawGauge(cv, 290, 40, p.pwm.Duty[hal.TailChannel], p.pwm.Enabled[hal.TailChannel])

		window.UpdateSurface()
		time.Sleep(time.Second / 60)
	}
}

// drawGauge renders one rotor's duty cycle as a vertical bar: dim grey
// when disabled, green filled to percent height when enabled.
func drawGauge(cv *canvas, x, top, percent int, enabled bool) {
	const w, h = 30, 120
	outline := image.Rect(x, top, x+w, top+h)
	fillRect(cv, outline, color.RGBA{R: 40, G: 40, B: 40, A: 255})
	if !enabled {
		return
	}
	filled := h * percent / 100
	bar := image.Rect(x, top+h-filled, x+w, top+h)
	fillRect(cv, bar, color.RGBA{G: 200, A: 255})
}
