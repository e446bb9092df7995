// Package tape implements a binary record/replay format for deterministic
// end-to-end test scenarios: a sequence of timestamped input events (ADC
// samples, switch/button levels, quadrature and index pulses) that can be
// assembled from a human-readable script (cmd/tapeasm), played back
// against internal/simhal to drive heli.Controller tick-for-tick, and
// dumped back to text (cmd/flightdump) or CSV (cmd/flightconv). Modeled
// on github.com/jmchacon/6502/convertprg's fixed-record binary conversion
// idiom, generalized from a byte stream to a timestamped event stream.
package tape

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// magic identifies a tape file; version allows the record layout to
// change without silently misparsing an older file.
const (
	magic   = "HCTP"
	version = 1
)

// Kind identifies which simulated input an Event changes.
type Kind byte

const (
	// SetADC sets the simulated altitude ADC's next raw sample.
	SetADC Kind = iota
	// SetSwitch sets the simulated mode switch level (Value 0 or 1).
	SetSwitch
	// SetButton sets a simulated button's raw level. Target is the
	// button index; Value is 0 or 1.
	SetButton
	// SetChA sets the simulated quadrature A channel level.
	SetChA
	// SetChB sets the simulated quadrature B channel level.
	SetChB
	// SetIndex sets the simulated yaw index pulse level.
	SetIndex
)

func (k Kind) String() string {
	switch k {
	case SetADC:
		return "SetADC"
	case SetSwitch:
		return "SetSwitch"
	case SetButton:
		return "SetButton"
	case SetChA:
		return "SetChA"
	case SetChB:
		return "SetChB"
	case SetIndex:
		return "SetIndex"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Event is one scripted input change, applied at Tick before that tick's
// scheduler pass runs.
type Event struct {
	Tick   uint32
	Kind   Kind
	Target byte
	Value  uint16
}

// Tape is an ordered sequence of Events. Events must be non-decreasing in
// Tick; Player relies on this to avoid rescanning from the start.
type Tape struct {
	Events []Event
}

const recordSize = 4 + 1 + 1 + 2 // Tick + Kind + Target + Value

// WriteTo serializes t in tape binary format.
func (t *Tape) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	if err := writeAll(bw, []byte(magic), &n); err != nil {
		return n, err
	}
	if err := writeAll(bw, []byte{version}, &n); err != nil {
		return n, err
	}
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(t.Events)))
	if err := writeAll(bw, hdr[:], &n); err != nil {
		return n, err
	}
	rec := make([]byte, recordSize)
	for _, e := range t.Events {
		binary.BigEndian.PutUint32(rec[0:4], e.Tick)
		rec[4] = byte(e.Kind)
		rec[5] = e.Target
		binary.BigEndian.PutUint16(rec[6:8], e.Value)
		if err := writeAll(bw, rec, &n); err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

func writeAll(w io.Writer, b []byte, n *int64) error {
	m, err := w.Write(b)
	*n += int64(m)
	return err
}

// ReadFrom parses a tape from r, validating the magic and version.
func ReadFrom(r io.Reader) (*Tape, error) {
	br := bufio.NewReader(r)

	hdr := make([]byte, len(magic)+1+4)
	if _, err := io.ReadFull(br, hdr); err != nil {
		return nil, fmt.Errorf("tape: reading header: %w", err)
	}
	if string(hdr[:len(magic)]) != magic {
		return nil, fmt.Errorf("tape: bad magic %q", hdr[:len(magic)])
	}
	if v := hdr[len(magic)]; v != version {
		return nil, fmt.Errorf("tape: unsupported version %d", v)
	}
	count := binary.BigEndian.Uint32(hdr[len(magic)+1:])

	t := &Tape{Events: make([]Event, 0, count)}
	rec := make([]byte, recordSize)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(br, rec); err != nil {
			return nil, fmt.Errorf("tape: reading event %d: %w", i, err)
		}
		t.Events = append(t.Events, Event{
			Tick:   binary.BigEndian.Uint32(rec[0:4]),
			Kind:   Kind(rec[4]),
			Target: rec[5],
			Value:  binary.BigEndian.Uint16(rec[6:8]),
		})
	}
	return t, nil
}

// Sink is the set of simulated inputs a Player applies Events to. Satisfied
// in cmd/helicore by a small adapter type over internal/simhal's ADC/GPIO
// values, kept as an interface here so this package never imports
// internal/simhal.
type Sink interface {
	SetADC(v uint16)
	SetSwitch(level bool)
	SetButton(id byte, level bool)
	SetChA(level bool)
	SetChB(level bool)
	SetIndex(level bool)
}

// Player replays a Tape's events against a Sink as ticks advance.
type Player struct {
	tape *Tape
	sink Sink
	pos  int
}

// NewPlayer constructs a Player for tape, applying events to sink.
func NewPlayer(t *Tape, sink Sink) *Player {
	return &Player{tape: t, sink: sink}
}

// Advance applies every event scheduled at or before tick that hasn't
// already been applied. Call once per simulated tick, with a
// non-decreasing tick sequence.
func (p *Player) Advance(tick uint32) {
	for p.pos < len(p.tape.Events) && p.tape.Events[p.pos].Tick <= tick {
		e := p.tape.Events[p.pos]
		switch e.Kind {
		case SetADC:
			p.sink.SetADC(e.Value)
		case SetSwitch:
			p.sink.SetSwitch(e.Value != 0)
		case SetButton:
			p.sink.SetButton(e.Target, e.Value != 0)
		case SetChA:
			p.sink.SetChA(e.Value != 0)
		case SetChB:
			p.sink.SetChB(e.Value != 0)
		case SetIndex:
			p.sink.SetIndex(e.Value != 0)
		}
		p.pos++
	}
}

// Done reports whether every event has been applied.
func (p *Player) Done() bool {
	return p.pos >= len(p.tape.Events)
}
