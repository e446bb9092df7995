// Package altitude implements the altitude sampler: it triggers ADC
// conversions, feeds completed conversions into a rolling-mean ring buffer,
// and converts the mean into a percent-of-travel value relative to a
// reference captured at bring-up. Ported from the original firmware's
// altitude.c, restructured around internal/hal.ADC instead of a TI
// driverlib ADC sequence.
package altitude

import (
	"fmt"

	"github.com/ence361/helicore/internal/hal"
	"github.com/ence361/helicore/internal/ringsum"
)

// Range is the raw ADC count span corresponding to 0%-100% of travel,
// derived from a 0.8V span on a 12-bit 3.3V ADC: 4095 * 0.8 / 3.3.
const Range = 993

// MinBufSize is the minimum allowed ring capacity.
const MinBufSize = 16

// DefaultBufSize is the buffer size used unless a caller picks another -
// the original firmware's latest altitude.c revision used BUF_SIZE=40;
// earlier revisions used 20. Left as an open choice between those two
// disagreeing revisions: this repository uses 40, the more recent one.
const DefaultBufSize = 40

// Sampler is the altitude measurement state: a ring-buffered running
// mean, a captured reference, and a foreground-owned desired setpoint.
type Sampler struct {
	adc hal.ADC
	buf *ringsum.Sum

	primed    bool
	reference int32

	desired int16 // percent, clamped to [0,100]
}

// New constructs a Sampler with a ring of size bufSize and registers its
// ADC completion handler on adc. bufSize must be >= MinBufSize.
func New(adc hal.ADC, bufSize int) (*Sampler, error) {
	if bufSize < MinBufSize {
		return nil, fmt.Errorf("altitude: buffer size %d below minimum %d", bufSize, MinBufSize)
	}
	buf, err := ringsum.New(bufSize)
	if err != nil {
		return nil, fmt.Errorf("altitude: %w", err)
	}
	s := &Sampler{adc: adc, buf: buf}
	adc.OnComplete(s.onConversionComplete)
	return s, nil
}

// onConversionComplete is the ADC completion interrupt handler: it reads
// the new raw sample and folds it into the running sum; the mean is
// computed from that sum on each read. Must only ever be invoked by the
// ADC's completion callback.
func (s *Sampler) onConversionComplete() {
	newValue := uint32(s.adc.Read())
	s.buf.Write(newValue)
}

// TriggerConversion requests one ADC sample. Called exactly once per tick.
func (s *Sampler) TriggerConversion() {
	s.adc.TriggerConversion()
}

// SetInitialReference blocks the caller until the ring buffer has been
// primed with a full window of samples, then captures the current mean as
// the zero-altitude reference. Called exactly once during bring-up, after
// interrupts are enabled. This is the system's one intentional busy-wait
// and its one truly fatal bring-up failure mode: if the ADC interrupt
// never fires, this blocks forever.
func (s *Sampler) SetInitialReference() {
	for !s.buf.Primed() {
	}
	s.reference = s.buf.Mean()
	s.primed = true
}

// ResetReference re-zeros the reference to the current mean without
// waiting for a fresh priming window (original firmware's
// altitudeResetReference). Called from heli's RESET button path.
func (s *Sampler) ResetReference() {
	s.reference = s.buf.Mean()
}

// Primed reports whether SetInitialReference has completed.
func (s *Sampler) Primed() bool {
	return s.primed
}

// MeanADC returns the current mean of the raw ADC samples in the buffer.
func (s *Sampler) MeanADC() int32 {
	return s.buf.Mean()
}

// Percent returns the current altitude as a signed percentage of travel,
// relative to the captured reference. Not clamped - small negative values
// are possible just after takeoff if sampling noise drifts the mean past
// the reference.
func (s *Sampler) Percent() int16 {
	return int16((s.reference - s.buf.Mean()) * 100 / Range)
}

// Desired returns the foreground-commanded desired altitude percent.
func (s *Sampler) Desired() int16 {
	return s.desired
}

// SetDesired sets the desired altitude percent, clamped to [0,100].
func (s *Sampler) SetDesired(p int16) {
	s.desired = clamp(p, 0, 100)
}

// ChangeDesired adjusts the desired altitude percent by delta, clamped to
// [0,100].
func (s *Sampler) ChangeDesired(delta int16) {
	s.SetDesired(s.desired + delta)
}

// Error returns desired minus the current measured percent.
func (s *Sampler) Error() int16 {
	return s.desired - s.Percent()
}

func clamp(v, lo, hi int16) int16 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
