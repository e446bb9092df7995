// Package ringsum implements a fixed-capacity circular buffer of unsigned
// samples with an incrementally maintained sum, so a rolling mean can be
// recomputed in O(1) per sample instead of re-summing the whole window.
//
// It plays the role circBufT.c played in the original firmware (a ring of
// raw ADC samples plus a running sum), shaped the way
// github.com/jmchacon/6502/memory.Bank shapes a addressable store: a fixed
// backing array allocated once at construction, a single mutator entry
// point and no resizing afterward - this package is written to be called
// only from the ADC completion handler (see internal/hal.ADC.OnComplete),
// never concurrently with itself.
package ringsum

import "fmt"

// Sum is a ring of size N samples with an incrementally maintained sum.
// The zero value is not usable; construct with New.
type Sum struct {
	data  []uint32
	index int
	sum   int32
	n     int

	filled int // number of writes seen, saturating at len(data).
}

// New allocates a Sum holding n samples, all initially zero. n must be a
// positive integer; n < 16 is accepted here, but internal/altitude
// enforces its own minimum on top of this constructor.
func New(n int) (*Sum, error) {
	if n <= 0 {
		return nil, fmt.Errorf("ringsum: invalid capacity %d, must be positive", n)
	}
	return &Sum{
		data: make([]uint32, n),
		n:    n,
	}, nil
}

// Write stores sample at the current index, advances the index modulo the
// capacity, and updates the running sum by removing the value being
// overwritten and adding the new one.
func (s *Sum) Write(sample uint32) {
	old := s.data[s.index]
	s.data[s.index] = sample
	s.sum += int32(sample) - int32(old)
	s.index++
	if s.index >= s.n {
		s.index = 0
	}
	if s.filled < s.n {
		s.filled++
	}
}

// ReadOldest returns the value currently at the write index - the one
// about to be overwritten by the next Write.
func (s *Sum) ReadOldest() uint32 {
	return s.data[s.index]
}

// Sum returns the current running sum of all samples in the buffer.
func (s *Sum) Sum() int32 {
	return s.sum
}

// Mean returns the rolling mean of the buffer using symmetric rounding:
// (2*sum + n) / (2*n). This matches the fixed-point rounding
// altitudeADCIntHandler used in the original firmware's altitude.c so a
// constant input converges to itself exactly.
func (s *Sum) Mean() int32 {
	n := int32(s.n)
	return (2*s.sum + n) / (2 * n)
}

// Primed reports whether at least Cap() samples have been written, i.e.
// whether every slot in the ring reflects a real sample rather than the
// zero-fill from New.
func (s *Sum) Primed() bool {
	return s.filled >= s.n
}

// Cap returns the ring's capacity.
func (s *Sum) Cap() int {
	return s.n
}
