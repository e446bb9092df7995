package altitude

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ence361/helicore/internal/simhal"
)

func TestNewRejectsUndersizedBuffer(t *testing.T) {
	adc := &simhal.ADC{}
	_, err := New(adc, MinBufSize-1)
	require.Error(t, err)
}

func TestSetInitialReferenceCapturesMean(t *testing.T) {
	adc := &simhal.ADC{}
	s, err := New(adc, MinBufSize)
	require.NoError(t, err)

	adc.Value = 2000
	for i := 0; i < MinBufSize; i++ {
		s.TriggerConversion()
	}
	s.SetInitialReference()

	assert.True(t, s.Primed())
	assert.Equal(t, int32(2000), s.MeanADC())
	assert.Equal(t, int16(0), s.Percent())
}

func TestPercentTracksRisingAltitude(t *testing.T) {
	adc := &simhal.ADC{}
	s, err := New(adc, MinBufSize)
	require.NoError(t, err)

	adc.Value = 2000
	for i := 0; i < MinBufSize; i++ {
		s.TriggerConversion()
	}
	s.SetInitialReference()

	adc.Value = 2000 - uint16(Range) // one full 100% drop in raw counts
	for i := 0; i < MinBufSize; i++ {
		s.TriggerConversion()
	}
	assert.Equal(t, int16(100), s.Percent())
}

func TestDesiredClampedToPercentRange(t *testing.T) {
	adc := &simhal.ADC{}
	s, err := New(adc, MinBufSize)
	require.NoError(t, err)

	s.SetDesired(500)
	assert.Equal(t, int16(100), s.Desired())

	s.SetDesired(-50)
	assert.Equal(t, int16(0), s.Desired())

	s.SetDesired(40)
	s.ChangeDesired(-1000)
	assert.Equal(t, int16(0), s.Desired())
}

func TestErrorIsDesiredMinusPercent(t *testing.T) {
	adc := &simhal.ADC{}
	s, err := New(adc, MinBufSize)
	require.NoError(t, err)

	adc.Value = 2000
	for i := 0; i < MinBufSize; i++ {
		s.TriggerConversion()
	}
	s.SetInitialReference()
	s.SetDesired(30)

	assert.Equal(t, int16(30), s.Error())
}

func TestResetReferenceDoesNotWaitForPriming(t *testing.T) {
	adc := &simhal.ADC{}
	s, err := New(adc, MinBufSize)
	require.NoError(t, err)

	adc.Value = 500
	s.TriggerConversion()
	s.ResetReference()

	assert.False(t, s.Primed())
	assert.Equal(t, int16(0), s.Percent())
}
