package ringsum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNonPositive(t *testing.T) {
	_, err := New(0)
	require.Error(t, err)
	_, err = New(-1)
	require.Error(t, err)
}

func TestPrimedAfterFullWindow(t *testing.T) {
	s, err := New(4)
	require.NoError(t, err)
	assert.False(t, s.Primed())

	for i := 0; i < 3; i++ {
		s.Write(10)
		assert.False(t, s.Primed())
	}
	s.Write(10)
	assert.True(t, s.Primed())
}

func TestMeanConstantInputConverges(t *testing.T) {
	s, err := New(5)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		s.Write(42)
	}
	assert.Equal(t, int32(42), s.Mean())
}

func TestMeanRoundsSymmetrically(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)
	s.Write(1)
	s.Write(2)
	// sum=3, n=2: (2*3+2)/4 = 2.
	assert.Equal(t, int32(2), s.Mean())
}

func TestWriteOverwritesOldest(t *testing.T) {
	s, err := New(3)
	require.NoError(t, err)
	s.Write(1)
	s.Write(2)
	s.Write(3)
	assert.EqualValues(t, 6, s.Sum())

	oldest := s.ReadOldest()
	assert.EqualValues(t, 1, oldest)

	s.Write(10)
	assert.EqualValues(t, 15, s.Sum())
	assert.EqualValues(t, 2, s.ReadOldest())
}

func TestCap(t *testing.T) {
	s, err := New(7)
	require.NoError(t, err)
	assert.Equal(t, 7, s.Cap())
}
