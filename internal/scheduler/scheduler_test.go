package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	_, err := New(0)
	require.Error(t, err)
}

func TestRegisterSilentlyDropsBeyondCapacity(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)

	s.Register(func() {}, 1)
	assert.Equal(t, 1, s.Len())
	s.Register(func() {}, 1)
	assert.Equal(t, 1, s.Len())
}

func TestTaskRunsAtItsOwnRate(t *testing.T) {
	s, err := New(4)
	require.NoError(t, err)

	var fastRuns, slowRuns int
	s.Register(func() { fastRuns++ }, 1)
	s.Register(func() { slowRuns++ }, 4)

	for i := 0; i < 8; i++ {
		s.Tick()
		for s.RunReady() {
		}
	}
	assert.Equal(t, 8, fastRuns)
	assert.Equal(t, 2, slowRuns)
}

func TestHigherPriorityTaskRunsFirstWhenBothReady(t *testing.T) {
	s, err := New(4)
	require.NoError(t, err)

	var order []string
	s.Register(func() { order = append(order, "first") }, 1)
	s.Register(func() { order = append(order, "second") }, 1)

	s.Tick()
	s.RunReady()
	assert.Equal(t, []string{"first"}, order)
	s.RunReady()
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestRunForeverReturnsImmediatelyWhenAlreadyStopped(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)

	var runs int
	s.Register(func() { runs++ }, 1)
	s.Tick()

	stop := make(chan struct{})
	close(stop)
	s.RunForever(stop)
	assert.Equal(t, 0, runs)
}
