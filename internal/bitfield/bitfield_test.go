package bitfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	var b byte

	b = Set(b, 0, true)
	assert.True(t, Get(b, 0))
	assert.False(t, Get(b, 1))

	b = Set(b, 3, true)
	assert.Equal(t, byte(0b0000_1001), b)

	b = Set(b, 0, false)
	assert.False(t, Get(b, 0))
	assert.True(t, Get(b, 3))
}

func TestSetIndependence(t *testing.T) {
	var b byte
	for i := Pos(0); i < 8; i++ {
		b = Set(b, i, true)
	}
	assert.Equal(t, byte(0xff), b)

	for i := Pos(0); i < 8; i++ {
		b = Set(b, i, false)
	}
	assert.Equal(t, byte(0), b)
}
