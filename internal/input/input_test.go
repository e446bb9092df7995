package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func commitLow(d *Debouncer) {
	for i := 0; i < CommitThreshold; i++ {
		d.Poll(false)
	}
}

func commitHigh(d *Debouncer) {
	for i := 0; i < CommitThreshold; i++ {
		d.Poll(true)
	}
}

func TestDebouncerRequiresConsecutivePolls(t *testing.T) {
	d := NewDebouncer(false)
	for i := 0; i < CommitThreshold-1; i++ {
		d.Poll(true)
		assert.Equal(t, NoChange, d.Check())
		assert.False(t, d.Level())
	}
	d.Poll(true)
	assert.Equal(t, Rising, d.Check())
	assert.True(t, d.Level())
}

func TestDebouncerGlitchResetsRunCounter(t *testing.T) {
	d := NewDebouncer(false)
	d.Poll(true)
	d.Poll(true)
	d.Poll(false) // glitch back to committed level before threshold hit
	d.Poll(true)
	d.Poll(true)
	assert.Equal(t, NoChange, d.Check())
	assert.False(t, d.Level())
}

func TestDebouncerCheckClearsPending(t *testing.T) {
	d := NewDebouncer(false)
	commitHigh(d)
	assert.Equal(t, Rising, d.Check())
	assert.Equal(t, NoChange, d.Check())
}

func TestPanelButtonPolarity(t *testing.T) {
	initial := [NumButtons]bool{}
	activeHigh := [NumButtons]bool{true, false, true, true, true}
	p := NewPanel(initial, activeHigh, false)

	commitHigh(p.buttons[Up])
	assert.Equal(t, Pushed, p.CheckButton(Up))

	commitHigh(p.buttons[Down])
	assert.Equal(t, Released, p.CheckButton(Down))
}

func TestPanelSwitchEvents(t *testing.T) {
	p := NewPanel([NumButtons]bool{}, [NumButtons]bool{}, false)
	commitHigh(p.sw)
	assert.Equal(t, SwitchUp, p.CheckSwitch())

	commitLow(p.sw)
	assert.Equal(t, SwitchDown, p.CheckSwitch())
}

func TestPanelPortPacksLevels(t *testing.T) {
	p := NewPanel([NumButtons]bool{}, [NumButtons]bool{true, true, true, true, true}, false)
	commitHigh(p.buttons[Up])
	commitHigh(p.buttons[Right])
	port := p.Port()
	assert.True(t, port&(1<<Up) != 0)
	assert.True(t, port&(1<<Right) != 0)
	assert.False(t, port&(1<<Down) != 0)
}
