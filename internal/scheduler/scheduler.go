// Package scheduler implements a cooperative, time-triggered task
// scheduler: a fixed-capacity, priority-ordered table of tasks advanced by
// a tick interrupt, drained by an infinite
// foreground loop that always runs the highest-priority ready task first.
// Ported from the original firmware's scheduler.c, which stored a
// malloc'd array of (runTask, ticksPerRun, tick, ready) structs; this
// version uses a Go slice with a fixed capacity reserved up front, and
// represents a task as a bare function value the same way
// github.com/jmchacon/6502's io/irq interfaces let a consumer hold a
// callback without caring about its concrete owner.
package scheduler

import "fmt"

// Task is a scheduled callback. Must be non-blocking.
type Task func()

type entry struct {
	run          Task
	ticksPerRun  uint16
	subTick      uint16
	ready        bool
}

// Scheduler is the fixed-capacity, priority-ordered task table. The zero
// value is not usable; construct with New.
type Scheduler struct {
	tasks []entry
	max   int
}

// New allocates a Scheduler that can hold up to maxTasks tasks. maxTasks
// must be positive.
func New(maxTasks int) (*Scheduler, error) {
	if maxTasks <= 0 {
		return nil, fmt.Errorf("scheduler: invalid capacity %d, must be positive", maxTasks)
	}
	return &Scheduler{tasks: make([]entry, 0, maxTasks), max: maxTasks}, nil
}

// Register appends a task running once every ticksPerRun calls to Tick.
// Registration order is priority order: earlier registrations run first
// when multiple tasks are simultaneously ready. Fails silently if the
// table is already full - a config error, not a runtime panic - so
// callers that need to know should check Len() against the
// capacity they requested from New.
func (s *Scheduler) Register(run Task, ticksPerRun uint16) {
	if len(s.tasks) >= s.max {
		return
	}
	s.tasks = append(s.tasks, entry{run: run, ticksPerRun: ticksPerRun})
}

// Len returns the number of tasks currently registered.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Tick advances every task's sub-tick counter, marking a task ready when
// its counter wraps. Called from the hardware tick interrupt handler.
func (s *Scheduler) Tick() {
	for i := range s.tasks {
		t := &s.tasks[i]
		t.subTick++
		if t.subTick >= t.ticksPerRun {
			t.subTick = 0
			t.ready = true
		}
	}
}

// RunReady scans the table once from the top and runs the first ready
// task found, clearing its ready flag first. It reports whether it ran a
// task. Exposed separately from RunForever so callers (notably
// heli.Controller.Tick and tests) can single-step the foreground loop
// instead of blocking in it.
func (s *Scheduler) RunReady() bool {
	for i := range s.tasks {
		if s.tasks[i].ready {
			s.tasks[i].ready = false
			s.tasks[i].run()
			return true
		}
	}
	return false
}

// RunForever drains ready tasks in priority order, restarting the scan
// from the top after each execution, until stop is closed. When no task
// is ready it spins - the real firmware's idle primitive; a host build has
// no WFI equivalent to fall back to, so the channel-close is how a caller
// (such as the tests) asks the loop to return instead of blocking forever.
func (s *Scheduler) RunForever(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		s.RunReady()
	}
}
