package mcts

import "time"

// Source of the elapsed time, must be monotonic
type Clock func() time.Duration

var processStart = time.Now()

// Wall clock time since the process started
func WallTime() time.Duration {
	return time.Since(processStart)
}

type _Timer struct {
	clock    Clock
	start    time.Duration
	duration time.Duration
}

func _NewTimer(clock Clock) *_Timer {
	if clock == nil {
		clock = CPUTime
	}
	return &_Timer{clock: clock, start: clock(), duration: -1}
}

// Check if this timer has ended
func (t *_Timer) IsEnd() bool {
	return t.duration >= 0 && t.Deltatime() >= t.duration
}

func (t *_Timer) IsSet() bool {
	return t.duration >= 0
}

// Set the 'start' as now
func (t *_Timer) Reset() {
	t.start = t.clock()
}

func (t *_Timer) Deltatime() time.Duration {
	return t.clock() - t.start
}

// Negative value disables the timer
func (t *_Timer) Movetime(movetime time.Duration) {
	if movetime < 0 {
		t.duration = -1
	} else {
		t.duration = movetime
	}
}
