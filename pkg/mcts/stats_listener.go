package mcts

import "time"

type SearchLine[T MoveLike] struct {
	BestMove T
	Moves    []T
	Eval     float64
	Visits   int32
	Terminal bool
}

type ListenerTreeStats[T MoveLike] struct {
	Maxdepth   int
	Cycles     int
	Elapsed    time.Duration
	Cps        uint32
	Size       int
	Lines      []SearchLine[T]
	StopReason StopReason
}

// Convert engine's state to 'ListenerTreeStats' struct
func toListenerStats[T MoveLike, P comparable, S StateLike[T, P, S]](e *Engine[T, P, S]) ListenerTreeStats[T] {
	return ListenerTreeStats[T]{
		Lines:      e.MultiPv(),
		Maxdepth:   e.maxdepth,
		Cycles:     e.rollouts,
		Elapsed:    e.Limiter.Elapsed(),
		Cps:        e.Cps(),
		Size:       e.tree.Size(),
		StopReason: e.Limiter.StopReason(),
	}
}

// Listener function callback, will receive current tree statistics, like
// max depth of tree, number of iterations so far
type ListenerFunc[T MoveLike] func(ListenerTreeStats[T])

type StatsListener[T MoveLike] struct {
	// called when 'max depth' increases
	onDepth ListenerFunc[T]

	// called every N full iterations
	onCycle ListenerFunc[T]
	nCycles int // call 'onCycle' every N cycles

	// called when the search stops (either by limiter or 'stop' signal)
	onStop ListenerFunc[T]
}

func NewStatsListener[T MoveLike]() StatsListener[T] {
	return StatsListener[T]{nCycles: 1}
}

// Attach new on max depth change callback
func (listener *StatsListener[T]) OnDepth(onDepth ListenerFunc[T]) *StatsListener[T] {
	listener.onDepth = onDepth
	return listener
}

// Attach new on iteration increase callback, this will significantly slow down the search,
// because of pv evaluation, so use it with a large cycle interval
func (listener *StatsListener[T]) OnCycle(onCycle ListenerFunc[T]) *StatsListener[T] {
	listener.onCycle = onCycle
	return listener
}

func (listener *StatsListener[T]) SetCycleInterval(n int) *StatsListener[T] {
	listener.nCycles = max(n, 1)
	return listener
}

// Attach 'on search end' callback, makes 'StopReason' available in the stats
func (listener *StatsListener[T]) OnStop(onStop ListenerFunc[T]) *StatsListener[T] {
	listener.onStop = onStop
	return listener
}
