package mcts

import (
	"context"
	"math"
	"strings"
	"sync/atomic"
	"time"
)

type StopReason int

const (
	StopNone      StopReason = 0
	StopInterrupt StopReason = 1  // Stopped by user, by calling .SetStop(true) or context cancellation
	StopMovetime  StopReason = 2  // Time limit reached
	StopMemory    StopReason = 4  // Memory limit reached
	StopDepth     StopReason = 8  // Depth limit reached
	StopCycles    StopReason = 16 // Cycle limit reached
	StopNodes     StopReason = 32 // Tree size limit reached
	StopTerminal  StopReason = 64 // Nothing to search, the game is over or the move was forced
)

func (sr StopReason) String() string {
	if sr == StopNone {
		return "None"
	}

	reasons := []struct {
		flag StopReason
		name string
	}{
		{StopInterrupt, "Interrupt"},
		{StopMovetime, "Movetime"},
		{StopMemory, "Memory"},
		{StopDepth, "Depth"},
		{StopCycles, "Cycles"},
		{StopNodes, "Nodes"},
		{StopTerminal, "Terminal"},
	}

	names := make([]string, 0, 2)
	for _, r := range reasons {
		if sr&r.flag == r.flag {
			names = append(names, r.name)
		}
	}
	return strings.Join(names, "|")
}

const (
	stopMask   int = int(StopInterrupt)
	timeMask   int = int(StopMovetime)
	memoryMask int = int(StopMemory)
	depthMask  int = int(StopDepth)
	cyclesMask int = int(StopCycles)
	nodesMask  int = int(StopNodes)
)

type LimiterLike interface {
	SetContext(ctx context.Context)
	// Set the limits
	SetLimits(*Limits)
	// Get the limits
	Limits() *Limits
	// Get elapsed time since the last 'Reset' call
	Elapsed() time.Duration
	// Set the stop signal, will cause to exit search if set to true
	SetStop(bool)
	// Get the stop signal
	Stop() bool
	// Reset the limiter's flags, called on search setup
	Reset()
	// Whether the tree can grow
	Expand() bool
	// Whether the search can continue, called once per iteration
	Ok(size, depth, cycles uint32) bool
	// Get the reason why the search was stopped, valid after search ends
	StopReason() StopReason
	// Evaluate stop reason based on current state, and set it internally,
	// called once after the search loop ends
	EvaluateStopReason(size, depth, cycles uint32)
	// Override the stop reason
	SetStopReason(StopReason)
}

type Limiter struct {
	limits     *Limits
	Timer      *_Timer
	nodeSize   uint32
	maxSize    uint32
	expand     bool
	stop       atomic.Bool
	areSetMask int
	reason     StopReason
	ctx        context.Context
}

// 'nodesize' is the approximate memory footprint of a single node,
// 'clock' measures the movetime (nil means process CPU time)
func NewLimiter(nodesize uint32, clock Clock) *Limiter {
	return &Limiter{
		limits:   DefaultLimits(),
		Timer:    _NewTimer(clock),
		nodeSize: max(nodesize, 1),
		expand:   true,
		ctx:      context.Background(),
	}
}

func (l *Limiter) Reset() {
	l.Timer.Movetime(l.limits.Movetime)
	l.Timer.Reset()
	l.stop.Store(false)
	l.expand = true
	l.reason = StopNone

	// Calculate 'nodes' based on memory
	if !l.limits.InfiniteSize() {
		l.maxSize = uint32(min(l.limits.ByteSize/int64(l.nodeSize), math.MaxUint32))
	} else {
		l.maxSize = math.MaxUint32
	}

	// Pre-calculate 'are set' limit mask, see 'OkMask' method for more explanation
	l.areSetMask = toMask(l.Timer.IsSet(), timeMask) |
		toMask(!l.limits.InfiniteSize(), memoryMask) |
		toMask(l.limits.Depth != DefaultDepthLimit, depthMask) |
		toMask(l.limits.Cycles != DefaultCyclesLimit, cyclesMask) |
		toMask(l.limits.Nodes != DefaultNodeLimit, nodesMask)
}

func (l *Limiter) EvaluateStopReason(size, depth, cycles uint32) {
	l.reason = StopReason(l.OkMask(size, depth, cycles))
}

func (l *Limiter) StopReason() StopReason {
	return l.reason
}

func (l *Limiter) SetStopReason(reason StopReason) {
	l.reason = reason
}

func (l *Limiter) SetContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	l.ctx = ctx
}

func (l *Limiter) SetStop(v bool) {
	l.stop.Store(v)
}

func (l *Limiter) Stop() bool {
	select {
	case <-l.ctx.Done():
		l.stop.Store(true)
	default:
	}
	return l.stop.Load()
}

func (l *Limiter) SetLimits(limits *Limits) {
	l.limits = limits
}

func (l *Limiter) Limits() *Limits {
	return l.limits
}

func (l *Limiter) Elapsed() time.Duration {
	return l.Timer.Deltatime()
}

func (l *Limiter) Expand() bool {
	return l.expand
}

func toMask(val bool, mask int) int {
	if val {
		return mask
	}
	return 0
}

func (l *Limiter) LimitMask(size, depth, cycles uint32) int {
	stop := l.Stop()
	// If infinite, only the stop signal matters
	if l.limits.Infinite {
		return toMask(stop, stopMask)
	}

	return toMask(stop, stopMask) |
		toMask(l.Timer.IsEnd(), timeMask) |
		toMask(l.maxSize <= size, memoryMask) |
		toMask(l.limits.Depth <= int(depth), depthMask) |
		toMask(l.limits.Cycles <= cycles, cyclesMask) |
		toMask(l.limits.Nodes <= size, nodesMask)
}

func (l *Limiter) OkMask(size, depth, cycles uint32) int {
	limitMask := l.LimitMask(size, depth, cycles)

	// Hierarchy of stop signals
	// 1. stop
	// 2. Movetime
	// 3. Memory
	// 4. Depth

	// Check the combos:
	// (time/cycles or any combination of them) AND memory limit ->
	// if memory is exhausted, disable expanding of the tree and wait for the other limitation/s
	if (l.areSetMask&memoryMask) == memoryMask && (l.areSetMask&(timeMask|cyclesMask)) != 0 {
		if limitMask&memoryMask == memoryMask {
			l.expand = false
			limitMask &^= memoryMask
		}
	}

	return limitMask
}

func (l *Limiter) Ok(size, depth, cycles uint32) bool {
	return l.OkMask(size, depth, cycles) == 0
}
