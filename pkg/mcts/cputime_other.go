//go:build !unix && !windows

package mcts

import "time"

// No portable process clock here, fall back to the wall clock
func CPUTime() time.Duration {
	return WallTime()
}
