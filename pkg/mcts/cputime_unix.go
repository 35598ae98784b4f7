//go:build unix

package mcts

import (
	"time"

	"golang.org/x/sys/unix"
)

// User and system CPU time consumed by the process
func CPUTime() time.Duration {
	var usage unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &usage); err != nil {
		return WallTime()
	}
	return time.Duration(usage.Utime.Nano() + usage.Stime.Nano())
}
