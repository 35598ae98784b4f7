//go:build windows

package mcts

import (
	"time"

	"golang.org/x/sys/windows"
)

// User and kernel CPU time consumed by the process
func CPUTime() time.Duration {
	var creation, exit, kernel, user windows.Filetime
	if err := windows.GetProcessTimes(windows.CurrentProcess(), &creation, &exit, &kernel, &user); err != nil {
		return WallTime()
	}
	return filetime(kernel) + filetime(user)
}

// Filetime counts 100-nanosecond intervals
func filetime(ft windows.Filetime) time.Duration {
	return time.Duration(uint64(ft.HighDateTime)<<32|uint64(ft.LowDateTime)) * 100
}
