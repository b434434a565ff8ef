//go:build !windows

// Package process terminates browser process trees left behind by a
// render session.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid so that
// Chrome renderer and GPU children die with the browser. Non-positive
// PIDs are ignored: 0 would target our own group.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Errors are ignored; the group is usually already gone after a clean close.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
