//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the browser's process group so renderer
// and GPU helpers die with it. Non-positive pids are ignored: -0 would
// target the caller's own group.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; launcher.Kill() runs afterwards as a fallback.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
