//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, taking
// the preview browser's renderer and GPU helpers down with it.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// launcher.Kill() still runs afterwards, so the error is not fatal.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
