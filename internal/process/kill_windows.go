//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup terminates pid and its child tree with taskkill
// (/F force, /T tree).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// launcher.Kill() still runs afterwards, so the error is not fatal.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- fixed binary, numeric argument
}
