// Package process tracks whether a previously started `fungen serve`
// process is still alive, so a new `serve` invocation can refuse to
// start a second server over it instead of silently colliding on the
// same address (ambient component A8; ungrounded in spec.md, mirrored
// from the teacher's own server liveness tracking).
package process

import (
	"os"
	"syscall"
)

// isProcessAlive reports whether a process with the given PID is
// currently running, by sending it the null signal.
func isProcessAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
