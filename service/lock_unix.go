//go:build unix

package service

import "syscall"

// pidAlive reports whether pid names a live process, signaling it with
// the null signal per the standard "kill -0" liveness check.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return syscall.Kill(pid, 0) == nil
}
