//go:build !unix

package service

import "os"

// pidAlive reports whether pid names a live process. Non-unix platforms
// have no null-signal liveness probe, so a successful process handle
// lookup is treated as "alive".
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	_, err := os.FindProcess(pid)
	return err == nil
}
