//go:build unix

package fetch

import "golang.org/x/sys/unix"

// raiseFDLimit raises the process's soft file-descriptor limit toward
// target, capped at the hard limit. It returns the resulting soft
// limit. If the limit cannot be read, it returns 0 and the error; if it
// cannot be raised, it returns the current soft limit and the error,
// letting the caller log and continue with the lower bound.
func raiseFDLimit(target uint64) (uint64, error) {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return 0, err
	}
	if rl.Cur >= target {
		return rl.Cur, nil
	}

	want := target
	if rl.Max < want {
		want = rl.Max
	}
	newLimit := unix.Rlimit{Cur: want, Max: rl.Max}
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &newLimit); err != nil {
		return rl.Cur, err
	}
	return want, nil
}
