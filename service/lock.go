package service

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/bogrep"
)

var _ bogrep.Lock = (*FileLock)(nil)

// FileLock implements bogrep.Lock as a lockfile containing the holding
// process's pid and start time. A stale lock (holder not alive) is
// reclaimed rather than blocking forever.
type FileLock struct {
	path      string
	startedAt time.Time
}

// NewFileLock creates a FileLock backed by the file at path.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// Acquire creates the lockfile, reclaiming it first if its holder is no
// longer alive. It fails with ELOCKED if a live process holds the lock.
func (l *FileLock) Acquire() error {
	if data, err := os.ReadFile(l.path); err == nil {
		pid, _, ok := parseLockFile(string(data))
		if ok && pidAlive(pid) {
			return bogrep.WrapOp("service.FileLock.Acquire", bogrep.Errorf(bogrep.ELOCKED, "bogrep already running (pid %d)", pid))
		}
		// Stale: holder is gone, reclaim by overwriting below.
	} else if !os.IsNotExist(err) {
		return bogrep.WrapOp("service.FileLock.Acquire", bogrep.Errorf(bogrep.ELOCKED, "read lockfile: %v", err))
	}

	l.startedAt = time.Now()
	content := fmt.Sprintf("%d\n%d\n", os.Getpid(), l.startedAt.Unix())
	if err := os.WriteFile(l.path, []byte(content), 0644); err != nil {
		return bogrep.WrapOp("service.FileLock.Acquire", bogrep.Errorf(bogrep.ELOCKED, "write lockfile: %v", err))
	}
	return nil
}

// Release removes the lockfile. A missing lockfile is not an error,
// keeping release idempotent across signal-driven shutdown paths.
func (l *FileLock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return bogrep.WrapOp("service.FileLock.Release", bogrep.Errorf(bogrep.ELOCKED, "remove lockfile: %v", err))
	}
	return nil
}

func parseLockFile(content string) (pid int, startedAt int64, ok bool) {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) < 1 {
		return 0, 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return 0, 0, false
	}
	if len(lines) >= 2 {
		startedAt, _ = strconv.ParseInt(strings.TrimSpace(lines[1]), 10, 64)
	}
	return pid, startedAt, true
}
