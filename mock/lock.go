package mock

import "github.com/fwojciec/bogrep"

var _ bogrep.Lock = (*Lock)(nil)

// Lock is a mock implementation of bogrep.Lock.
type Lock struct {
	AcquireFn func() error
	ReleaseFn func() error
}

func (l *Lock) Acquire() error {
	return l.AcquireFn()
}

func (l *Lock) Release() error {
	return l.ReleaseFn()
}
