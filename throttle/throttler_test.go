package throttle_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/bogrep/throttle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottler_EnforcesMinimumInterval(t *testing.T) {
	t.Parallel()

	th := throttle.New(50 * time.Millisecond)
	ctx := t.Context()

	require.NoError(t, th.Wait(ctx, "example.com"))
	start := time.Now()
	require.NoError(t, th.Wait(ctx, "example.com"))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestThrottler_DistinctHostsDoNotBlockEachOther(t *testing.T) {
	t.Parallel()

	th := throttle.New(time.Hour)
	ctx := t.Context()

	require.NoError(t, th.Wait(ctx, "a.example.com"))

	done := make(chan error, 1)
	go func() { done <- th.Wait(ctx, "b.example.com") }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("distinct host wait blocked")
	}
}

func TestThrottler_CancellationWakesWaiter(t *testing.T) {
	t.Parallel()

	th := throttle.New(time.Hour)
	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, th.Wait(t.Context(), "example.com"))

	err := th.Wait(ctx, "example.com")
	assert.Error(t, err)
}
