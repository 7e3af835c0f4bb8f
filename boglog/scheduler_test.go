package boglog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/boglog"
	"github.com/fwojciec/bogrep/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_Run_LogsFailures(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	inner := &mock.Scheduler{RunFn: func(ctx context.Context, decisions []bogrep.Decision, progress bogrep.ProgressFunc) (*bogrep.Report, error) {
		progress(bogrep.ProgressEvent{URL: "https://example.com/a", Err: bogrep.Errorf(bogrep.ENETWORK, "timeout")})
		return &bogrep.Report{Total: 1, Processed: 1, FailedResponse: 1}, nil
	}}

	var forwarded []bogrep.ProgressEvent
	s := boglog.NewScheduler(inner, logger)
	report, err := s.Run(context.Background(), nil, func(ev bogrep.ProgressEvent) {
		forwarded = append(forwarded, ev)
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.FailedResponse)
	require.Len(t, forwarded, 1)
	assert.Contains(t, buf.String(), "fetch failed")
	assert.Contains(t, buf.String(), "example.com")
}

func TestStore_DelegatesLoadAndSave(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	inner := &mock.Store{
		LoadFn: func(ctx context.Context) ([]*bogrep.TargetBookmark, error) {
			return []*bogrep.TargetBookmark{{ID: "id-1", URL: "https://example.com/a"}}, nil
		},
		SaveFn: func(ctx context.Context, index []*bogrep.TargetBookmark) error { return nil },
	}

	s := boglog.NewStore(inner, logger)

	index, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, index, 1)

	require.NoError(t, s.Save(context.Background(), index))
	assert.Contains(t, buf.String(), "store load")
	assert.Contains(t, buf.String(), "store save")
}
