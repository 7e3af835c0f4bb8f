package boglog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/bogrep"
)

var _ bogrep.Scheduler = (*Scheduler)(nil)

// Scheduler wraps a bogrep.Scheduler, logging per-bookmark outcomes at
// debug/warn level (network/render/cache failures are warnings, not
// aborts) and the final report at info level.
type Scheduler struct {
	next   bogrep.Scheduler
	logger *slog.Logger
}

// NewScheduler creates a new logging Scheduler.
func NewScheduler(next bogrep.Scheduler, logger *slog.Logger) *Scheduler {
	return &Scheduler{next: next, logger: logger}
}

// Run delegates to the wrapped scheduler, logging each progress event and
// the final report.
func (s *Scheduler) Run(ctx context.Context, decisions []bogrep.Decision, progress bogrep.ProgressFunc) (report *bogrep.Report, err error) {
	wrapped := func(ev bogrep.ProgressEvent) {
		if ev.Err != nil {
			s.logger.Warn("fetch failed", "url", ev.URL, "err", ev.Err)
		} else {
			s.logger.Debug("fetch completed", "url", ev.URL, "completed", ev.Completed, "total", ev.Total)
		}
		if progress != nil {
			progress(ev)
		}
	}

	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin), "err", err}
		if report != nil {
			attrs = append(attrs,
				"processed", report.Processed,
				"cached", report.Cached,
				"failed", report.FailedResponse,
				"cancelled", report.Cancelled,
			)
		}
		s.logger.Info("fetch run", attrs...)
	}(time.Now())

	return s.next.Run(ctx, decisions, wrapped)
}
