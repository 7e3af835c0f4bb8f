package mock

import (
	"time"

	"github.com/fwojciec/bogrep"
)

var _ bogrep.Planner = (*Planner)(nil)

// Planner is a mock implementation of bogrep.Planner.
type Planner struct {
	PlanFn func(index []*bogrep.TargetBookmark, observed []bogrep.SourceBookmark, ignore bogrep.IgnoreList, now time.Time) []bogrep.Decision
}

func (p *Planner) Plan(index []*bogrep.TargetBookmark, observed []bogrep.SourceBookmark, ignore bogrep.IgnoreList, now time.Time) []bogrep.Decision {
	return p.PlanFn(index, observed, ignore, now)
}
