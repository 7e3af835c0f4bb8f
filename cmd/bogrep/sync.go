package main

import (
	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/service"
)

// SyncCmd runs import followed by fetch.
type SyncCmd struct {
	Replace bool     `help:"Re-fetch and replace cached content for matched bookmarks"`
	Diff    []string `help:"Fetch and diff against the existing cache for these URLs" sep:","`
	URLs    []string `help:"Restrict fetch to these URLs" sep:","`
}

func (c *SyncCmd) Run(deps *Dependencies) error {
	report, err := deps.Service.Sync(deps.Ctx, deps.Settings, service.FetchOptions{
		Replace: c.Replace,
		Diff:    c.Diff,
		URLs:    c.URLs,
	}, progressPrinter(deps))
	if err != nil {
		return err
	}
	printReport(deps, report)
	if report.Cancelled {
		return bogrep.Errorf(bogrep.ECANCELLED, "sync cancelled")
	}
	return nil
}
