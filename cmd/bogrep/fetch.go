package main

import (
	"fmt"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/service"
)

// FetchCmd fetches and caches bookmarks per the current plan.
type FetchCmd struct {
	Replace bool     `help:"Re-fetch and replace cached content for matched bookmarks"`
	Diff    []string `help:"Fetch and diff against the existing cache for these URLs" sep:","`
	URLs    []string `help:"Restrict fetch to these URLs" sep:","`
}

func (c *FetchCmd) Run(deps *Dependencies) error {
	report, err := deps.Service.Fetch(deps.Ctx, service.FetchOptions{
		Replace: c.Replace,
		Diff:    c.Diff,
		URLs:    c.URLs,
	}, progressPrinter(deps))
	if err != nil {
		return err
	}
	printReport(deps, report)
	if report.Cancelled {
		return bogrep.Errorf(bogrep.ECANCELLED, "fetch cancelled")
	}
	return nil
}

func progressPrinter(deps *Dependencies) bogrep.ProgressFunc {
	return func(ev bogrep.ProgressEvent) {
		if ev.Err != nil {
			fmt.Fprintf(deps.Stderr, "[%d/%d] failed %s: %s\n", ev.Completed, ev.Total, ev.URL, bogrep.ErrorMessage(ev.Err))
			return
		}
		fmt.Fprintf(deps.Stdout, "[%d/%d] %s\n", ev.Completed, ev.Total, ev.URL)
	}
}

func printReport(deps *Dependencies, report *bogrep.Report) {
	fmt.Fprintf(deps.Stdout, "Processed %d, cached %d, failed %d, binary %d, empty %d\n",
		report.Processed, report.Cached, report.FailedResponse, report.BinaryResponse, report.EmptyResponse)
	if report.Cancelled {
		fmt.Fprintln(deps.Stdout, "Run was cancelled; partial progress saved")
	}
	for _, d := range report.Diffs {
		fmt.Fprintf(deps.Stdout, "--- %s (before)\n%s\n+++ %s (after)\n%s\n", d.URL, d.Before, d.URL, d.After)
	}
}
