package main

import "fmt"

// ImportCmd reads every configured source into the target index.
type ImportCmd struct {
	DryRun bool     `help:"Plan without saving the index"`
	URLs   []string `help:"Restrict import to these URLs" sep:","`
}

func (c *ImportCmd) Run(deps *Dependencies) error {
	report, err := deps.Service.Import(deps.Ctx, deps.Settings, c.URLs, c.DryRun)
	if err != nil {
		return err
	}
	if c.DryRun {
		fmt.Fprintf(deps.Stdout, "%d bookmark(s) planned, index not saved\n", report.DryRun)
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Imported: %d bookmark(s) processed\n", report.Processed)
	return nil
}
