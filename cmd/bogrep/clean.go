package main

import "fmt"

// CleanCmd purges cache artifacts not referenced by the index.
type CleanCmd struct {
	All bool `help:"Also purge cache files of ignored bookmarks"`
}

func (c *CleanCmd) Run(deps *Dependencies) error {
	removed, err := deps.Service.Clean(deps.Ctx, c.All)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Cleaned %d cache entries\n", removed)
	if empty, err := deps.Cache.IsEmpty(); err == nil && empty {
		fmt.Fprintln(deps.Stdout, "Cache is empty")
	}
	return nil
}
