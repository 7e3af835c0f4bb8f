package main

import "fmt"

// AddCmd manually tracks one or more URLs.
type AddCmd struct {
	URLs []string `arg:"" help:"URLs to track"`
}

func (c *AddCmd) Run(deps *Dependencies) error {
	if err := deps.Service.Add(deps.Ctx, c.URLs); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Added %d bookmark(s)\n", len(c.URLs))
	return nil
}

// RemoveCmd stops tracking one or more URLs.
type RemoveCmd struct {
	URLs []string `arg:"" help:"URLs to stop tracking"`
}

func (c *RemoveCmd) Run(deps *Dependencies) error {
	if err := deps.Service.Remove(deps.Ctx, c.URLs); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Removed %d bookmark(s)\n", len(c.URLs))
	return nil
}
