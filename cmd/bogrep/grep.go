package main

import (
	"fmt"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/grep"
)

// GrepCmd searches cached content for a pattern. It is the CLI's
// default command, so `bogrep <pattern>` works without a verb.
type GrepCmd struct {
	Pattern    string `arg:"" help:"Pattern to search for"`
	IgnoreCase bool   `short:"i" help:"Case-insensitive match"`
	URLsOnly   bool   `short:"l" help:"Print matching URLs only"`
	WholeWord  bool   `short:"w" help:"Match whole words only"`
	Mode       string `short:"m" default:"text" help:"Cache mode to search: html or text"`
}

func (c *GrepCmd) Run(deps *Dependencies) error {
	mode := bogrep.CacheMode(c.Mode)
	if mode != bogrep.CacheModeHTML && mode != bogrep.CacheModeText && mode != bogrep.CacheModeMarkdown {
		return bogrep.Errorf(bogrep.EINVALID, "unknown mode %q", c.Mode)
	}

	index, err := deps.Store.Load(deps.Ctx)
	if err != nil {
		return err
	}

	matches, err := grep.Grep(index, deps.Cache, c.Pattern, grep.Options{
		IgnoreCase: c.IgnoreCase,
		URLsOnly:   c.URLsOnly,
		WholeWord:  c.WholeWord,
		Mode:       mode,
	})
	if err != nil {
		return err
	}

	for _, m := range matches {
		fmt.Fprintln(deps.Stdout, grep.FormatMatch(m, c.URLsOnly))
	}
	return nil
}
