package main

import (
	"context"
	"io"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/service"
)

// Dependencies holds the services and I/O a subcommand's Run needs,
// bound into Kong with kong.Bind.
type Dependencies struct {
	Ctx          context.Context
	Stdout       io.Writer
	Stderr       io.Writer
	ConfigRoot   string
	Settings     bogrep.Settings
	SettingsPath string
	Service      *service.Service
	Cache        bogrep.Cache
	Store        bogrep.Store
}

// CLI defines bogrep's subcommands for Kong. Grep is the default
// command so `bogrep <pattern>` dispatches without an explicit verb.
type CLI struct {
	Init   InitCmd   `cmd:"" help:"Create the config directory and select sources"`
	Config ConfigCmd `cmd:"" help:"Update sources, ignore list, or underlying list"`
	Import ImportCmd `cmd:"" help:"Read configured sources into the target index"`
	Fetch  FetchCmd  `cmd:"" help:"Fetch and cache bookmarks per the current plan"`
	Sync   SyncCmd   `cmd:"" help:"Import then fetch"`
	Add    AddCmd    `cmd:"" help:"Manually track one or more URLs"`
	Remove RemoveCmd `cmd:"" help:"Stop tracking one or more URLs"`
	Clean  CleanCmd  `cmd:"" help:"Purge cache artifacts not referenced by the index"`
	Grep   GrepCmd   `cmd:"" default:"withargs" help:"Search cached content for a pattern"`
}
