package main

import (
	"fmt"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/service"
)

// InitCmd creates the config directory and writes default settings if
// none exist yet.
type InitCmd struct {
	Source  string   `help:"Bookmark export path to configure as the first source"`
	Kind    string   `help:"Source kind: chrome, chromium, edge, firefox, safari, simple"`
	Folders []string `help:"Restrict the source to these folder paths" sep:","`
}

func (c *InitCmd) Run(deps *Dependencies) error {
	settings := deps.Settings
	if c.Source != "" {
		kind := bogrep.SourceKind(c.Kind)
		if kind == "" {
			kind = bogrep.SourceKindSimple
		}
		settings.Sources = append(settings.Sources, bogrep.Source{
			Path:    c.Source,
			Kind:    kind,
			Folders: c.Folders,
		})
	}

	if err := service.SaveSettings(deps.SettingsPath, settings); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Initialized bogrep config at %s\n", deps.ConfigRoot)
	return nil
}
