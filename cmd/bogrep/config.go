package main

import (
	"fmt"

	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/service"
)

// ConfigCmd updates sources, the ignore list, and the underlying-rewrite
// list.
type ConfigCmd struct {
	Source     string   `help:"Add a bookmark export path as a source"`
	Kind       string   `help:"Source kind for --source: chrome, chromium, edge, firefox, safari, simple"`
	Folders    []string `name:"folders" help:"Folder filter for --source" sep:","`
	Ignore     []string `name:"ignore" help:"URLs to add to the ignore list" sep:","`
	Underlying []string `name:"underlying" help:"URLs to add to the underlying-rewrite list" sep:","`
}

func (c *ConfigCmd) Run(deps *Dependencies) error {
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

	settings.IgnoredURLs = appendUnique(settings.IgnoredURLs, c.Ignore)
	settings.UnderlyingURLs = appendUnique(settings.UnderlyingURLs, c.Underlying)

	if err := service.SaveSettings(deps.SettingsPath, settings); err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, "Settings updated")
	return nil
}

func appendUnique(existing, added []string) []string {
	if len(added) == 0 {
		return existing
	}
	seen := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		seen[v] = struct{}{}
	}
	out := existing
	for _, v := range added {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
