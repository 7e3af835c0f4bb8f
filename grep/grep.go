// Package grep implements the grep-like matcher over cached bookmark
// content: the `<pattern>` subcommand.
package grep

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/fwojciec/bogrep"
)

// Options configures a search, mirroring the `<pattern>` subcommand's
// flags.
type Options struct {
	IgnoreCase bool
	URLsOnly   bool
	WholeWord  bool
	Mode       bogrep.CacheMode
}

// Match is one matching line in a cached artifact.
type Match struct {
	URL        string
	LineNumber int
	Line       string
}

// Grep compiles pattern per opts and searches every TargetBookmark's
// cached artifact for the requested mode, skipping entities with no
// file for that mode.
func Grep(index []*bogrep.TargetBookmark, cache bogrep.Cache, pattern string, opts Options) ([]Match, error) {
	re, err := compile(pattern, opts)
	if err != nil {
		return nil, bogrep.Errorf(bogrep.EINVALID, "bad pattern: %v", err)
	}

	var matches []Match
	for _, b := range index {
		if !b.HasCacheMode(opts.Mode) {
			continue
		}
		data, ok, err := cache.Get(b.ID, opts.Mode)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		found := false
		scanner := bufio.NewScanner(bytes.NewReader(data))
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := scanner.Text()
			if !re.MatchString(line) {
				continue
			}
			found = true
			if opts.URLsOnly {
				break
			}
			matches = append(matches, Match{URL: b.URL, LineNumber: lineNo, Line: line})
		}
		if opts.URLsOnly && found {
			matches = append(matches, Match{URL: b.URL})
		}
	}
	return matches, nil
}

func compile(pattern string, opts Options) (*regexp.Regexp, error) {
	expr := pattern
	if opts.WholeWord {
		expr = `\b` + expr + `\b`
	}
	if opts.IgnoreCase {
		expr = "(?i)" + expr
	}
	return regexp.Compile(expr)
}

// FormatMatch renders a Match the way the CLI prints it: the bare URL
// for URLs-only mode, "url:lineno:content" otherwise.
func FormatMatch(m Match, urlsOnly bool) string {
	if urlsOnly {
		return m.URL
	}
	return fmt.Sprintf("%s:%d:%s", m.URL, m.LineNumber, strings.TrimRight(m.Line, "\r"))
}
