package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/bogrep"
	"github.com/fwojciec/bogrep/boglog"
	"github.com/fwojciec/bogrep/cache"
	"github.com/fwojciec/bogrep/fetch"
	"github.com/fwojciec/bogrep/httpclient"
	"github.com/fwojciec/bogrep/plan"
	"github.com/fwojciec/bogrep/reader"
	readerjson "github.com/fwojciec/bogrep/reader/json"
	readerplist "github.com/fwojciec/bogrep/reader/plist"
	readersimple "github.com/fwojciec/bogrep/reader/simple"
	"github.com/fwojciec/bogrep/render"
	"github.com/fwojciec/bogrep/render/markdown"
	"github.com/fwojciec/bogrep/render/text"
	"github.com/fwojciec/bogrep/service"
	"github.com/fwojciec/bogrep/store"
	"github.com/fwojciec/bogrep/throttle"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if err != nil && bogrep.ErrorCode(err) != bogrep.ECANCELLED {
		fmt.Fprintln(os.Stderr, bogrep.ErrorMessage(err))
	}
	os.Exit(bogrep.ExitCode(err))
}

// run parses args and dispatches to the selected subcommand, wiring
// every dependency from the resolved config root before calling
// kongCtx.Run.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := configRoot()
	if err := os.MkdirAll(root, 0755); err != nil {
		return bogrep.WrapOp("main.run", bogrep.Errorf(bogrep.EINVALID, "create config root: %v", err))
	}

	settingsPath := filepath.Join(root, "settings.json")
	settings, err := service.LoadSettings(settingsPath)
	if err != nil {
		return err
	}

	deps, err := buildDependencies(ctx, root, settingsPath, settings, stdout, stderr)
	if err != nil {
		return err
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("bogrep"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return bogrep.WrapOp("main.run", bogrep.Errorf(bogrep.EINTERNAL, "create parser: %v", err))
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return bogrep.Errorf(bogrep.EINVALID, "no command specified; run 'bogrep --help'")
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return bogrep.WrapOp("main.run", bogrep.Errorf(bogrep.EINVALID, "%v", err))
	}

	return kongCtx.Run(deps)
}

func buildDependencies(ctx context.Context, root, settingsPath string, settings bogrep.Settings, stdout, stderr io.Writer) (*Dependencies, error) {
	indexPath := filepath.Join(root, "bookmarks.json")
	cacheDir := filepath.Join(root, "cache")
	lockPath := filepath.Join(root, ".bogrep.lock")

	logger := newLogger(stderr)
	idx := boglog.NewStore(store.NewJSONStore(indexPath), logger)
	fsCache, err := cache.NewFSCache(cacheDir)
	if err != nil {
		return nil, err
	}

	composite := reader.NewComposite(
		readerjson.New(),
		readerplist.New(),
		readersimple.New(),
	)

	client := httpclient.NewClient(httpclient.Config{
		RequestTimeout:            settings.RequestTimeout,
		MaxIdleConnectionsPerHost: settings.MaxIdleConnectionsPerHost,
		IdleConnectionsTimeout:    settings.IdleConnectionsTimeout,
	})
	throttler := throttle.New(settings.RequestThrottling)
	renderer := render.New(markdown.NewConverter(), text.NewExtractor())
	rewriter := bogrep.NewRewriter()

	scheduler := boglog.NewScheduler(fetch.New(client, throttler, renderer, fsCache, rewriter, settings.CacheMode, fetch.Config{
		MaxConcurrentRequests: settings.MaxConcurrentRequests,
		RequestTimeout:        settings.RequestTimeout,
		MaxOpenFiles:          settings.MaxOpenFiles,
		UnderlyingURLs:        settings.UnderlyingURLs,
	}), logger)

	svc := &service.Service{
		Reader:    composite,
		Store:     idx,
		Planner:   plan.New(),
		Scheduler: scheduler,
		Cache:     fsCache,
		Lock:      service.NewFileLock(lockPath),
	}

	return &Dependencies{
		Ctx:          ctx,
		Stdout:       stdout,
		Stderr:       stderr,
		ConfigRoot:   root,
		Settings:     settings,
		SettingsPath: settingsPath,
		Service:      svc,
		Cache:        fsCache,
		Store:        idx,
	}, nil
}

// newLogger builds the process logger on stderr. BOGREP_DEBUG enables
// per-bookmark debug output; the default level surfaces only warnings.
func newLogger(stderr io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("BOGREP_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

// configRoot resolves the config directory: BOGREP_HOME if set,
// otherwise ~/.bogrep.
func configRoot() string {
	if v := os.Getenv("BOGREP_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bogrep"
	}
	return filepath.Join(home, ".bogrep")
}
