package main

import (
	"PremiereHunter/internal"
	"PremiereHunter/internal/scanner"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/term"
)

const exitInterrupted = 130

func main() {
	app := &cli.App{
		Name:      "premiere-hunter",
		Usage:     "Fast parallel search for text in Premiere Pro project files",
		ArgsUsage: "[SEARCH_TEXT]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "paths",
				Aliases: []string{"p"},
				Usage:   "Paths to search (comma separated); merged with config paths",
			},
			&cli.BoolFlag{
				Name:  "auto-drives",
				Usage: "Also include the common fixed drives / mounted volumes in the search roots",
			},
			&cli.IntFlag{
				Name:    "threads",
				Aliases: []string{"t"},
				Usage:   "Number of worker threads (default: number of CPU cores)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
			&cli.StringSliceFlag{
				Name:  "extensions",
				Usage: "File extensions to search, without dot (default: prproj)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude-dirs",
				Usage: "Directory names to skip (case-insensitive)",
			},
			&cli.BoolFlag{
				Name:  "follow-links",
				Usage: "Follow symbolic links",
			},
			&cli.Int64Flag{
				Name:  "max-file-size-mb",
				Usage: "Skip files larger than this (0 - unlimited, default 100)",
			},
			&cli.IntFlag{
				Name:  "depth",
				Usage: "Max directory depth (0 - unlimited)",
				Value: 0,
			},
			&cli.BoolFlag{
				Name:  "list-assets",
				Usage: "List media assets used in each project instead of free-text search; SEARCH_TEXT filters assets",
			},
			&cli.BoolFlag{
				Name:  "show-snippets",
				Usage: "Print a text snippet around each match",
			},
			&cli.IntFlag{
				Name:  "snippet-chars",
				Usage: "Max number of characters in each snippet",
				Value: internal.DefaultSnippetChars,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Global timeout for scan (e.g. 10m, 1h)",
			},
			&cli.StringFlag{
				Name:  "save-matches-file",
				Usage: "Append every matched file path into this file",
			},
			&cli.BoolFlag{
				Name:  "list-errors",
				Usage: "Print the files that could not be searched and why",
			},
			&cli.StringFlag{
				Name:  "logfile",
				Usage: "Write logs into file instead of stderr",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
				Value: "warn",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func run(c *cli.Context) error {
	internal.InitLogger(c.String("logfile"), c.String("log-level"))
	if _, err := maxprocs.Set(maxprocs.Logger(logrus.Debugf)); err != nil {
		logrus.WithError(err).Debug("maxprocs")
	}

	fileCfg, err := internal.LoadFileConfig(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	cfg := internal.Merge(fileCfg, overridesFrom(c), func() []string {
		return internal.DetectRoots(runtime.GOOS)
	})
	if cfg.SearchText == "" && !cfg.ListAssets {
		text, err := promptSearchText(os.Stdin, os.Stdout)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		cfg.SearchText = text
	}
	cfg.Prepare()
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fsys := afero.NewOsFs()
	roots, err := internal.ValidRoots(fsys, cfg.Roots)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	cfg.Roots = roots
	printHeader(os.Stdout, &cfg)

	// ctx with timeout + OS signals
	base := context.Background()
	var cancel context.CancelFunc
	if t := c.Duration("timeout"); t > 0 {
		base, cancel = context.WithTimeout(base, t)
	} else {
		base, cancel = context.WithCancel(base)
	}
	defer cancel()
	ctx, stop := signal.NotifyContext(base, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Scanning for files...")
	enum := internal.NewEnumerator(fsys, internal.NewFileFilter(&cfg), cfg.MaxDepth)
	candidates, err := enum.Enumerate(ctx, cfg.Roots)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintf(os.Stderr, "Interrupted during file discovery. Found %d files so far.\n", len(candidates))
			return cli.Exit("", exitInterrupted)
		}
		return err
	}
	fmt.Printf("Found %d files to search\n", len(candidates))
	if len(candidates) == 0 {
		fmt.Println("No files found.")
		return nil
	}

	var barOut io.Writer = io.Discard
	if term.IsTerminal(int(os.Stderr.Fd())) {
		barOut = os.Stderr
	}
	reporters := internal.MultiReporter{internal.NewConsoleReporter(os.Stdout, barOut, len(candidates), cfg.ListAssets)}
	if p := c.String("save-matches-file"); p != "" {
		reporters = append(reporters, internal.NewMatchFileReporter(p))
	}

	finder := internal.NewFileScanner(cfg.Threads, reporters)
	stats, err := finder.Run(ctx, candidates, newSearcher(fsys, &cfg))
	if c.Bool("list-errors") {
		printFailures(os.Stdout, stats.Failures())
	}
	if err != nil {
		if ctx.Err() != nil {
			logrus.Warn("Scan cancelled")
			return cli.Exit("", exitInterrupted)
		}
		logrus.WithError(err).Error("Scan failed")
		return err
	}
	return nil
}

func newSearcher(fsys afero.Fs, cfg *internal.SearchConfig) scanner.Searcher {
	if cfg.ListAssets {
		return internal.NewAssetLister(fsys, cfg.SearchText)
	}
	m := internal.NewStreamMatcher(fsys, cfg.SearchText)
	if cfg.ShowSnippets {
		m.SnippetChars = cfg.SnippetChars
	}
	return m
}

func overridesFrom(c *cli.Context) internal.Overrides {
	o := internal.Overrides{
		SearchText:   strings.TrimSpace(c.Args().First()),
		Paths:        c.StringSlice("paths"),
		AutoDrives:   c.Bool("auto-drives"),
		Extensions:   c.StringSlice("extensions"),
		ExcludeDirs:  c.StringSlice("exclude-dirs"),
		MaxDepth:     c.Int("depth"),
		ListAssets:   c.Bool("list-assets"),
		ShowSnippets: c.Bool("show-snippets"),
		SnippetChars: c.Int("snippet-chars"),
	}
	if c.IsSet("threads") {
		v := c.Int("threads")
		o.Threads = &v
	}
	if c.IsSet("follow-links") {
		v := c.Bool("follow-links")
		o.FollowLinks = &v
	}
	if c.IsSet("max-file-size-mb") {
		v := c.Int64("max-file-size-mb")
		o.MaxFileSizeMB = &v
	}
	return o
}
