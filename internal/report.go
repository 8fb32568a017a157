package internal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"PremiereHunter/internal/scanner"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// ConsoleReporter draws the progress bar and prints matches and the final
// summary. The bar is cleared before each match line so output doesn't
// interleave.
type ConsoleReporter struct {
	out        io.Writer
	bar        *progressbar.ProgressBar
	assetsMode bool
	hit        *color.Color
	dim        *color.Color
}

// NewConsoleReporter prints results to out and renders the bar to barOut.
// Pass io.Discard as barOut when not attached to a terminal.
func NewConsoleReporter(out, barOut io.Writer, total int, assetsMode bool) *ConsoleReporter {
	bar := progressbar.NewOptions64(int64(total),
		progressbar.OptionSetWriter(barOut),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: "-",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &ConsoleReporter{
		out:        out,
		bar:        bar,
		assetsMode: assetsMode,
		hit:        color.New(color.FgGreen, color.Bold),
		dim:        color.New(color.FgHiBlack),
	}
}

func (r *ConsoleReporter) Match(ev scanner.MatchEvent) {
	_ = r.bar.Clear()
	if r.assetsMode {
		fmt.Fprintf(r.out, "\nProject: %s\n", ev.Path)
		for _, a := range ev.Assets {
			fmt.Fprintf(r.out, "  - %s\n", a)
		}
		return
	}
	fmt.Fprintf(r.out, "\n%s %s\n", r.hit.Sprint("✓ MATCH:"), ev.Path)
	if ev.Snippet != "" {
		fmt.Fprintf(r.out, "    %s\n", r.dim.Sprint(ev.Snippet))
	}
}

func (r *ConsoleReporter) Progress(ev scanner.ProgressEvent) {
	_ = r.bar.Set64(ev.Processed)
}

func (r *ConsoleReporter) Summary(ev scanner.SummaryEvent) {
	_ = r.bar.Finish()
	line := strings.Repeat("=", 60)
	fmt.Fprintf(r.out, "\n%s\n", line)
	if ev.Interrupted {
		fmt.Fprintln(r.out, "Search interrupted by user (partial results):")
	} else {
		fmt.Fprintln(r.out, "Search complete!")
	}
	fmt.Fprintf(r.out, "Files processed: %d\n", ev.FilesProcessed)
	if r.assetsMode {
		fmt.Fprintf(r.out, "Projects with listed assets: %d\n", ev.MatchesFound)
		fmt.Fprintf(r.out, "Total assets listed: %d\n", ev.AssetsListed)
	} else {
		fmt.Fprintf(r.out, "Matches found: %d\n", ev.MatchesFound)
	}
	if ev.FilesErrored > 0 {
		fmt.Fprintf(r.out, "Files skipped (errors): %d\n", ev.FilesErrored)
	}
	fmt.Fprintf(r.out, "Elapsed: %s\n", ev.Elapsed.Round(time.Millisecond))
	fmt.Fprintln(r.out, line)
}

// MatchFileReporter appends each matched path to a file, one per line.
type MatchFileReporter struct {
	path string
	mu   sync.Mutex
}

func NewMatchFileReporter(path string) *MatchFileReporter {
	return &MatchFileReporter{path: path}
}

func (r *MatchFileReporter) Match(ev scanner.MatchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logrus.WithFields(logrus.Fields{"file": r.path, "err": err}).Warn("Failed to save match")
		return
	}
	defer f.Close()
	_, _ = io.WriteString(f, ev.Path+"\n")
}

func (r *MatchFileReporter) Progress(scanner.ProgressEvent) {}
func (r *MatchFileReporter) Summary(scanner.SummaryEvent)   {}

// MultiReporter forwards every event to each reporter in order.
type MultiReporter []scanner.Reporter

func (m MultiReporter) Match(ev scanner.MatchEvent) {
	for _, r := range m {
		r.Match(ev)
	}
}

func (m MultiReporter) Progress(ev scanner.ProgressEvent) {
	for _, r := range m {
		r.Progress(ev)
	}
}

func (m MultiReporter) Summary(ev scanner.SummaryEvent) {
	for _, r := range m {
		r.Summary(ev)
	}
}
