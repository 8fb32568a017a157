package internal

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"PremiereHunter/internal/scanner"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func assertContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("output %q lacks %q", got, w)
		}
	}
}

func TestConsoleReporter_Search(t *testing.T) {
	var out bytes.Buffer
	r := NewConsoleReporter(&out, io.Discard, 3, false)

	r.Progress(scanner.ProgressEvent{Processed: 1, Total: 3})
	r.Match(scanner.MatchEvent{Path: "/p/a.prproj", Snippet: "...Clair De Lune..."})
	r.Progress(scanner.ProgressEvent{Processed: 2, Total: 3})
	r.Match(scanner.MatchEvent{Path: "/p/b.prproj"})
	r.Summary(scanner.SummaryEvent{Total: 3, FilesProcessed: 3, MatchesFound: 2, FilesErrored: 1, Elapsed: 1500 * time.Millisecond})

	assertContains(t, out.String(),
		"✓ MATCH: /p/a.prproj\n    ...Clair De Lune...\n",
		"✓ MATCH: /p/b.prproj\n",
		"Search complete!",
		"Files processed: 3",
		"Matches found: 2",
		"Files skipped (errors): 1",
		"Elapsed: 1.5s",
	)
}

func TestConsoleReporter_Assets(t *testing.T) {
	var out bytes.Buffer
	r := NewConsoleReporter(&out, io.Discard, 1, true)
	r.Match(scanner.MatchEvent{Path: "/p/a.prproj", Assets: []string{"C:/a.mov", "C:/b.wav"}})
	r.Summary(scanner.SummaryEvent{Total: 1, FilesProcessed: 1, MatchesFound: 1, AssetsListed: 2, Interrupted: true})

	got := out.String()
	assertContains(t, got,
		"Project: /p/a.prproj\n  - C:/a.mov\n  - C:/b.wav\n",
		"Search interrupted by user (partial results):",
		"Projects with listed assets: 1",
		"Total assets listed: 2",
	)
	if strings.Contains(got, "Files skipped") {
		t.Errorf("no errors, yet %q", got)
	}
}

func TestMatchFileReporter_Appends(t *testing.T) {
	p := filepath.Join(t.TempDir(), "matches.txt")
	if err := os.WriteFile(p, []byte("/old/match.prproj\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var r scanner.Reporter = MultiReporter{scanner.Discard, NewMatchFileReporter(p)}
	r.Match(scanner.MatchEvent{Path: "/p/a.prproj"})
	r.Progress(scanner.ProgressEvent{Processed: 1, Total: 2})
	r.Match(scanner.MatchEvent{Path: "/p/b.prproj"})
	r.Summary(scanner.SummaryEvent{})

	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if want := "/old/match.prproj\n/p/a.prproj\n/p/b.prproj\n"; string(data) != want {
		t.Fatalf("got %q, want %q", data, want)
	}
}

func TestMatchFileReporter_UnwritablePath(t *testing.T) {
	r := NewMatchFileReporter(filepath.Join(t.TempDir(), "missing", "dir", "m.txt"))
	// logs and carries on
	r.Match(scanner.MatchEvent{Path: "/p/a.prproj"})
}
