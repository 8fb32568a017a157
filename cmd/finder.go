package main

import (
	"PremiereHunter/internal"
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// promptSearchText asks for the search text when neither the CLI nor the
// config file supplied one.
func promptSearchText(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprintln(out, "No search text provided via CLI or config. Please enter the text to search for:")
	fmt.Fprint(out, "> ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", &internal.ConfigError{Err: fmt.Errorf("reading input: %w", err)}
	}
	text := strings.TrimSpace(line)
	if text == "" {
		return "", &internal.ConfigError{Err: errors.New("search text cannot be empty")}
	}
	return text, nil
}

func printHeader(out io.Writer, cfg *internal.SearchConfig) {
	if cfg.ListAssets {
		fmt.Fprintln(out, "Listing assets used in Premiere project files")
		if cfg.SearchText != "" {
			fmt.Fprintf(out, "Asset filter (case-insensitive): '%s'\n", cfg.SearchText)
		}
	} else {
		fmt.Fprintf(out, "Searching for: '%s'\n", cfg.SearchText)
	}
	fmt.Fprintf(out, "Search paths (%s): %v\n", cfg.RootSource, cfg.Roots)
	fmt.Fprintf(out, "Extensions: %v\n", cfg.Extensions)
	if len(cfg.ExcludeDirs) > 0 {
		fmt.Fprintf(out, "Excluding directories: %v\n", cfg.ExcludeDirs)
	}
	if cfg.MaxFileSize > 0 {
		fmt.Fprintf(out, "Max file size: %d MB\n", cfg.MaxFileSize/(1024*1024))
	}
	fmt.Fprintf(out, "Threads: %d\n\n", cfg.Threads)
}

func printFailures(out io.Writer, failures []internal.FileFailure) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(out, "\nFiles that could not be searched (%d):\n", len(failures))
	for _, f := range failures {
		fmt.Fprintf(out, "  %s: %v\n", f.Path, f.Err)
	}
}
