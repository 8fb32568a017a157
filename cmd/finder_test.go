package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"PremiereHunter/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptSearchText(t *testing.T) {
	var out bytes.Buffer
	text, err := promptSearchText(strings.NewReader("  Clair De Lune \n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "Clair De Lune", text)
	assert.Contains(t, out.String(), "Please enter the text")

	// no trailing newline is fine
	text, err = promptSearchText(strings.NewReader("lune"), &out)
	require.NoError(t, err)
	assert.Equal(t, "lune", text)

	_, err = promptSearchText(strings.NewReader("   \n"), &out)
	var ce *internal.ConfigError
	assert.ErrorAs(t, err, &ce)
}

func TestPrintHeader(t *testing.T) {
	cfg := internal.SearchConfig{
		SearchText:  "lune",
		Roots:       []string{"/a", "/b"},
		RootSource:  "config+CLI (merged)",
		Extensions:  []string{"prproj"},
		ExcludeDirs: []string{"cache"},
		MaxFileSize: 100 * 1024 * 1024,
		Threads:     4,
	}
	var out bytes.Buffer
	printHeader(&out, &cfg)
	got := out.String()
	assert.Contains(t, got, "Searching for: 'lune'")
	assert.Contains(t, got, "Search paths (config+CLI (merged)): [/a /b]")
	assert.Contains(t, got, "Excluding directories: [cache]")
	assert.Contains(t, got, "Max file size: 100 MB")
	assert.Contains(t, got, "Threads: 4")
}

func TestPrintHeader_Assets(t *testing.T) {
	cfg := internal.SearchConfig{ListAssets: true, SearchText: "footage", Threads: 1}
	var out bytes.Buffer
	printHeader(&out, &cfg)
	assert.Contains(t, out.String(), "Listing assets used in Premiere project files")
	assert.Contains(t, out.String(), "Asset filter (case-insensitive): 'footage'")
	assert.NotContains(t, out.String(), "Max file size")
}

func TestPrintFailures(t *testing.T) {
	var out bytes.Buffer
	printFailures(&out, nil)
	assert.Zero(t, out.Len())

	printFailures(&out, []internal.FileFailure{{Path: "/p/a.prproj", Err: errors.New("permission denied")}})
	assert.Contains(t, out.String(), "Files that could not be searched (1):")
	assert.Contains(t, out.String(), "/p/a.prproj: permission denied")
}
