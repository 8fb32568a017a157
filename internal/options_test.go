package internal

import (
	"errors"
	"runtime"
	"strings"
	"testing"
)

func TestSearchConfig_Validate(t *testing.T) {
	c := SearchConfig{Roots: []string{"/x"}}
	c.Prepare()
	err := c.Validate()
	if err == nil {
		t.Fatal("expected error when search text is empty")
	}
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %T", err)
	}

	c.ListAssets = true
	if err := c.Validate(); err != nil {
		t.Fatalf("asset listing needs no search text: %v", err)
	}

	c = SearchConfig{SearchText: "  Clair De Lune ", Roots: []string{"/x"}}
	c.Prepare()
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if c.SearchText != "Clair De Lune" {
		t.Fatalf("search text must be trimmed, got %q", c.SearchText)
	}
}

func TestSearchConfig_ValidateReportsEveryProblem(t *testing.T) {
	c := SearchConfig{MaxFileSize: -1, MaxDepth: -2}
	c.Prepare()
	err := c.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"search text cannot be empty", "Roots", "MaxFileSize", "MaxDepth"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestSearchConfig_Prepare(t *testing.T) {
	c := SearchConfig{
		Extensions:  []string{".PRPROJ", "prproj", " xml, .Aep ", ""},
		ExcludeDirs: []string{" node_modules ", "cache,tmp", ""},
	}
	c.Prepare()

	if got := strings.Join(c.Extensions, ","); got != "prproj,xml,aep" {
		t.Fatalf("extensions: %q", got)
	}
	if got := strings.Join(c.ExcludeDirs, ","); got != "node_modules,cache,tmp" {
		t.Fatalf("exclude dirs: %q", got)
	}
	if c.Threads != runtime.GOMAXPROCS(0) {
		t.Fatalf("threads default: %d", c.Threads)
	}
	if c.SnippetChars != DefaultSnippetChars {
		t.Fatalf("snippet default: %d", c.SnippetChars)
	}

	c = SearchConfig{Threads: 3, Extensions: []string{" , "}}
	c.Prepare()
	if c.Threads != 3 {
		t.Fatalf("explicit threads must be kept, got %d", c.Threads)
	}
	if len(c.Extensions) != 1 || c.Extensions[0] != DefaultExtension {
		t.Fatalf("blank extensions fall back to the default, got %v", c.Extensions)
	}
}
