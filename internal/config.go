package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors the YAML settings file. Pointer fields distinguish
// "absent" from an explicit zero.
type FileConfig struct {
	SearchText    *string  `yaml:"search_text"`
	Paths         []string `yaml:"paths"`
	Threads       *int     `yaml:"threads"`
	AutoDrives    *bool    `yaml:"auto_drives"`
	Extensions    []string `yaml:"extensions"`
	FollowLinks   bool     `yaml:"follow_links"`
	MaxFileSizeMB *int64   `yaml:"max_file_size_mb"`
	ExcludeDirs   []string `yaml:"exclude_dirs"`
}

// LoadFileConfig reads the settings file. An empty path yields an empty
// config; a path that cannot be read or parsed is a ConfigError.
func LoadFileConfig(path string) (*FileConfig, error) {
	cfg := &FileConfig{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("failed to read config file: %w", err)}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("failed to parse config file: %w", err)}
	}
	return cfg, nil
}

// Overrides are command-line values. Nil pointers and empty slices mean
// "not given on the command line".
type Overrides struct {
	SearchText    string
	Paths         []string
	Threads       *int
	AutoDrives    bool
	Extensions    []string
	ExcludeDirs   []string
	FollowLinks   *bool
	MaxFileSizeMB *int64
	MaxDepth      int
	ListAssets    bool
	ShowSnippets  bool
	SnippetChars  int
}

// Merge overlays CLI overrides on the file config. Scalars: CLI beats file
// beats default. Roots are the union of file paths, CLI paths and, with
// auto drives, the detected volumes; with none at all the detected volumes
// are used as defaults.
func Merge(fc *FileConfig, o Overrides, detect func() []string) SearchConfig {
	if fc == nil {
		fc = &FileConfig{}
	}
	cfg := SearchConfig{
		SearchText:   o.SearchText,
		Extensions:   fc.Extensions,
		ExcludeDirs:  fc.ExcludeDirs,
		FollowLinks:  fc.FollowLinks,
		MaxFileSize:  DefaultMaxFileSize,
		MaxDepth:     o.MaxDepth,
		ListAssets:   o.ListAssets,
		ShowSnippets: o.ShowSnippets,
		SnippetChars: o.SnippetChars,
	}
	if cfg.SearchText == "" && fc.SearchText != nil {
		cfg.SearchText = *fc.SearchText
	}
	switch {
	case o.Threads != nil:
		cfg.Threads = *o.Threads
	case fc.Threads != nil:
		cfg.Threads = *fc.Threads
	}
	if len(o.Extensions) > 0 {
		cfg.Extensions = o.Extensions
	}
	if len(o.ExcludeDirs) > 0 {
		cfg.ExcludeDirs = append(append([]string(nil), cfg.ExcludeDirs...), o.ExcludeDirs...)
	}
	if o.FollowLinks != nil {
		cfg.FollowLinks = *o.FollowLinks
	}
	mb := fc.MaxFileSizeMB
	if o.MaxFileSizeMB != nil {
		mb = o.MaxFileSizeMB
	}
	if mb != nil {
		cfg.MaxFileSize = *mb * 1024 * 1024
	}

	var (
		roots   []string
		sources []string
	)
	if len(fc.Paths) > 0 {
		roots = append(roots, fc.Paths...)
		sources = append(sources, "config")
	}
	if len(o.Paths) > 0 {
		roots = append(roots, o.Paths...)
		sources = append(sources, "CLI")
	}
	autoDrives := o.AutoDrives || (fc.AutoDrives != nil && *fc.AutoDrives)
	if autoDrives {
		if drives := detect(); len(drives) > 0 {
			roots = append(roots, drives...)
			sources = append(sources, "auto")
		}
	}
	if len(roots) == 0 {
		roots = detect()
		sources = append(sources, "defaults")
	}
	cfg.Roots = dedupPaths(roots)
	cfg.RootSource = strings.Join(sources, "+")
	if len(sources) > 1 {
		cfg.RootSource += " (merged)"
	}
	return cfg
}

// dedupPaths keeps the first spelling of each path. Windows paths compare
// case-insensitively.
func dedupPaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key := filepath.Clean(p)
		if runtime.GOOS == "windows" {
			key = strings.ToLower(key)
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
