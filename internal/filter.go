package internal

import (
	"path/filepath"
	"strings"
)

// FileFilter decides what the enumerator descends into and what it queues.
// It does no I/O of its own.
type FileFilter struct {
	extensions  map[string]struct{}
	excludeDirs map[string]struct{}
	followLinks bool
	maxSize     int64
}

func NewFileFilter(cfg *SearchConfig) *FileFilter {
	return &FileFilter{
		extensions:  toSet(cfg.Extensions),
		excludeDirs: toSet(cfg.ExcludeDirs),
		followLinks: cfg.FollowLinks,
		maxSize:     cfg.MaxFileSize,
	}
}

// ShouldDescend reports whether a directory with this base name is traversed.
func (f *FileFilter) ShouldDescend(name string) bool {
	_, excluded := f.excludeDirs[strings.ToLower(name)]
	return !excluded
}

// ShouldSearch reports whether a file is a candidate for content search.
func (f *FileFilter) ShouldSearch(path string, size int64, isSymlink bool) bool {
	if isSymlink && !f.followLinks {
		return false
	}
	if f.maxSize > 0 && size > f.maxSize {
		return false
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return false
	}
	_, ok := f.extensions[ext]
	return ok
}

func (f *FileFilter) FollowLinks() bool { return f.followLinks }
