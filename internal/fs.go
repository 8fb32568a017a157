package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Enumerator eagerly collects candidate files under a set of roots.
// The full list is needed up front because its length drives progress.
type Enumerator struct {
	fs       afero.Fs
	filter   *FileFilter
	maxDepth int

	mu      sync.Mutex
	visited map[string]struct{} // canonical directories
	seen    map[string]struct{} // canonical files
}

func NewEnumerator(fsys afero.Fs, filter *FileFilter, maxDepth int) *Enumerator {
	return &Enumerator{
		fs:       fsys,
		filter:   filter,
		maxDepth: maxDepth,
		visited:  make(map[string]struct{}),
		seen:     make(map[string]struct{}),
	}
}

// Enumerate walks every root concurrently. Roots may overlap and, with
// symlink following on, may form cycles; each file is still returned once.
// On cancellation the candidates found so far are returned with ctx.Err().
func (e *Enumerator) Enumerate(ctx context.Context, roots []string) ([]string, error) {
	g, gctx := errgroup.WithContext(ctx)
	perRoot := make([][]string, len(roots))
	for i, root := range roots {
		g.Go(func() error {
			return e.walkRoot(gctx, filepath.Clean(root), &perRoot[i])
		})
	}
	err := g.Wait()

	var candidates []string
	for _, paths := range perRoot {
		candidates = append(candidates, paths...)
	}
	logrus.WithField("candidates", len(candidates)).Debug("Enumeration finished")
	return candidates, err
}

func (e *Enumerator) walkRoot(ctx context.Context, root string, out *[]string) error {
	info, err := e.fs.Stat(root)
	if err != nil {
		logrus.WithFields(logrus.Fields{"root": root, "err": err}).Warn("Skip root")
		return nil
	}
	if !info.IsDir() {
		// keyed like walk keys its files, so a file root inside a walked
		// directory root is not listed twice
		key := filepath.Join(e.canonical(filepath.Dir(root)), filepath.Base(root))
		if info.Mode().IsRegular() && e.filter.ShouldSearch(root, info.Size(), false) && e.claimFile(key) {
			*out = append(*out, root)
		}
		return nil
	}
	return e.walk(ctx, root, 0, out)
}

func (e *Enumerator) walk(ctx context.Context, dir string, depth int, out *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	canon, first := e.claimDir(dir)
	if !first {
		return nil
	}
	entries, err := afero.ReadDir(e.fs, dir)
	if err != nil {
		logrus.WithFields(logrus.Fields{"dir": dir, "err": err}).Debug("Skip unreadable directory")
		return nil
	}

	childDepth := depth + 1
	for _, info := range entries {
		name := info.Name()
		path := filepath.Join(dir, name)
		isLink := info.Mode()&os.ModeSymlink != 0
		if isLink {
			// unresolved links are neither descended nor searched
			if !e.filter.FollowLinks() {
				continue
			}
			target, err := e.fs.Stat(path)
			if err != nil {
				logrus.WithFields(logrus.Fields{"link": path, "err": err}).Debug("Skip dangling symlink")
				continue
			}
			info = target
		}

		if info.IsDir() {
			if !e.filter.ShouldDescend(name) {
				continue
			}
			if e.maxDepth > 0 && childDepth >= e.maxDepth {
				continue
			}
			if err := e.walk(ctx, path, childDepth, out); err != nil {
				return err
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if !e.filter.ShouldSearch(path, info.Size(), isLink) {
			continue
		}
		if e.claimFile(filepath.Join(canon, name)) {
			*out = append(*out, path)
		}
	}
	return nil
}

// claimDir returns the directory's canonical path and whether this call
// was the first to see it.
func (e *Enumerator) claimDir(dir string) (string, bool) {
	canon := e.canonical(dir)
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.visited[canon]; ok {
		return canon, false
	}
	e.visited[canon] = struct{}{}
	return canon, true
}

func (e *Enumerator) claimFile(path string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.seen[path]; ok {
		return false
	}
	e.seen[path] = struct{}{}
	return true
}

// canonical resolves symlinks on the real filesystem. Other afero
// backends have no links, so a cleaned path is already an identity.
func (e *Enumerator) canonical(path string) string {
	if _, ok := e.fs.(*afero.OsFs); ok {
		if real, err := filepath.EvalSymlinks(path); err == nil {
			path = real
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return filepath.Clean(path)
}

// ValidRoots drops roots that do not exist. An empty result is a ConfigError.
func ValidRoots(fsys afero.Fs, roots []string) ([]string, error) {
	var (
		valid   []string
		skipped *multierror.Error
	)
	for _, r := range roots {
		if _, err := fsys.Stat(r); err != nil {
			logrus.Warnf("Skip: path does not exist or is not accessible: %s", r)
			skipped = multierror.Append(skipped, fmt.Errorf("%s: %w", r, err))
			continue
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		err := errors.New("no valid search paths")
		if skipped != nil {
			err = fmt.Errorf("%w: %w", err, skipped)
		}
		return nil, &ConfigError{Err: err}
	}
	return valid, nil
}

// DetectRoots returns the common top-level volumes of the platform.
func DetectRoots(goos string) []string {
	if goos == "windows" {
		var drives []string
		for c := 'C'; c <= 'Z'; c++ {
			p := string(c) + ":\\"
			if st, err := os.Stat(p); err == nil && st.IsDir() {
				drives = append(drives, p)
			}
		}
		return drives
	}
	roots := []string{"/"}
	mounts := []string{"/mnt", "/media", "/run/media", "/Volumes"} // macOS at the end
	for _, m := range mounts {
		if st, err := os.Stat(m); err == nil && st.IsDir() {
			ents, _ := os.ReadDir(m)
			for _, e := range ents {
				roots = append(roots, filepath.Join(m, e.Name()))
			}
		}
	}
	return roots
}
