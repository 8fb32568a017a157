package internal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PremiereHunter/internal/scanner"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

const statsInterval = 2 * time.Second

// FileScanner fans candidates out to a fixed worker pool and funnels every
// outcome through a single collector, which owns the aggregate and the
// reporter.
type FileScanner struct {
	threads  int
	reporter scanner.Reporter
}

func NewFileScanner(threads int, reporter scanner.Reporter) *FileScanner {
	if reporter == nil {
		reporter = scanner.Discard
	}
	return &FileScanner{threads: max(threads, 1), reporter: reporter}
}

type completion struct {
	path    string
	outcome scanner.FileOutcome
}

// Run searches every candidate exactly once and returns after the pool has
// drained. It does not stop on the first match. If ctx is cancelled no
// new candidates are dequeued, in-flight files finish, and ctx.Err() is
// returned together with the partial stats.
func (fs *FileScanner) Run(ctx context.Context, candidates []string, searcher scanner.Searcher) (*ScanStats, error) {
	stats := NewScanStats(len(candidates))
	stats.Start()
	total := int64(len(candidates))

	results := make(chan completion, fs.threads)
	var wg sync.WaitGroup

	pool, err := ants.NewPoolWithFunc(fs.threads, func(i interface{}) {
		defer wg.Done()
		path := i.(string)
		results <- completion{path: path, outcome: safeSearch(searcher, path)}
	})
	if err != nil {
		return stats, fmt.Errorf("pool: %w", err)
	}
	defer pool.Release()

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for c := range results {
			processed := stats.record(c.path, c.outcome)
			switch c.outcome.Status {
			case scanner.Matched:
				logrus.WithField("file", c.path).Debug("Match found")
				fs.reporter.Match(scanner.MatchEvent{Path: c.path, Snippet: c.outcome.Snippet, Assets: c.outcome.Assets})
			case scanner.Errored:
				logrus.WithFields(logrus.Fields{"file": c.path, "err": c.outcome.Err}).Debug("Process error")
			}
			fs.reporter.Progress(scanner.ProgressEvent{Processed: processed, Total: total, Elapsed: stats.Elapsed()})
		}
	}()

	tickerDone := make(chan struct{})
	go fs.logStats(stats, tickerDone)

	var runErr error
	for _, path := range candidates {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		wg.Add(1)
		// Invoke blocks until a worker is idle, so the pool pulls work as
		// it frees up and a slow file only ever holds one worker.
		if err := pool.Invoke(path); err != nil {
			wg.Done()
			logrus.WithError(err).Error("submit task")
			results <- completion{path: path, outcome: scanner.Failed(fmt.Errorf("submit: %w", err))}
		}
	}

	wg.Wait()
	close(results)
	<-collected
	close(tickerDone)

	summary := stats.Snapshot()
	summary.Interrupted = runErr != nil
	fs.reporter.Summary(summary)
	return stats, runErr
}

// safeSearch turns a panicking searcher into an errored outcome so the
// candidate is still counted.
func safeSearch(s scanner.Searcher, path string) (out scanner.FileOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = scanner.Failed(fmt.Errorf("panic while searching: %v", r))
		}
	}()
	return s.Search(path)
}

func (fs *FileScanner) logStats(stats *ScanStats, done <-chan struct{}) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s := stats.Snapshot()
			logrus.Debugf("Stats: total=%d processed=%d matches=%d errors=%d",
				s.Total, s.FilesProcessed, s.MatchesFound, s.FilesErrored)
		}
	}
}
