package internal

import (
	"sync"
	"time"

	"PremiereHunter/internal/scanner"
)

// FileFailure keeps the reason a candidate could not be searched.
type FileFailure struct {
	Path string
	Err  error
}

// ScanStats is the scan-wide aggregate. Each candidate is recorded exactly
// once, so processed == matched + notMatched + errored holds at every read.
type ScanStats struct {
	start time.Time

	mu         sync.Mutex
	total      int64
	processed  int64
	matched    int64
	notMatched int64
	errored    int64
	assets     int64
	failures   []FileFailure
}

func NewScanStats(total int) *ScanStats {
	return &ScanStats{total: int64(total)}
}

func (s *ScanStats) Start() {
	s.start = time.Now()
}

func (s *ScanStats) Elapsed() time.Duration {
	return time.Since(s.start)
}

// record counts one outcome and returns the new processed count.
func (s *ScanStats) record(path string, out scanner.FileOutcome) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch out.Status {
	case scanner.Matched:
		s.matched++
		s.assets += int64(len(out.Assets))
	case scanner.Errored:
		s.errored++
		s.failures = append(s.failures, FileFailure{Path: path, Err: out.Err})
	default:
		s.notMatched++
	}
	s.processed++
	return s.processed
}

// Snapshot returns a consistent copy of the counters.
func (s *ScanStats) Snapshot() scanner.SummaryEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scanner.SummaryEvent{
		Total:          s.total,
		FilesProcessed: s.processed,
		MatchesFound:   s.matched,
		NotMatched:     s.notMatched,
		FilesErrored:   s.errored,
		AssetsListed:   s.assets,
		Elapsed:        s.Elapsed(),
	}
}

func (s *ScanStats) Failures() []FileFailure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]FileFailure(nil), s.failures...)
}
