package scanner

import (
	"time"
)

// Status is the terminal state of one candidate file.
type Status int

const (
	NotMatched Status = iota
	Matched
	Errored
)

func (s Status) String() string {
	switch s {
	case Matched:
		return "matched"
	case Errored:
		return "errored"
	default:
		return "not-matched"
	}
}

// FileOutcome is the result of searching a single candidate.
type FileOutcome struct {
	Status  Status
	Err     error
	Snippet string
	Assets  []string
}

func Hit(snippet string) FileOutcome       { return FileOutcome{Status: Matched, Snippet: snippet} }
func Miss() FileOutcome                    { return FileOutcome{Status: NotMatched} }
func Failed(err error) FileOutcome         { return FileOutcome{Status: Errored, Err: err} }
func AssetHit(assets []string) FileOutcome { return FileOutcome{Status: Matched, Assets: assets} }

// ProgressEvent is emitted once per completed candidate, in completion order.
type ProgressEvent struct {
	Processed int64
	Total     int64
	Elapsed   time.Duration
}

// MatchEvent is emitted right before the ProgressEvent of a matched file.
type MatchEvent struct {
	Path    string
	Snippet string
	Assets  []string
}

// SummaryEvent is emitted once after the worker pool has drained.
type SummaryEvent struct {
	Total          int64
	FilesProcessed int64
	MatchesFound   int64
	NotMatched     int64
	FilesErrored   int64
	AssetsListed   int64
	Elapsed        time.Duration
	Interrupted    bool
}

// Searcher inspects one file. Implementations must be safe for concurrent use.
type Searcher interface {
	Search(path string) FileOutcome
}

// Reporter consumes scan events. Calls are serialized by the coordinator.
type Reporter interface {
	Match(MatchEvent)
	Progress(ProgressEvent)
	Summary(SummaryEvent)
}

// Discard is a Reporter that drops every event.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Match(MatchEvent)       {}
func (discard) Progress(ProgressEvent) {}
func (discard) Summary(SummaryEvent)   {}
