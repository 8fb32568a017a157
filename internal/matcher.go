package internal

import (
	"fmt"

	"PremiereHunter/internal/scanner"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// StreamMatcher searches one file for a literal token, ignoring ASCII case.
// It is stateless between files and safe for concurrent use.
type StreamMatcher struct {
	fs     afero.Fs
	needle []byte

	// ChunkSize is the read size; zero means DefaultChunkSize.
	ChunkSize int
	// SnippetChars > 0 attaches surrounding text to a hit.
	SnippetChars int
}

func NewStreamMatcher(fsys afero.Fs, token string) *StreamMatcher {
	return &StreamMatcher{fs: fsys, needle: foldToken(token)}
}

// Search opens path, transparently decompressing gzip, and streams it.
// Any open, decode or read failure makes the whole file Errored.
func (m *StreamMatcher) Search(path string) scanner.FileOutcome {
	f, err := m.fs.Open(path)
	if err != nil {
		return scanner.Failed(err)
	}
	defer f.Close()

	content, closeFn, err := openContent(f)
	if err != nil {
		return scanner.Failed(fmt.Errorf("decode: %w", err))
	}
	defer closeFn()

	found, snip, err := scanChunks(content, m.needle, m.ChunkSize, m.SnippetChars)
	if err != nil {
		logrus.WithFields(logrus.Fields{"file": path, "err": err}).Debug("Read failed")
		return scanner.Failed(err)
	}
	if found {
		return scanner.Hit(snip)
	}
	return scanner.Miss()
}
