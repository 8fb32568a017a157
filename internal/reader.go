package internal

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
)

const DefaultChunkSize = 64 * 1024

var gzipMagic = []byte{0x1f, 0x8b}

// openContent peeks at the stream and, for gzip (how Premiere stores
// .prproj files), returns a decompressing reader. closeFn must always be called.
func openContent(r io.Reader) (content io.Reader, closeFn func() error, err error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, err
	}
	if bytes.Equal(magic, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	}
	return br, func() error { return nil }, nil
}

// scanChunks reads r chunkSize bytes at a time and looks for needle, which
// must already be ASCII-folded. The last len(needle)-1 bytes of each window
// are carried into the next one so hits that straddle a read are found.
// Memory is bounded by len(needle)+chunkSize regardless of input size.
// It stops reading at the first hit.
func scanChunks(r io.Reader, needle []byte, chunkSize, snippetChars int) (bool, string, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	keep := max(len(needle)-1, 0)
	raw := make([]byte, keep+chunkSize)
	folded := make([]byte, keep+chunkSize)
	carry := 0

	for {
		n, err := r.Read(raw[carry : carry+chunkSize])
		if n > 0 {
			end := carry + n
			foldASCII(folded[carry:end], raw[carry:end])
			if i := bytes.Index(folded[:end], needle); i >= 0 {
				return true, snippet(raw[:end], i, len(needle), snippetChars), nil
			}
			if end > keep {
				copy(raw, raw[end-keep:end])
				copy(folded, folded[end-keep:end])
				carry = keep
			} else {
				carry = end
			}
		}
		if errors.Is(err, io.EOF) {
			return false, "", nil
		}
		if err != nil {
			return false, "", err
		}
	}
}

// foldASCII lower-cases A-Z and copies every other byte unchanged, so
// invalid UTF-8 never breaks the scan.
func foldASCII(dst, src []byte) {
	for i, c := range src {
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		dst[i] = c
	}
}

func foldToken(token string) []byte {
	b := []byte(token)
	foldASCII(b, b)
	return b
}

// snippet keeps up to total/2 characters on each side of the hit at
// [at, at+n), never cutting a UTF-8 sequence.
func snippet(window []byte, at, n, total int) string {
	if total <= 0 {
		return ""
	}
	half := total / 2
	start := at
	for i := 0; i < half && start > 0; i++ {
		_, size := utf8.DecodeLastRune(window[:start])
		start -= size
	}
	// the window may begin inside a character split by the carry
	for start < at && !utf8.RuneStart(window[start]) {
		start++
	}
	end := at + n
	for i := 0; i < half && end < len(window); i++ {
		_, size := utf8.DecodeRune(window[end:])
		end += size
	}

	s := strings.ToValidUTF8(string(window[start:end]), "�")
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return ' '
		}
		return r
	}, s)
	if start > 0 {
		s = "..." + s
	}
	if end < len(window) {
		s += "..."
	}
	return s
}
