package internal

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	content, closeFn, err := openContent(r)
	if err != nil {
		t.Fatalf("openContent: %v", err)
	}
	defer closeFn()
	b, err := io.ReadAll(content)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(b)
}

func TestOpenContent(t *testing.T) {
	if got := readAll(t, strings.NewReader("<?xml version=\"1.0\"?>")); got != "<?xml version=\"1.0\"?>" {
		t.Fatalf("plain passthrough: %q", got)
	}
	if got := readAll(t, bytes.NewReader(gzipped(t, "<Project/>"))); got != "<Project/>" {
		t.Fatalf("gzip: %q", got)
	}
	// a lone 0x1f is shorter than the magic and passes through
	if got := readAll(t, bytes.NewReader([]byte{0x1f})); got != "\x1f" {
		t.Fatalf("short: %q", got)
	}
	if got := readAll(t, strings.NewReader("")); got != "" {
		t.Fatalf("empty: %q", got)
	}
}

func TestFoldASCII(t *testing.T) {
	src := []byte("Clair DE lune \xc3\x89T\xff@[`{")
	dst := make([]byte, len(src))
	foldASCII(dst, src)
	if want := "clair de lune \xc3\x89t\xff@[`{"; string(dst) != want {
		t.Fatalf("got %q, want %q", dst, want)
	}
}

func TestSnippet(t *testing.T) {
	window := []byte("0123456789TOKEN0123456789")
	at := bytes.Index(window, []byte("TOKEN"))

	if got := snippet(window, at, 5, 0); got != "" {
		t.Fatalf("disabled snippet: %q", got)
	}
	if got := snippet(window, at, 5, 8); got != "...6789TOKEN0123..." {
		t.Fatalf("truncated: %q", got)
	}
	if got := snippet(window, at, 5, 100); got != string(window) {
		t.Fatalf("full: %q", got)
	}
	// invalid UTF-8 is replaced, never returned raw
	if got := snippet([]byte("a\xffb"), 1, 1, 10); got != "a�b" {
		t.Fatalf("invalid utf8: %q", got)
	}
}

func TestSnippet_MultiByteBoundaries(t *testing.T) {
	e := strings.Repeat("é", 20)
	window := []byte(e + "lune" + e)
	at := bytes.Index(window, []byte("lune"))

	if got := snippet(window, at, 4, 7); got != "...éééluneééé..." {
		t.Fatalf("got %q", got)
	}
	// a window starting inside a character drops the partial byte
	cut := window[1:]
	if got := snippet(cut, at-1, 4, 100); got != "..."+strings.Repeat("é", 19)+"lune"+e {
		t.Fatalf("got %q", got)
	}
}
