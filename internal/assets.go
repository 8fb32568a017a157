package internal

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"PremiereHunter/internal/scanner"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/ianaindex"
)

// Media referenced from a project. Anything else under a path-like tag
// (presets, caches, project links) is ignored.
var assetExt = map[string]struct{}{
	"mp4": {}, "mov": {}, "mxf": {}, "mts": {}, "m2ts": {}, "avi": {}, "mkv": {}, "wmv": {}, "m4v": {}, "3gp": {},
	"wav": {}, "mp3": {}, "aac": {}, "m4a": {}, "aif": {}, "aiff": {}, "flac": {}, "ogg": {},
	"png": {}, "jpg": {}, "jpeg": {}, "tif": {}, "tiff": {}, "bmp": {}, "gif": {}, "psd": {}, "ai": {}, "svg": {},
	"dng": {}, "cr2": {}, "nef": {}, "arw": {},
	"prfpset": {}, "mogrt": {},
}

var pathNames = map[string]struct{}{
	"absolutepath": {}, "filepath": {}, "path": {}, "relativepath": {}, "relpath": {},
}

// AssetLister is a Searcher that lists media files a project references.
// A file counts as matched when at least one asset survives the filter.
type AssetLister struct {
	fs     afero.Fs
	filter string
}

// NewAssetLister keeps only assets containing filter (case-insensitive);
// an empty filter keeps everything.
func NewAssetLister(fsys afero.Fs, filter string) *AssetLister {
	return &AssetLister{fs: fsys, filter: strings.ToLower(filter)}
}

func (l *AssetLister) Search(path string) scanner.FileOutcome {
	f, err := l.fs.Open(path)
	if err != nil {
		return scanner.Failed(err)
	}
	defer f.Close()

	content, closeFn, err := openContent(f)
	if err != nil {
		return scanner.Failed(fmt.Errorf("decode: %w", err))
	}
	defer closeFn()

	assets, err := extractAssets(content)
	if err != nil {
		return scanner.Failed(err)
	}
	if l.filter != "" {
		kept := assets[:0]
		for _, a := range assets {
			if strings.Contains(strings.ToLower(a), l.filter) {
				kept = append(kept, a)
			}
		}
		assets = kept
	}
	if len(assets) == 0 {
		return scanner.Miss()
	}
	return scanner.AssetHit(assets)
}

// extractAssets streams the project XML token by token. Malformed XML ends
// the walk and keeps what was collected; I/O errors are returned.
func extractAssets(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.CharsetReader = charsetReader

	seen := make(map[string]struct{})
	var assets []string
	add := func(raw string) {
		v := normalizeAssetPath(raw)
		if _, ok := assetExt[pathExt(v)]; !ok {
			return
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		assets = append(assets, v)
	}

	wantText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				break
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			wantText = isPathName(t.Name.Local)
			for _, a := range t.Attr {
				if isPathName(a.Name.Local) {
					add(a.Value)
				}
			}
		case xml.CharData:
			if wantText {
				add(string(t))
			}
		case xml.EndElement:
			wantText = false
		}
	}
	sort.Strings(assets)
	return assets, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

func isPathName(name string) bool {
	_, ok := pathNames[strings.ToLower(name)]
	return ok
}

// normalizeAssetPath strips a file:// URL prefix. "file:///C:/x" becomes
// "C:/x" while "file:///Users/x" keeps its leading slash.
func normalizeAssetPath(raw string) string {
	v := strings.TrimSpace(raw)
	if !strings.HasPrefix(strings.ToLower(v), "file://") {
		return v
	}
	v = v[len("file://"):]
	if len(v) >= 3 && v[0] == '/' && v[2] == ':' {
		v = v[1:]
	}
	return v
}

// pathExt works for both Windows and POSIX separators, whatever the host OS.
func pathExt(p string) string {
	dot := strings.LastIndexByte(p, '.')
	if dot < 0 || strings.ContainsAny(p[dot:], `/\`) {
		return ""
	}
	return strings.ToLower(p[dot+1:])
}
