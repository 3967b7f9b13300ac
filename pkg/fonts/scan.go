package fonts

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font/sfnt"
)

// Entry is one indexed font name.
type Entry struct {
	FontRef
	Modified time.Time `json:"modified"`
}

// ScanOptions controls which files [Scan] reads.
type ScanOptions struct {
	// Dirs are searched recursively in addition to the system font
	// directories.
	Dirs []string

	// SkipSystem disables the system font directories.
	SkipSystem bool

	// OnError is called for files that cannot be parsed. Scanning continues.
	OnError func(path string, err error)
}

// Scan reads the name table of every font file found and returns one entry
// per distinct name. A face is listed under its family, full and PostScript
// names. When two files claim a name, the first in path order wins.
func Scan(ctx context.Context, opts ScanOptions) ([]Entry, error) {
	var paths []string
	if !opts.SkipSystem {
		for _, p := range findfont.List() {
			if isFontFile(p) {
				paths = append(paths, p)
			}
		}
	}
	for _, dir := range opts.Dirs {
		found, err := walkFonts(dir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}

	seen := make(map[string]bool)
	var entries []Entry
	var buf sfnt.Buffer
	for _, path := range dedupe(paths) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := readNames(path, &buf)
		if err != nil {
			if opts.OnError != nil {
				opts.OnError(path, err)
			}
			continue
		}
		for _, e := range found {
			key := strings.ToLower(e.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// walkFonts returns the font files below dir in lexical order.
func walkFonts(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isFontFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := paths[:0:0]
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// readNames parses path as a font or collection and returns an entry for
// each name of each face.
func readNames(path string, buf *sfnt.Buffer) ([]Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for i := range coll.NumFonts() {
		f, err := coll.Font(i)
		if err != nil {
			return nil, err
		}
		for _, id := range []sfnt.NameID{sfnt.NameIDFamily, sfnt.NameIDFull, sfnt.NameIDPostScript} {
			name, err := f.Name(buf, id)
			if err != nil || strings.TrimSpace(name) == "" {
				continue
			}
			entries = append(entries, Entry{
				FontRef:  FontRef{Name: strings.TrimSpace(name), Path: path, Index: i},
				Modified: info.ModTime(),
			})
		}
	}
	return entries, nil
}
