package fonts

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/portraitgrid/pkg/errors"
)

func writeFonts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Go-Regular.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "bold"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bold", "Go-Bold.ttf"), gobold.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.ttf"), []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestOrder(t *testing.T) {
	got := Order([]string{"Zapfino", "SimHei", "arial", "Microsoft YaHei", "Courier"})
	want := []string{"Microsoft YaHei", "SimHei", "arial", "Courier", "Zapfino"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Order = %v, want %v", got, want)
	}
}

func TestScan(t *testing.T) {
	dir := writeFonts(t)

	var failed []string
	entries, err := Scan(context.Background(), ScanOptions{
		Dirs:       []string{dir},
		SkipSystem: true,
		OnError:    func(path string, err error) { failed = append(failed, filepath.Base(path)) },
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !reflect.DeepEqual(failed, []string{"broken.ttf"}) {
		t.Errorf("failed = %v, want [broken.ttf]", failed)
	}

	names := map[string]string{}
	for _, e := range entries {
		names[e.Name] = filepath.Base(e.Path)
	}
	// Both files share the "Go" family; the first in path order keeps it.
	if names["Go"] != "Go-Regular.ttf" && names["Go"] != "Go-Bold.ttf" {
		t.Errorf("family Go = %q", names["Go"])
	}
	if names["Go Bold"] != "Go-Bold.ttf" {
		t.Errorf("Go Bold = %q, want Go-Bold.ttf", names["Go Bold"])
	}
	if names["Go Regular"] != "Go-Regular.ttf" {
		t.Errorf("Go Regular = %q, want Go-Regular.ttf", names["Go Regular"])
	}
}

func TestScanCancelled(t *testing.T) {
	dir := writeFonts(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Scan(ctx, ScanOptions{Dirs: []string{dir}, SkipSystem: true}); err == nil {
		t.Error("expected context error")
	}
}

func TestIndexRoundTrip(t *testing.T) {
	ctx := context.Background()
	idx, err := OpenIndex(ctx, filepath.Join(t.TempDir(), "fonts.db"))
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	defer idx.Close()

	mod := time.Unix(1700000000, 0)
	entries := []Entry{
		{FontRef: FontRef{Name: "Noto Sans", Path: "/fonts/noto.ttf"}, Modified: mod},
		{FontRef: FontRef{Name: "SimSun", Path: "/fonts/simsun.ttc", Index: 1}, Modified: mod},
		{FontRef: FontRef{Name: "simsun", Path: "/fonts/other.ttc"}, Modified: mod},
	}
	if err := idx.Replace(ctx, entries); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	ref, err := idx.Lookup(ctx, "SIMSUN")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ref.Path != "/fonts/simsun.ttc" || ref.Index != 1 {
		t.Errorf("Lookup = %+v", ref)
	}

	if _, err := idx.Lookup(ctx, "Comic Sans"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing lookup err = %v, want NOT_FOUND", err)
	}

	n, err := idx.Count(ctx)
	if err != nil || n != 2 {
		t.Errorf("Count = %d, %v; want 2", n, err)
	}

	names, err := idx.Names(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"SimSun", "Noto Sans"}) {
		t.Errorf("Names = %v", names)
	}

	list, err := idx.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || !list[0].Modified.Equal(mod) {
		t.Errorf("List = %+v", list)
	}

	// Replace drops previous entries.
	if err := idx.Replace(ctx, entries[:1]); err != nil {
		t.Fatal(err)
	}
	if n, _ := idx.Count(ctx); n != 1 {
		t.Errorf("Count after replace = %d, want 1", n)
	}
}

type mapLookup map[string]FontRef

func (m mapLookup) Lookup(_ context.Context, name string) (FontRef, error) {
	if ref, ok := m[name]; ok {
		return ref, nil
	}
	return FontRef{}, errors.New(errors.ErrCodeNotFound, "font %q not indexed", name)
}

func TestResolver(t *testing.T) {
	dir := writeFonts(t)
	regular := filepath.Join(dir, "Go-Regular.ttf")
	idx := mapLookup{
		"Body":  {Name: "Body", Path: regular},
		"Title": {Name: "Title", Path: filepath.Join(dir, "bold", "Go-Bold.ttf")},
	}
	ctx := context.Background()

	t.Run("indexed", func(t *testing.T) {
		r := &Resolver{Index: idx}
		ref, err := r.Resolve(ctx, "Title")
		if err != nil || filepath.Base(ref.Path) != "Go-Bold.ttf" {
			t.Errorf("Resolve = %+v, %v", ref, err)
		}
	})

	t.Run("path", func(t *testing.T) {
		r := &Resolver{}
		ref, err := r.Resolve(ctx, regular)
		if err != nil || ref.Path != regular {
			t.Errorf("Resolve = %+v, %v", ref, err)
		}
	})

	t.Run("default", func(t *testing.T) {
		r := &Resolver{Index: idx, Default: "Body"}
		ref, err := r.Resolve(ctx, "No Such Font 12345")
		if !errors.Is(err, errors.ErrCodeFontUnresolved) {
			t.Fatalf("err = %v, want FONT_UNRESOLVED", err)
		}
		if ref.Path != regular {
			t.Errorf("fallback = %+v, want Body", ref)
		}
	})

	t.Run("embedded", func(t *testing.T) {
		r := &Resolver{Index: idx, Default: "Also Missing 12345"}
		ref, err := r.Resolve(ctx, "No Such Font 12345")
		if !errors.Is(err, errors.ErrCodeFontUnresolved) {
			t.Fatalf("err = %v, want FONT_UNRESOLVED", err)
		}
		if !ref.IsEmbedded() {
			t.Errorf("fallback = %+v, want embedded", ref)
		}
	})
}

func TestLoader(t *testing.T) {
	dir := writeFonts(t)
	l := NewLoader()

	face, err := l.Face(Embedded(), 40)
	if err != nil {
		t.Fatalf("embedded face: %v", err)
	}
	if h := face.Metrics().Height.Ceil(); h < 40 {
		t.Errorf("line height %d, want >= 40", h)
	}

	ref := FontRef{Name: "Go Regular", Path: filepath.Join(dir, "Go-Regular.ttf")}
	a, err := l.Font(ref)
	if err != nil {
		t.Fatal(err)
	}
	b, err := l.Font(FontRef{Name: "renamed", Path: ref.Path})
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("loader parsed the same file twice")
	}

	if _, err := l.Font(FontRef{Path: filepath.Join(dir, "broken.ttf")}); err == nil {
		t.Error("expected parse error")
	}
	if _, err := l.Font(FontRef{Path: ref.Path, Index: 3}); err == nil {
		t.Error("expected index error")
	}
}
