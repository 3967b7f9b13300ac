package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/portraitgrid/pkg/cache"
	"github.com/matzehuels/portraitgrid/pkg/config"
	"github.com/matzehuels/portraitgrid/pkg/errors"
	"github.com/matzehuels/portraitgrid/pkg/history"
	"github.com/matzehuels/portraitgrid/pkg/layout"
)

func quietCLI() *CLI {
	return New(io.Discard, log.ErrorLevel)
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.CacheConfig
		noCache bool
		wantNil bool // NullCache
	}{
		{"disabled by flag", config.CacheConfig{Backend: config.BackendFile, Dir: dir}, true, true},
		{"backend none", config.CacheConfig{Backend: config.BackendNone}, false, true},
		{"file", config.CacheConfig{Backend: config.BackendFile, Dir: filepath.Join(dir, "images")}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newCache(ctx, tt.cfg, tt.noCache)
			if err != nil {
				t.Fatal(err)
			}
			defer c.Close()
			_, isNull := c.(*cache.NullCache)
			if isNull != tt.wantNil {
				t.Errorf("cache = %T", c)
			}
		})
	}
	if _, err := os.Stat(filepath.Join(dir, "images")); err != nil {
		t.Errorf("file cache dir not created: %v", err)
	}
}

func TestNewKeyer(t *testing.T) {
	opts := cache.AvatarKeyOpts{Path: "/photos/Class 1/Ada.jpg", Width: 509, Height: 636}
	plain := cache.NewDefaultKeyer().AvatarKey(opts)

	tests := []struct {
		name    string
		cfg     config.CacheConfig
		noCache bool
		want    string
	}{
		{"file", config.CacheConfig{Backend: config.BackendFile}, false, plain},
		{"none", config.CacheConfig{Backend: config.BackendNone}, false, plain},
		{"redis", config.CacheConfig{Backend: config.BackendRedis, Redis: "redis://localhost:6379/0"}, false, appName + ":" + plain},
		{"redis bypassed", config.CacheConfig{Backend: config.BackendRedis}, true, plain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newKeyer(tt.cfg, tt.noCache).AvatarKey(opts); got != tt.want {
				t.Errorf("AvatarKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewRunnerHistoryError(t *testing.T) {
	app := config.DefaultApp()
	app.Cache = config.CacheConfig{Backend: config.BackendFile, Dir: t.TempDir()}
	app.Fonts.Index = filepath.Join(t.TempDir(), "fonts.db")
	app.History = config.HistoryConfig{Backend: config.BackendMongo, MongoURI: "bogus://localhost", Database: "pg"}

	r, err := quietCLI().newRunner(context.Background(), app, false)
	if err == nil {
		r.Close()
		t.Fatal("expected an error for an unusable history store")
	}
	if !strings.Contains(err.Error(), "mongo") {
		t.Errorf("err = %v, want the history error", err)
	}
}

func TestNewHistory(t *testing.T) {
	ctx := context.Background()
	c := quietCLI()

	app := config.DefaultApp()
	app.History.Backend = config.BackendNone
	store, err := c.newHistory(ctx, app)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(history.NullStore); !ok {
		t.Errorf("store = %T, want NullStore", store)
	}

	app.History.Backend = config.BackendFile
	app.History.Path = filepath.Join(t.TempDir(), "runs.jsonl")
	store, err = c.newHistory(ctx, app)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	fs, ok := store.(*history.FileStore)
	if !ok {
		t.Fatalf("store = %T, want *FileStore", store)
	}
	if fs.Path() != app.History.Path {
		t.Errorf("path = %q", fs.Path())
	}
}

func TestNewResolverWithoutIndex(t *testing.T) {
	app := config.DefaultApp()
	app.Fonts.Index = filepath.Join(t.TempDir(), "missing.db")

	r, closeFn := quietCLI().newResolver(context.Background(), app)
	defer closeFn()
	if r.Index != nil {
		t.Error("resolver should not have an index")
	}
}

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"a", "ab/cd", "ab/ce", "ff/00"} {
		path := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := clearDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("removed %d, want 4", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d entries left", len(entries))
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("dir itself removed: %v", err)
	}

	if n, err := clearDir(filepath.Join(dir, "nope")); n != 0 || err != nil {
		t.Errorf("missing dir = %d, %v", n, err)
	}
}

func TestComposeSettingsOverrides(t *testing.T) {
	bg := filepath.Join(t.TempDir(), "bg.png")
	s := config.Default()
	s.Layout.SideMargin = 300
	if err := config.SaveSidecar(bg, s); err != nil {
		t.Fatal(err)
	}

	opts := &composeOpts{
		background: bg,
		ratio:      "1:1",
		align:      "center",
		avoid:      "bottom",
		avoidCount: 3,
		titleAlign: "left",
	}
	got, err := opts.settings()
	if err != nil {
		t.Fatal(err)
	}
	if got.Layout.SideMargin != 300 {
		t.Errorf("side margin = %d, want sidecar value 300", got.Layout.SideMargin)
	}
	if got.Layout.Ratio != layout.OneByOne || got.Layout.Alignment != layout.Centered {
		t.Errorf("ratio %v align %v", got.Layout.Ratio, got.Layout.Alignment)
	}
	if got.Layout.AvoidArea != layout.AvoidBottom || got.Layout.AvoidCount != 3 {
		t.Errorf("avoid %v count %d", got.Layout.AvoidArea, got.Layout.AvoidCount)
	}
	if got.Title.Align != config.TitleLeft {
		t.Errorf("title align = %v", got.Title.Align)
	}
}

func TestComposeSettingsErrors(t *testing.T) {
	bg := filepath.Join(t.TempDir(), "bg.png")

	tests := []struct {
		name string
		opts composeOpts
	}{
		{"ratio", composeOpts{ratio: "16:9"}},
		{"align", composeOpts{align: "justify"}},
		{"avoid", composeOpts{avoid: "top"}},
		{"avoid count", composeOpts{avoid: "middle", avoidCount: 9}},
		{"title align", composeOpts{titleAlign: "up"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.background = bg
			if _, err := tt.opts.settings(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHistoryRows(t *testing.T) {
	r := history.Record{
		ID:        "0123456789abcdef",
		Started:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local),
		Duration:  1500 * time.Millisecond,
		OutputDir: "/photos/layouts",
		Preview:   true,
		Categories: []history.CategoryRecord{
			{Name: "a"},
			{Name: "b", Error: "boom"},
		},
	}
	rows := historyRows([]history.Record{r})
	want := []string{"2024-03-01 12:00", "01234567", "2", "1", "1.5s", "/photos/layouts (preview)"}
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	for i, w := range want {
		if rows[0][i] != w {
			t.Errorf("col %d = %q, want %q", i, rows[0][i], w)
		}
	}
}

func TestWriteHistoryJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := writeHistoryJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("output = %q, want []", got)
	}
}

func TestWriteSidecar(t *testing.T) {
	bg := filepath.Join(t.TempDir(), "bg.jpg")

	var buf bytes.Buffer
	if err := writeSidecar(&buf, bg); err != nil {
		t.Fatal(err)
	}
	got, err := config.ParseSettings(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if got.Layout.TopMargin != config.Default().Layout.TopMargin {
		t.Errorf("top margin = %d", got.Layout.TopMargin)
	}

	if err := os.WriteFile(config.SidecarPath(bg), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	err = writeSidecar(&bytes.Buffer{}, bg)
	if !errors.Is(err, errors.ErrCodeConfigMalformed) {
		t.Errorf("err = %v, want CONFIG_MALFORMED", err)
	}
}

func TestRootCommandTree(t *testing.T) {
	root := quietCLI().RootCommand()
	for _, name := range []string{"compose", "preview", "plan", "fonts", "config", "cache", "history", "serve", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("missing command %q", name)
		}
	}
}

func TestConfigShow(t *testing.T) {
	c := quietCLI()
	c.ConfigPath = filepath.Join(t.TempDir(), "config.toml")

	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "show"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "[render]") {
		t.Errorf("output missing [render] table:\n%s", out.String())
	}
}
