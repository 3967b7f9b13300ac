// Package pipeline runs the batch compositor for Portraitgrid.
//
// This package turns a photo root into one canvas per category and is shared
// by the CLI and the HTTP server. By centralizing discovery, settings, fonts
// and output handling here, every entry point renders identically.
//
// # Architecture
//
// A run has four stages:
//
//  1. Settings: load the sidecar next to the background (or use the given
//     settings) and write it back so the run is reproducible
//  2. Discovery: list category folders and their photos
//  3. Compose: plan, draw and save each category as a JPEG
//  4. Record: append the run to the history store
//
// Each category is its own error boundary: an infeasible layout or an
// unwritable output fails that category only and the batch continues.
//
// # Usage
//
//	runner := pipeline.NewRunner(source, resolver, store, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    PhotoRoot:  "/photos/2026",
//	    Background: "/photos/bg.jpg",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, c := range result.Categories {
//	    fmt.Println(c.Name, c.Output, c.Err)
//	}
//
// Render a single category to a preview file:
//
//	opts.Preview = true
//	opts.Categories = []string{"Class 3"}
//	result, err := runner.Execute(ctx, opts)
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/portraitgrid/pkg/config"
	"github.com/matzehuels/portraitgrid/pkg/errors"
	"github.com/matzehuels/portraitgrid/pkg/history"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultQuality is the JPEG quality of written canvases.
	DefaultQuality = 95

	// DefaultWorkers renders categories one at a time.
	DefaultWorkers = 1

	// OutputDirName is created next to the photo root when no output
	// directory is given.
	OutputDirName = "layouts"

	// OutputExt is the extension of written canvases.
	OutputExt = ".jpg"

	// PreviewName is the file written by preview runs.
	PreviewName = "preview" + OutputExt
)

// PhotoExts are the accepted photo extensions, compared case-insensitively.
var PhotoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options configures one run.
type Options struct {
	// PhotoRoot holds one sub-folder per category.
	PhotoRoot string `json:"photo_root"`

	// Background is the image every canvas is drawn on. Its sidecar
	// supplies the settings unless Settings is set.
	Background string `json:"background"`

	// OutputDir defaults to <parent of PhotoRoot>/layouts.
	OutputDir string `json:"output_dir,omitempty"`

	// Categories restricts the run to these folders. Empty renders all.
	Categories []string `json:"categories,omitempty"`

	// Settings overrides the sidecar.
	Settings *config.Settings `json:"settings,omitempty"`

	Workers int `json:"workers,omitempty"`
	Quality int `json:"quality,omitempty"`

	// Preview renders only the first selected category to PreviewPath.
	Preview     bool   `json:"preview,omitempty"`
	PreviewPath string `json:"preview_path,omitempty"`

	// KeepSidecar skips writing the settings next to the background.
	KeepSidecar bool `json:"keep_sidecar,omitempty"`

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.PhotoRoot == "" {
		return errors.New(errors.ErrCodeInvalidInput, "photo root is required")
	}
	if o.Background == "" {
		return errors.New(errors.ErrCodeInvalidInput, "background is required")
	}
	info, err := os.Stat(o.PhotoRoot)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "photo root %s", o.PhotoRoot)
	}
	if !info.IsDir() {
		return errors.New(errors.ErrCodeInvalidInput, "photo root %s is not a directory", o.PhotoRoot)
	}
	for _, c := range o.Categories {
		if err := errors.ValidateCategoryName(c); err != nil {
			return err
		}
	}

	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir(o.PhotoRoot)
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.Preview && o.PreviewPath == "" {
		o.PreviewPath = filepath.Join(o.OutputDir, PreviewName)
	}
	o.validated = true
	return nil
}

// DefaultOutputDir returns the layouts folder next to root.
func DefaultOutputDir(root string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(root)), OutputDirName)
}

// OutputPath returns where category is written.
func (o *Options) OutputPath(category string) string {
	if o.Preview {
		return o.PreviewPath
	}
	return filepath.Join(o.OutputDir, category+OutputExt)
}

// =============================================================================
// Results
// =============================================================================

// Result describes a run.
type Result struct {
	ID         string
	Started    time.Time
	Duration   time.Duration
	Settings   config.Settings
	Categories []CategoryResult
}

// CategoryResult is the outcome of one category. Err is set when the
// category produced no output.
type CategoryResult struct {
	Name      string
	Output    string
	Photos    int
	Placed    int
	Skipped   int
	Missing   []string
	Leftover  int
	ItemWidth int
	Fallback  bool
	Duration  time.Duration
	Err       error
}

// Failed returns the categories that produced no output.
func (r *Result) Failed() []CategoryResult {
	var out []CategoryResult
	for _, c := range r.Categories {
		if c.Err != nil {
			out = append(out, c)
		}
	}
	return out
}

// Record converts the result for the history store.
func (r *Result) Record(opts *Options) history.Record {
	rec := history.Record{
		ID:         r.ID,
		Started:    r.Started,
		Duration:   r.Duration,
		PhotoRoot:  opts.PhotoRoot,
		Background: opts.Background,
		OutputDir:  opts.OutputDir,
		Preview:    opts.Preview,
		Categories: make([]history.CategoryRecord, len(r.Categories)),
	}
	for i, c := range r.Categories {
		cr := history.CategoryRecord{
			Name:     c.Name,
			Output:   c.Output,
			Photos:   c.Photos,
			Placed:   c.Placed,
			Missing:  c.Missing,
			Leftover: c.Leftover,
			Fallback: c.Fallback,
		}
		if c.Err != nil {
			cr.Error = c.Err.Error()
		}
		rec.Categories[i] = cr
	}
	return rec
}

// String summarises a category for logs and reports.
func (c CategoryResult) String() string {
	if c.Err != nil {
		return fmt.Sprintf("%s: %v", c.Name, c.Err)
	}
	return fmt.Sprintf("%s: %d/%d photos -> %s", c.Name, c.Placed, c.Photos, c.Output)
}
