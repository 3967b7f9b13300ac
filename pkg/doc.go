// Package pkg provides the core libraries for portraitgrid photo layouts.
//
// # Overview
//
// Portraitgrid composes one canvas per category folder: every portrait in
// the folder is resized, optionally bordered and rounded, placed in one of
// three rows on a background image and captioned with the person's name.
// The folder name is drawn as a title near the bottom edge.
//
// # Architecture
//
//	category folder + background + settings
//	         ↓
//	    [layout] package (row counts, photo size, slot positions)
//	         ↓
//	    [render] package (photos, captions, title onto the canvas)
//	         ↓
//	    JPEG per category
//
// [pipeline] drives this for every category of a photo root, records each
// run in [history], and is what the CLI's compose and preview commands call.
//
// # Packages
//
// [layout] - The planner. [layout.Build] turns a photo count and canvas
// geometry into a [layout.Plan]; [layout.Placements] walks its slots and
// skips those that overlap avoidance zones. Pure and deterministic.
//
// [textwrap] - Greedy line wrapping for captions and titles, splitting on
// spaces and falling back to per-character breaks for CJK text.
//
// [fonts] - Font discovery: a scan of system and configured folders into a
// sqlite index, name resolution with an embedded fallback face, and a face
// loader.
//
// [render] - Image work: avatars, placeholders, text, and the composer that
// assembles a category canvas. Processed images are cached through [cache].
//
// [cache] - Byte caches (file, Redis, null) keyed by content hash and
// processing parameters.
//
// [config] - Per-background layout settings (JSON next to the image) and the
// TOML application configuration.
//
// [history] - Run records in a JSON Lines file or MongoDB.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for pipeline, cache and server events.
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/portraitgrid/pkg/layout
// [layout.Build]: https://pkg.go.dev/github.com/matzehuels/portraitgrid/pkg/layout#Build
// [layout.Plan]: https://pkg.go.dev/github.com/matzehuels/portraitgrid/pkg/layout#Plan
// [layout.Placements]: https://pkg.go.dev/github.com/matzehuels/portraitgrid/pkg/layout#Placements
// [textwrap]: https://pkg.go.dev/github.com/matzehuels/portraitgrid/pkg/textwrap
// [fonts]: https://pkg.go.dev/github.com/matzehuels/portraitgrid/pkg/fonts
// [render]: https://pkg.go.dev/github.com/matzehuels/portraitgrid/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/portraitgrid/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/portraitgrid/pkg/config
// [history]: https://pkg.go.dev/github.com/matzehuels/portraitgrid/pkg/history
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/portraitgrid/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/matzehuels/portraitgrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/portraitgrid/pkg/observability
package pkg
