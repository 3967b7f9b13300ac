// Package config holds the two kinds of settings portraitgrid reads.
//
// Per-background [Settings] live in a JSON sidecar next to the background
// image (background.jpg → background.layout) with three groups: layout,
// avatar and title. Sidecars written by older versions stored every number
// as a string and used Chinese labels for enumerations; both are accepted on
// load, and English values are written back.
//
// The application config ([App]) is a TOML file that selects font
// directories, cache and history backends, render concurrency and the HTTP
// listen address.
//
// A missing file in either case yields the defaults. A malformed file yields
// the defaults together with a CONFIG_MALFORMED error so callers can warn and
// continue.
package config
