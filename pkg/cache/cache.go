// Package cache stores processed photos between runs.
//
// Cropping, resizing and masking a full-resolution portrait dominates the
// cost of composing a canvas, and the same photo is usually composed many
// times while margins and fonts are tuned. The processed photo depends only
// on the source file and the processing options, so it is cached under a key
// derived from both.
//
// Three backends implement [Cache]:
//   - [FileCache]: one file per entry under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for several machines composing
//     from the same network share
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys come from a [Keyer]; [NewScopedKeyer] prefixes them so several
// projects can share one Redis database.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// AvatarKey identifies a processed photo.
	AvatarKey(opts AvatarKeyOpts) string

	// BackgroundKey identifies a background scaled to the canvas.
	BackgroundKey(opts BackgroundKeyOpts) string
}

// AvatarKeyOpts are the inputs that determine a processed photo.
type AvatarKeyOpts struct {
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	ModTime      time.Time `json:"mod_time"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	CornerRadius float64   `json:"corner_radius"`
	BorderWidth  int       `json:"border_width"`
	BorderColor  string    `json:"border_color"`
}

// BackgroundKeyOpts are the inputs that determine a scaled background.
type BackgroundKeyOpts struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`
}

// DefaultKeyer hashes the options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// AvatarKey implements Keyer.
func (DefaultKeyer) AvatarKey(opts AvatarKeyOpts) string {
	return hashKey("avatar", opts)
}

// BackgroundKey implements Keyer.
func (DefaultKeyer) BackgroundKey(opts BackgroundKeyOpts) string {
	return hashKey("background", opts)
}
