package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/portraitgrid/pkg/cache"
	"github.com/matzehuels/portraitgrid/pkg/errors"
	"github.com/matzehuels/portraitgrid/pkg/layout"
	"github.com/matzehuels/portraitgrid/pkg/observability"
)

// DefaultCacheTTL is how long processed images stay cached.
const DefaultCacheTTL = 30 * 24 * time.Hour

// Source loads backgrounds and processed photos, consulting a cache keyed
// by file identity and processing options.
type Source struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// NewSource creates a Source. A nil cache disables caching and a nil keyer
// uses the default.
func NewSource(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Source {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Source{Cache: c, Keyer: keyer, TTL: DefaultCacheTTL, Logger: logger}
}

// Avatar returns the processed tile for the photo at path.
func (s *Source) Avatar(ctx context.Context, path string, opts AvatarOptions) (image.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetMissing, err, "stat %s", path)
	}
	key := s.Keyer.AvatarKey(cache.AvatarKeyOpts{
		Path:         path,
		Size:         info.Size(),
		ModTime:      info.ModTime(),
		Width:        opts.Width,
		Height:       opts.Height,
		CornerRadius: opts.CornerRadius,
		BorderWidth:  opts.BorderWidth,
		BorderColor:  colorKey(opts),
	})
	return s.cached(ctx, "avatar", key, func() (image.Image, error) {
		src, err := OpenImage(path)
		if err != nil {
			return nil, err
		}
		return ProcessAvatar(src, opts), nil
	})
}

// Background returns the image at path scaled to the canvas size.
func (s *Source) Background(ctx context.Context, path string) (image.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "background %s", path)
	}
	key := s.Keyer.BackgroundKey(cache.BackgroundKeyOpts{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Width:   layout.CanvasWidth,
		Height:  layout.CanvasHeight,
	})
	return s.cached(ctx, "background", key, func() (image.Image, error) {
		img, err := OpenImage(path)
		if err != nil {
			return nil, err
		}
		return FitCanvas(img), nil
	})
}

// FitCanvas stretches img to the canvas size unless it already matches.
func FitCanvas(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() == layout.CanvasWidth && b.Dy() == layout.CanvasHeight {
		return img
	}
	return imaging.Resize(img, layout.CanvasWidth, layout.CanvasHeight, imaging.Lanczos)
}

// cached returns the PNG-encoded image stored under key, or produces,
// stores and returns it. Cache failures are logged and otherwise ignored.
func (s *Source) cached(ctx context.Context, keyType, key string, produce func() (image.Image, error)) (image.Image, error) {
	data, hit, err := s.Cache.Get(ctx, key)
	if err != nil {
		s.Logger.Debug("cache get failed", "type", keyType, "error", err)
	}
	if hit {
		img, err := imaging.Decode(bytes.NewReader(data))
		if err == nil {
			observability.Cache().OnCacheHit(ctx, keyType)
			return img, nil
		}
		s.Logger.Debug("discarding undecodable cache entry", "type", keyType, "error", err)
	}
	observability.Cache().OnCacheMiss(ctx, keyType)

	img, err := produce()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		s.Logger.Debug("cache encode failed", "type", keyType, "error", err)
		return img, nil
	}
	if err := s.Cache.Set(ctx, key, buf.Bytes(), s.TTL); err != nil {
		s.Logger.Debug("cache set failed", "type", keyType, "error", err)
		return img, nil
	}
	observability.Cache().OnCacheSet(ctx, keyType, buf.Len())
	return img, nil
}

func colorKey(opts AvatarOptions) string {
	if opts.BorderWidth <= 0 || opts.BorderColor == nil {
		return ""
	}
	r, g, b, a := opts.BorderColor.RGBA()
	return fmt.Sprintf("%04x%04x%04x%04x", r, g, b, a)
}
