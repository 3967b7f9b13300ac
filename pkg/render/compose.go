package render

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/portraitgrid/pkg/config"
	"github.com/matzehuels/portraitgrid/pkg/errors"
	"github.com/matzehuels/portraitgrid/pkg/layout"
)

// Photo is one portrait. Name is the caption, normally the file name
// without extension.
type Photo struct {
	Path string
	Name string
}

// NewPhoto returns the photo at path captioned with its base name.
func NewPhoto(path string) Photo {
	base := filepath.Base(path)
	return Photo{Path: path, Name: strings.TrimSuffix(base, filepath.Ext(base))}
}

// Faces are the font faces for one category. Faces are not safe for
// concurrent use, so each category gets its own.
type Faces struct {
	Caption font.Face
	Title   font.Face
}

// Result describes one composed canvas.
type Result struct {
	Image image.Image
	Plan  layout.Plan

	// Placed counts photos drawn, placeholders included.
	Placed int

	// Skipped counts slots left empty for avoidance zones.
	Skipped int

	// Missing lists photos drawn as placeholders.
	Missing []string

	// Leftover counts photos that found no slot after avoidance skips.
	Leftover int
}

// Composer draws categories onto a background.
type Composer struct {
	Settings config.Settings
	Source   *Source
	Logger   *log.Logger
}

// NewComposer creates a Composer. A nil source loads photos uncached.
func NewComposer(s config.Settings, src *Source, logger *log.Logger) *Composer {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	if src == nil {
		src = NewSource(nil, nil, logger)
	}
	return &Composer{Settings: s, Source: src, Logger: logger}
}

// Compose plans the grid for photos, draws every photo with its caption and
// the category title onto a copy of bg, and returns the canvas.
//
// Photos that cannot be read are drawn as grey placeholders with their
// caption; only an infeasible layout or a cancelled context fail the
// category.
func (c *Composer) Compose(ctx context.Context, bg image.Image, category string, photos []Photo, faces Faces) (*Result, error) {
	s := c.Settings
	plan, err := layout.Build(s.Constraints(len(photos)))
	if err != nil {
		return nil, err
	}
	if plan.Fallback {
		c.Logger.Warn("captions shrunk to fit rows", "category", category, "caption", plan.CaptionHeight)
	}

	dc := gg.NewContextForImage(FitCanvas(bg))
	cv := s.Canvas()
	res := &Result{Plan: plan}

	opts := AvatarOptions{
		Width:        plan.ItemWidth,
		Height:       plan.ItemHeight,
		CornerRadius: float64(s.Avatar.CornerRadius),
	}
	if s.Avatar.BorderEnabled {
		opts.BorderWidth = int(s.Avatar.BorderWidth)
		opts.BorderColor = mustColor(s.Avatar.BorderColor)
	}
	nameColor := mustColor(s.Avatar.NameColor)

	next := 0
	for slot := range layout.Placements(plan, cv.TopMargin, cv.SideMargin, s.Zones()...) {
		if next >= len(photos) {
			break
		}
		if slot.Skipped {
			res.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		photo := photos[next]
		next++

		tile, err := c.Source.Avatar(ctx, photo.Path, opts)
		if err != nil {
			if !errors.Is(err, errors.ErrCodeAssetMissing) {
				return nil, err
			}
			c.Logger.Warn("photo unreadable, drawing placeholder", "category", category, "photo", photo.Path, "error", err)
			res.Missing = append(res.Missing, photo.Path)
			tile = Placeholder(plan.ItemWidth, plan.ItemHeight)
		}
		dc.DrawImage(tile, slot.X, slot.Y)
		drawLines(dc, faces.Caption, nameColor, CaptionLines(photo.Name, faces.Caption, int(s.Avatar.NameSize), plan, slot.X, slot.Y))
		res.Placed++
	}

	res.Leftover = len(photos) - next
	if res.Leftover > 0 {
		c.Logger.Warn("avoidance zone left photos without a slot", "category", category, "leftover", res.Leftover)
	}

	drawLines(dc, faces.Title, mustColor(s.Title.Color), TitleLines(category, faces.Title, s))
	res.Image = dc.Image()
	return res, nil
}

// Save writes img as a JPEG of the given quality.
func Save(img image.Image, path string, quality int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return imaging.Save(img, path, imaging.JPEGQuality(quality))
}
