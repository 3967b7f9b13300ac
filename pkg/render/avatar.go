package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/portraitgrid/pkg/errors"
)

// AvatarOptions describe how a photo is turned into a grid tile.
type AvatarOptions struct {
	Width  int
	Height int

	// CornerRadius is a fraction of the shorter side.
	CornerRadius float64

	// BorderWidth draws a frame of BorderColor inside the tile when > 0.
	BorderWidth int
	BorderColor color.Color
}

// OpenImage decodes the image at path, applying its EXIF orientation.
// Failures carry the ASSET_MISSING code.
func OpenImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetMissing, err, "open %s", path)
	}
	return img, nil
}

// ProcessAvatar crops src to the tile aspect ratio around its centre,
// scales it to the tile size and applies corners and border.
func ProcessAvatar(src image.Image, opts AvatarOptions) image.Image {
	w, h := opts.Width, opts.Height
	img := imaging.Resize(cropToRatio(src, float64(w)/float64(h)), w, h, imaging.Lanczos)

	radius := opts.CornerRadius * float64(min(w, h))
	if radius <= 0 && opts.BorderWidth <= 0 {
		return img
	}

	dc := gg.NewContext(w, h)
	if opts.BorderWidth <= 0 {
		dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), radius)
		dc.Clip()
		dc.DrawImage(img, 0, 0)
		return dc.Image()
	}

	b := opts.BorderWidth
	dc.SetColor(opts.BorderColor)
	dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), radius)
	dc.Fill()

	iw, ih := max(1, w-2*b), max(1, h-2*b)
	inner := imaging.Resize(img, iw, ih, imaging.Lanczos)
	dc.DrawRoundedRectangle(float64(b), float64(b), float64(iw), float64(ih), max(0, radius-float64(b)))
	dc.Clip()
	dc.DrawImage(inner, b, b)
	dc.ResetClip()
	return dc.Image()
}

// cropToRatio trims the longer dimension of src so width/height equals ratio.
func cropToRatio(src image.Image, ratio float64) image.Image {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw == 0 || sh == 0 {
		return src
	}
	if float64(sw)/float64(sh) > ratio {
		return imaging.CropCenter(src, int(float64(sh)*ratio), sh)
	}
	return imaging.CropCenter(src, sw, int(float64(sw)/ratio))
}

// Placeholder returns a grey tile drawn in place of an unreadable photo.
func Placeholder(w, h int) image.Image {
	return imaging.New(w, h, PlaceholderColor)
}
