package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/portraitgrid/pkg/errors"
)

// PlaceholderColor fills the box of a photo that could not be read.
var PlaceholderColor = color.NRGBA{R: 200, G: 200, B: 200, A: 255}

// ParseColor parses #rgb or #rrggbb.
func ParseColor(hex string) (color.Color, error) {
	if err := errors.ValidateHexColor(hex); err != nil {
		return nil, err
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "parse color %q", hex)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// mustColor parses hex, falling back to black. Settings are validated on
// load, so the fallback only guards hand-built values.
func mustColor(hex string) color.Color {
	c, err := ParseColor(hex)
	if err != nil {
		return color.Black
	}
	return c
}
