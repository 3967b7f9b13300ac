package layout

import (
	"fmt"
	"strings"

	"github.com/matzehuels/portraitgrid/pkg/errors"
)

// Rows is the fixed number of rows on every canvas.
const Rows = 3

// Defaults matching the reference canvas conventions.
const (
	DefaultMinItemWidth  = 100
	DefaultCaptionMargin = 10
	DefaultMinRowSpacing = 50
	DefaultSpacingGuess  = 50

	// captionLines is the number of caption lines reserved under each photo.
	captionLines = 2
)

// AspectRatio is the photo width:height ratio.
type AspectRatio int

const (
	FourByFive AspectRatio = iota // portrait 4:5
	OneByOne                      // square
)

// String returns the ratio as written in settings files.
func (a AspectRatio) String() string {
	if a == OneByOne {
		return "1:1"
	}
	return "4:5"
}

// HeightFor returns the photo height for width w. Integer arithmetic
// truncates, so 4:5 heights round down.
func (a AspectRatio) HeightFor(w int) int {
	if a == OneByOne {
		return w
	}
	return w * 5 / 4
}

// WidthFor returns the photo width for height h.
func (a AspectRatio) WidthFor(h int) int {
	if a == OneByOne {
		return h
	}
	return h * 4 / 5
}

// Float returns width/height.
func (a AspectRatio) Float() float64 {
	if a == OneByOne {
		return 1
	}
	return 0.8
}

// MarshalText implements encoding.TextMarshaler.
func (a AspectRatio) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AspectRatio) UnmarshalText(b []byte) error {
	v, err := ParseAspectRatio(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAspectRatio parses "4:5" or "1:1".
func ParseAspectRatio(s string) (AspectRatio, error) {
	switch strings.TrimSpace(s) {
	case "4:5", "":
		return FourByFive, nil
	case "1:1":
		return OneByOne, nil
	}
	return FourByFive, errors.New(errors.ErrCodeInvalidInput, "invalid aspect ratio %q (must be 4:5 or 1:1)", s)
}

// Alignment selects how left-over photos are distributed and how rows are
// positioned horizontally.
type Alignment int

const (
	LeftPacked Alignment = iota
	Centered
)

// String returns the alignment as written in settings files.
func (a Alignment) String() string {
	if a == Centered {
		return "center"
	}
	return "left"
}

// MarshalText implements encoding.TextMarshaler.
func (a Alignment) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Alignment) UnmarshalText(b []byte) error {
	v, err := ParseAlignment(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAlignment parses an alignment name. The labels written by older
// settings files (左对齐布局, 居中布局) are accepted as well.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "left-packed", "left_packed", "左对齐布局", "左对齐", "":
		return LeftPacked, nil
	case "center", "centre", "centered", "居中布局", "居中":
		return Centered, nil
	}
	return LeftPacked, errors.New(errors.ErrCodeInvalidInput, "invalid alignment %q (must be left or center)", s)
}

// Constraints are the inputs of a single planning run. They are passed by
// value; the planner never mutates them.
type Constraints struct {
	TotalItems      int         `json:"total_items"`
	AvailableWidth  int         `json:"available_width"`
	AvailableHeight int         `json:"available_height"`
	AspectRatio     AspectRatio `json:"aspect_ratio"`
	Alignment       Alignment   `json:"alignment"`
	MinItemWidth    int         `json:"min_item_width"`
	MaxItemWidth    int         `json:"max_item_width"`
	CaptionHeight   int         `json:"caption_height"`
	CaptionMargin   int         `json:"caption_margin"`
	MinRowSpacing   int         `json:"min_row_spacing"`
	SpacingGuess    int         `json:"spacing_guess"`
}

// Validate checks the constraint ranges. An empty width range
// (MinItemWidth > MaxItemWidth) is valid input; Build reports it as
// LAYOUT_INFEASIBLE.
func (c Constraints) Validate() error {
	switch {
	case c.TotalItems < 0:
		return errors.New(errors.ErrCodeInvalidInput, "total items must be >= 0, got %d", c.TotalItems)
	case c.AvailableWidth <= 0 || c.AvailableHeight <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "available area must be positive, got %dx%d", c.AvailableWidth, c.AvailableHeight)
	case c.MinItemWidth <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "min item width must be positive, got %d", c.MinItemWidth)
	case c.CaptionHeight < 0 || c.CaptionMargin < 0 || c.MinRowSpacing < 0 || c.SpacingGuess < 0:
		return errors.New(errors.ErrCodeInvalidInput, "caption, spacing and guess values must be >= 0")
	}
	return nil
}

// Canvas describes the fixed output surface and its margins.
type Canvas struct {
	Width        int `json:"width"`
	Height       int `json:"height"`
	TopMargin    int `json:"top_margin"`
	BottomMargin int `json:"bottom_margin"`
	SideMargin   int `json:"side_margin"`
}

// Reference canvas size.
const (
	CanvasWidth  = 4800
	CanvasHeight = 3200
)

// AvailableWidth is the width between the side margins.
func (c Canvas) AvailableWidth() int { return c.Width - 2*c.SideMargin }

// AvailableHeight is the height between the top and bottom margins.
func (c Canvas) AvailableHeight() int { return c.Height - c.TopMargin - c.BottomMargin }

// String implements fmt.Stringer.
func (c Canvas) String() string {
	return fmt.Sprintf("%dx%d (margins top=%d bottom=%d side=%d)", c.Width, c.Height, c.TopMargin, c.BottomMargin, c.SideMargin)
}

// DefaultConstraints builds constraints for a canvas using the reference
// conventions: captions reserve two lines of captionFontSize, photos are at
// least 100px wide and at most half the available width or a quarter of the
// available height.
func DefaultConstraints(cv Canvas, ratio AspectRatio, align Alignment, captionFontSize, total int) Constraints {
	aw, ah := cv.AvailableWidth(), cv.AvailableHeight()
	return Constraints{
		TotalItems:      total,
		AvailableWidth:  aw,
		AvailableHeight: ah,
		AspectRatio:     ratio,
		Alignment:       align,
		MinItemWidth:    DefaultMinItemWidth,
		MaxItemWidth:    min(aw/2, ah/4),
		CaptionHeight:   captionFontSize * captionLines,
		CaptionMargin:   DefaultCaptionMargin,
		MinRowSpacing:   DefaultMinRowSpacing,
		SpacingGuess:    DefaultSpacingGuess,
	}
}
