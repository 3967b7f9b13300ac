package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/portraitgrid/pkg/errors"
	"github.com/matzehuels/portraitgrid/pkg/layout"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultTopMargin    = 270
	DefaultBottomMargin = 650
	DefaultSideMargin   = 130
	DefaultAvoidCount   = 2

	DefaultNameFont  = "Microsoft YaHei"
	DefaultNameSize  = 40
	DefaultColor     = "#000000"
	DefaultBorder    = 2
	DefaultTitleSize = 120

	DefaultTitleBottomMargin = 200

	// SidecarExt replaces the background image extension.
	SidecarExt = ".layout"

	// MaxAvoidCount is the widest avoidance zone in photo slots.
	MaxAvoidCount = 4
)

// =============================================================================
// Settings - Per-Background Sidecar
// =============================================================================

// Settings configures how categories are composed on one background.
type Settings struct {
	Layout LayoutSettings `json:"layout"`
	Avatar AvatarSettings `json:"avatar"`
	Title  TitleSettings  `json:"title"`
}

// LayoutSettings controls the grid.
type LayoutSettings struct {
	Ratio        layout.AspectRatio `json:"ratio"`
	Alignment    layout.Alignment   `json:"layout_type"`
	AvoidArea    layout.AvoidArea   `json:"avoid_area"`
	AvoidCount   Int                `json:"avoid_count"`
	TopMargin    Int                `json:"top_margin"`
	BottomMargin Int                `json:"bottom_margin"`
	SideMargin   Int                `json:"side_margin"`
}

// AvatarSettings controls photos and their captions.
type AvatarSettings struct {
	NameFont      string `json:"name_font"`
	NameSize      Int    `json:"name_size"`
	NameColor     string `json:"name_color"`
	BorderEnabled Bool   `json:"border_enabled"`
	BorderColor   string `json:"border_color"`
	BorderWidth   Int    `json:"border_width"`

	// CornerRadius is a fraction of the shorter photo side; 0 keeps square
	// corners.
	CornerRadius Float `json:"corner_radius"`
}

// TitleSettings controls the category title.
type TitleSettings struct {
	Font         string     `json:"font"`
	Size         Int        `json:"size"`
	Color        string     `json:"color"`
	Align        TitleAlign `json:"align"`
	BottomMargin Int        `json:"bottom_margin"`

	// SideMargin insets left and right aligned titles. Zero uses the
	// layout side margin.
	SideMargin Int `json:"side_margin"`
}

// Default returns the settings used when no sidecar exists.
func Default() Settings {
	return Settings{
		Layout: LayoutSettings{
			Ratio:        layout.FourByFive,
			Alignment:    layout.LeftPacked,
			AvoidArea:    layout.AvoidNone,
			AvoidCount:   DefaultAvoidCount,
			TopMargin:    DefaultTopMargin,
			BottomMargin: DefaultBottomMargin,
			SideMargin:   DefaultSideMargin,
		},
		Avatar: AvatarSettings{
			NameFont:    DefaultNameFont,
			NameSize:    DefaultNameSize,
			NameColor:   DefaultColor,
			BorderColor: DefaultColor,
			BorderWidth: DefaultBorder,
		},
		Title: TitleSettings{
			Font:         DefaultNameFont,
			Size:         DefaultTitleSize,
			Color:        DefaultColor,
			Align:        TitleCenter,
			BottomMargin: DefaultTitleBottomMargin,
		},
	}
}

// Validate checks ranges and colours.
func (s Settings) Validate() error {
	l := s.Layout
	if l.TopMargin < 0 || l.BottomMargin < 0 || l.SideMargin < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margins must be >= 0")
	}
	if int(l.TopMargin+l.BottomMargin) >= layout.CanvasHeight || int(2*l.SideMargin) >= layout.CanvasWidth {
		return errors.New(errors.ErrCodeInvalidInput, "margins leave no room on the %dx%d canvas", layout.CanvasWidth, layout.CanvasHeight)
	}
	if l.AvoidArea != layout.AvoidNone && (l.AvoidCount < 1 || l.AvoidCount > MaxAvoidCount) {
		return errors.New(errors.ErrCodeInvalidInput, "avoid count must be 1..%d, got %d", MaxAvoidCount, l.AvoidCount)
	}
	if s.Avatar.NameSize <= 0 || s.Title.Size <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "font sizes must be positive")
	}
	if s.Avatar.BorderWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "border width must be >= 0")
	}
	if s.Avatar.CornerRadius < 0 || s.Avatar.CornerRadius > 0.5 {
		return errors.New(errors.ErrCodeInvalidInput, "corner radius must be 0..0.5, got %g", float64(s.Avatar.CornerRadius))
	}
	for _, c := range []string{s.Avatar.NameColor, s.Avatar.BorderColor, s.Title.Color} {
		if err := errors.ValidateHexColor(c); err != nil {
			return err
		}
	}
	return nil
}

// Canvas returns the reference canvas with the configured margins.
func (s Settings) Canvas() layout.Canvas {
	return layout.Canvas{
		Width:        layout.CanvasWidth,
		Height:       layout.CanvasHeight,
		TopMargin:    int(s.Layout.TopMargin),
		BottomMargin: int(s.Layout.BottomMargin),
		SideMargin:   int(s.Layout.SideMargin),
	}
}

// Constraints returns planner inputs for total photos.
func (s Settings) Constraints(total int) layout.Constraints {
	return layout.DefaultConstraints(s.Canvas(), s.Layout.Ratio, s.Layout.Alignment, int(s.Avatar.NameSize), total)
}

// Zones returns the avoidance zones for the configured area.
func (s Settings) Zones() []layout.AvoidanceZone {
	return s.Layout.AvoidArea.Zones(s.Canvas(), int(s.Layout.AvoidCount))
}

// TitleSide returns the horizontal inset for left and right aligned titles.
func (s Settings) TitleSide() int {
	if s.Title.SideMargin > 0 {
		return int(s.Title.SideMargin)
	}
	return int(s.Layout.SideMargin)
}

// =============================================================================
// Sidecar Files
// =============================================================================

// SidecarPath returns the settings file that belongs to background.
func SidecarPath(background string) string {
	return strings.TrimSuffix(background, filepath.Ext(background)) + SidecarExt
}

// LoadSidecar reads the settings stored next to background. Fields missing
// from the file keep their defaults. A missing file returns the defaults and
// no error; an unreadable or malformed file returns the defaults and a
// CONFIG_MALFORMED error.
func LoadSidecar(background string) (Settings, error) {
	path := SidecarPath(background)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Default(), errors.Wrap(errors.ErrCodeConfigMalformed, err, "read %s", path)
	}
	s, err := ParseSettings(data)
	if err != nil {
		return Default(), errors.Wrap(errors.ErrCodeConfigMalformed, err, "parse %s", path)
	}
	return s, nil
}

// ParseSettings decodes sidecar JSON over the defaults and validates it.
func ParseSettings(data []byte) (Settings, error) {
	s := Default()
	if err := json.Unmarshal(data, &s); err != nil {
		return Default(), err
	}
	if err := s.Validate(); err != nil {
		return Default(), err
	}
	return s, nil
}

// SaveSidecar writes s next to background.
func SaveSidecar(background string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(SidecarPath(background), append(data, '\n'), 0o644)
}
