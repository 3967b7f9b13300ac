package layout

import (
	"strings"

	"github.com/matzehuels/portraitgrid/pkg/errors"
)

// AvoidTolerance widens every avoidance zone on both sides.
const AvoidTolerance = 10

// AvoidanceZone reserves a horizontal span of one row, for example for an
// emblem painted on the background. Coordinates are canvas pixels.
type AvoidanceZone struct {
	Row   int `json:"row"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Validate checks the zone targets one of the three rows and is non-empty.
func (z AvoidanceZone) Validate() error {
	if z.Row < 0 || z.Row >= Rows {
		return errors.New(errors.ErrCodeInvalidInput, "avoidance row must be 0..%d, got %d", Rows-1, z.Row)
	}
	if z.Start >= z.End {
		return errors.New(errors.ErrCodeInvalidInput, "avoidance range [%d, %d) is empty", z.Start, z.End)
	}
	return nil
}

// Blocks reports whether a photo at row, spanning [x, x+w], overlaps the zone
// widened by AvoidTolerance. Touching the widened edge is not an overlap.
func (z AvoidanceZone) Blocks(row, x, w int) bool {
	if row != z.Row {
		return false
	}
	return !(x+w <= z.Start-AvoidTolerance || x >= z.End+AvoidTolerance)
}

// Notional grid used to size a centred zone: seven photos per row with 50px
// gaps, independent of the photo size actually planned.
const (
	zoneSlotsPerRow = 7
	zoneSlotSpacing = 50
)

// CenteredZone returns a zone in row centred on the canvas, as wide as slots
// photos of the notional seven-per-row grid including their gaps.
func CenteredZone(canvasWidth, availableWidth, row, slots int) AvoidanceZone {
	slotWidth := (availableWidth - (zoneSlotsPerRow+1)*zoneSlotSpacing) / zoneSlotsPerRow
	width := (slotWidth + zoneSlotSpacing) * slots
	center := canvasWidth / 2
	return AvoidanceZone{
		Row:   row,
		Start: center - width/2,
		End:   center + width/2,
	}
}

// AvoidArea names the row an emblem occupies.
type AvoidArea string

const (
	AvoidNone   AvoidArea = "none"
	AvoidMiddle AvoidArea = "middle"
	AvoidBottom AvoidArea = "bottom"
)

// ParseAvoidArea parses an area name, accepting the labels written by older
// settings files (无, 中部, 下部).
func ParseAvoidArea(s string) (AvoidArea, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "无":
		return AvoidNone, nil
	case "middle", "中部":
		return AvoidMiddle, nil
	case "bottom", "下部":
		return AvoidBottom, nil
	}
	return AvoidNone, errors.New(errors.ErrCodeInvalidInput, "invalid avoid area %q (must be none, middle or bottom)", s)
}

// Row returns the targeted row, or -1 for AvoidNone.
func (a AvoidArea) Row() int {
	switch a {
	case AvoidMiddle:
		return 1
	case AvoidBottom:
		return 2
	}
	return -1
}

// Zones returns the centred zone for the area on cv, or nil when the area is
// AvoidNone or slots is not positive.
func (a AvoidArea) Zones(cv Canvas, slots int) []AvoidanceZone {
	row := a.Row()
	if row < 0 || slots <= 0 {
		return nil
	}
	return []AvoidanceZone{CenteredZone(cv.Width, cv.AvailableWidth(), row, slots)}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AvoidArea) UnmarshalText(b []byte) error {
	v, err := ParseAvoidArea(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
