package layout

import "iter"

// Slot is one photo position. X and Y are the top-left corner of the photo
// box in canvas pixels.
type Slot struct {
	Row     int  `json:"row"`
	Column  int  `json:"column"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Skipped bool `json:"skipped,omitempty"`
}

// Placements returns the slots of p in row-major order, offset by the top and
// side canvas margins. Every row yields exactly p.RowCounts[r] slots; those
// overlapping any of zones are yielded with Skipped set, so reserved space
// reduces the number of photos placed rather than shifting the row.
//
// The sequence is lazy and can be ranged over any number of times. It knows
// nothing about the photo supply: callers stop once their photos run out.
func Placements(p Plan, top, side int, zones ...AvoidanceZone) iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		for r := 0; r < Rows; r++ {
			count := p.RowCounts[r]
			if count <= 0 {
				continue
			}
			y := top + r*(p.BlockHeight+p.RowSpacing)
			startX := rowStart(p, r, side)
			for c := 0; c < count; c++ {
				x := startX + c*(p.ItemWidth+p.HorizontalSpacing)
				s := Slot{Row: r, Column: c, X: x, Y: y, Skipped: blocked(zones, r, x, p.ItemWidth)}
				if !yield(s) {
					return
				}
			}
		}
	}
}

// rowStart returns the x coordinate of the first photo in row r.
func rowStart(p Plan, r, side int) int {
	if p.Alignment == Centered {
		return side + (p.AvailableWidth-p.RowWidth(r))/2
	}
	return side + p.HorizontalSpacing
}

func blocked(zones []AvoidanceZone, row, x, w int) bool {
	for _, z := range zones {
		if z.Blocks(row, x, w) {
			return true
		}
	}
	return false
}

// CountPlaceable returns how many slots of p are not skipped.
func CountPlaceable(p Plan, zones ...AvoidanceZone) int {
	n := 0
	for s := range Placements(p, 0, 0, zones...) {
		if !s.Skipped {
			n++
		}
	}
	return n
}

// Collect materializes the placement sequence.
func Collect(p Plan, top, side int, zones ...AvoidanceZone) []Slot {
	slots := make([]Slot, 0, p.Total())
	for s := range Placements(p, top, side, zones...) {
		slots = append(slots, s)
	}
	return slots
}
