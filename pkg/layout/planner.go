package layout

import (
	"github.com/matzehuels/portraitgrid/pkg/errors"
)

// Plan is a computed three-row grid. It is a plain value: computing it twice
// from the same [Constraints] yields identical plans.
type Plan struct {
	ItemWidth         int         `json:"item_width"`
	ItemHeight        int         `json:"item_height"`
	RowCounts         [Rows]int   `json:"row_counts"`
	MaxPerRow         int         `json:"max_per_row"`
	HorizontalSpacing int         `json:"horizontal_spacing"`
	RowSpacing        int         `json:"row_spacing"`
	CaptionHeight     int         `json:"caption_height"`
	CaptionMargin     int         `json:"caption_margin"`
	BlockHeight       int         `json:"block_height"`
	AvailableWidth    int         `json:"available_width"`
	AvailableHeight   int         `json:"available_height"`
	Alignment         Alignment   `json:"alignment"`
	AspectRatio       AspectRatio `json:"aspect_ratio"`

	// Fallback is set when row spacing fell below the minimum and captions
	// were shrunk to make room.
	Fallback bool `json:"fallback,omitempty"`
}

// Total returns the number of photos the plan places.
func (p Plan) Total() int {
	return p.RowCounts[0] + p.RowCounts[1] + p.RowCounts[2]
}

// MaxRowCount returns the count of the fullest row.
func (p Plan) MaxRowCount() int {
	return max(p.RowCounts[0], p.RowCounts[1], p.RowCounts[2])
}

// RowWidth returns the pixel width occupied by row r.
func (p Plan) RowWidth(r int) int {
	n := p.RowCounts[r]
	if n == 0 {
		return 0
	}
	return n*p.ItemWidth + (n-1)*p.HorizontalSpacing
}

// GridHeight returns the pixel height of the three row blocks and the two
// gaps between them.
func (p Plan) GridHeight() int {
	return Rows*p.BlockHeight + (Rows-1)*p.RowSpacing
}

// Build computes the largest photo size for which all c.TotalItems photos fit
// in three rows, then distributes them and derives the spacing.
//
// It returns an [errors.ErrCodeLayoutInfeasible] error when no width in
// MinItemWidth..MaxItemWidth satisfies the height and capacity checks.
func Build(c Constraints) (Plan, error) {
	if err := c.Validate(); err != nil {
		return Plan{}, err
	}

	w, ok := search(c)
	if !ok {
		return Plan{}, errors.New(errors.ErrCodeLayoutInfeasible,
			"no photo width in [%d, %d] fits %d photos in %d rows of %dx%d",
			c.MinItemWidth, c.MaxItemWidth, c.TotalItems, Rows, c.AvailableWidth, c.AvailableHeight)
	}
	return finalize(c, w)
}

// search binary-searches the widest feasible photo width. Feasibility is
// monotonically non-increasing in width.
func search(c Constraints) (int, bool) {
	lo, hi := c.MinItemWidth, c.MaxItemWidth
	best, found := 0, false
	for lo <= hi {
		mid := (lo + hi) / 2
		if feasible(c, mid) {
			best, found = mid, true
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best, found
}

// feasible reports whether photos of width w fit three rows vertically and
// whether three rows of w hold every photo, using the provisional spacing.
func feasible(c Constraints, w int) bool {
	block := c.AspectRatio.HeightFor(w) + c.CaptionMargin + c.CaptionHeight
	if Rows*block+(Rows-1)*c.MinRowSpacing > c.AvailableHeight {
		return false
	}
	return maxPerRow(c, w)*Rows >= c.TotalItems
}

// maxPerRow is the capacity of one row at width w with the provisional spacing.
func maxPerRow(c Constraints, w int) int {
	return (c.AvailableWidth + c.SpacingGuess) / (w + c.SpacingGuess)
}

// finalize completes a plan for a chosen width: row counts, exact horizontal
// spacing and row spacing, falling back to smaller captions when the rows
// leave less than the minimum gap.
func finalize(c Constraints, w int) (Plan, error) {
	perRow := maxPerRow(c, w)
	counts := distributeRows(c.TotalItems, perRow, c.Alignment)
	if sum := counts[0] + counts[1] + counts[2]; sum != c.TotalItems {
		return Plan{}, errors.New(errors.ErrCodeLayoutInfeasible,
			"rows %v hold %d of %d photos at %d per row", counts, sum, c.TotalItems, perRow)
	}

	p := Plan{
		ItemWidth:       w,
		ItemHeight:      c.AspectRatio.HeightFor(w),
		RowCounts:       counts,
		MaxPerRow:       perRow,
		CaptionHeight:   c.CaptionHeight,
		CaptionMargin:   c.CaptionMargin,
		AvailableWidth:  c.AvailableWidth,
		AvailableHeight: c.AvailableHeight,
		Alignment:       c.Alignment,
		AspectRatio:     c.AspectRatio,
	}
	p.BlockHeight = p.ItemHeight + p.CaptionMargin + p.CaptionHeight
	p.HorizontalSpacing = exactSpacing(c.AvailableWidth, p.MaxRowCount(), p.ItemWidth)

	remaining := c.AvailableHeight - Rows*p.BlockHeight
	if remaining >= (Rows-1)*c.MinRowSpacing {
		p.RowSpacing = remaining / (Rows - 1)
		return p, nil
	}

	shrinkCaptions(&p, c)
	return p, nil
}

// exactSpacing spreads the fullest row across the width with equal gaps at
// both outer edges and between photos.
func exactSpacing(available, rowCount, w int) int {
	if rowCount == 0 {
		return 0
	}
	return max(0, (available-rowCount*w)/(rowCount+1))
}

// shrinkCaptions derives the photo size from a per-row budget that keeps
// the minimum row spacing, capping the caption at 20% of the budget and the
// caption margin at 5%.
func shrinkCaptions(p *Plan, c Constraints) {
	budget := (c.AvailableHeight - (Rows-1)*c.MinRowSpacing) / Rows

	p.CaptionHeight = min(c.CaptionHeight, budget*20/100)
	p.CaptionMargin = min(c.CaptionMargin, budget*5/100)
	p.ItemHeight = max(0, budget-p.CaptionHeight-p.CaptionMargin)
	p.ItemWidth = c.AspectRatio.WidthFor(p.ItemHeight)
	p.BlockHeight = p.ItemHeight + p.CaptionMargin + p.CaptionHeight
	p.RowSpacing = c.MinRowSpacing
	p.HorizontalSpacing = exactSpacing(c.AvailableWidth, p.MaxRowCount(), p.ItemWidth)
	p.Fallback = true
}
