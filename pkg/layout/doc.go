// Package layout plans three-row photo grids and enumerates their placement slots.
//
// # Overview
//
// A category canvas always carries exactly three rows of photos. Given the
// number of photos, the space left inside the canvas margins and the photo
// aspect ratio, [Build] produces a [Plan] value describing:
//
//   - The photo size (the largest width whose three rows still fit)
//   - How many photos go in each row
//   - Horizontal spacing between photos and vertical spacing between rows
//
// # Sizing
//
// Photo height is a function of width and [AspectRatio], so the height of a
// row block (photo + caption margin + caption) grows with width while the
// number of photos a row can hold shrinks. Feasibility is therefore monotone
// and the planner binary-searches the widest feasible photo in
// MinItemWidth..MaxItemWidth.
//
// The probe uses a provisional horizontal spacing ([Constraints.SpacingGuess]);
// once the width is fixed, the exact spacing is derived from the fullest row so
// that its outer gaps and inner gaps are equal. Both phases are part of the
// contract: photo sizes depend on the provisional guess.
//
// # Row Distribution
//
// Photos are split as evenly as possible. The one or two left over go to the
// visually anchored rows: the top rows for [LeftPacked], the middle row (one
// left over) or the outer rows (two left over) for [Centered].
//
// # Placement
//
// [Placements] turns a plan into a lazy sequence of [Slot] values in row-major
// order. Slots overlapping an [AvoidanceZone] are reported with Skipped set;
// the consumer keeps its own photo index and only advances it on placed slots:
//
//	p, err := layout.Build(c)
//	if err != nil {
//	    return err
//	}
//	i := 0
//	for s := range layout.Placements(p, top, side, zone) {
//	    if i == len(photos) {
//	        break
//	    }
//	    if s.Skipped {
//	        continue
//	    }
//	    draw(photos[i], s.X, s.Y)
//	    i++
//	}
package layout
