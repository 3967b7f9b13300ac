package layout

// distributeRows splits total photos over three rows of at most perRow each.
//
// Each row starts with min(total/3, perRow). With one photo left over,
// LeftPacked grows the first two rows and shrinks the last (3,3,1 for seven)
// while Centered grows the middle row. With two left over, LeftPacked grows
// the first two rows and Centered the outer two. Growth never exceeds perRow.
func distributeRows(total, perRow int, align Alignment) [Rows]int {
	base := min(total/Rows, perRow)
	remainder := total - Rows*base
	rows := [Rows]int{base, base, base}

	switch align {
	case Centered:
		switch remainder {
		case 1:
			if rows[1] < perRow {
				rows[1]++
			}
		case 2:
			if rows[0] < perRow {
				rows[0]++
			}
			if rows[2] < perRow {
				rows[2]++
			}
		}
	default:
		switch remainder {
		case 1:
			if rows[0] >= perRow {
				break
			}
			if base == 0 {
				// A single photo has no last-row slot to give up.
				rows[0]++
				break
			}
			rows[0]++
			rows[1]++
			rows[2]--
		case 2:
			if rows[0] < perRow && rows[1] < perRow {
				rows[0]++
				rows[1]++
			}
		}
	}
	return rows
}
