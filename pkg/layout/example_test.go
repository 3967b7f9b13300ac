package layout_test

import (
	"fmt"

	"github.com/matzehuels/portraitgrid/pkg/layout"
)

func ExampleBuild() {
	cv := layout.Canvas{Width: 4800, Height: 3200, TopMargin: 270, BottomMargin: 650, SideMargin: 130}
	c := layout.DefaultConstraints(cv, layout.FourByFive, layout.LeftPacked, 40, 7)

	p, err := layout.Build(c)
	if err != nil {
		panic(err)
	}
	fmt.Println("Photo:", p.ItemWidth, "x", p.ItemHeight)
	fmt.Println("Rows:", p.RowCounts)
	fmt.Println("Spacing:", p.HorizontalSpacing, p.RowSpacing)
	// Output:
	// Photo: 509 x 636
	// Rows: [3 3 1]
	// Spacing: 753 51
}

func ExamplePlacements() {
	cv := layout.Canvas{Width: 4800, Height: 3200, TopMargin: 270, BottomMargin: 650, SideMargin: 130}
	p, _ := layout.Build(layout.DefaultConstraints(cv, layout.FourByFive, layout.LeftPacked, 40, 7))
	zones := layout.AvoidMiddle.Zones(cv, 2)

	for s := range layout.Placements(p, cv.TopMargin, cv.SideMargin, zones...) {
		fmt.Println(s.Row, s.Column, s.X, s.Y, s.Skipped)
	}
	// Output:
	// 0 0 883 270 false
	// 0 1 2145 270 false
	// 0 2 3407 270 false
	// 1 0 883 1047 false
	// 1 1 2145 1047 true
	// 1 2 3407 1047 false
	// 2 0 883 1824 false
}
