package render

import (
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/portraitgrid/pkg/config"
	"github.com/matzehuels/portraitgrid/pkg/layout"
	"github.com/matzehuels/portraitgrid/pkg/textwrap"
)

const (
	// LineSpacing separates wrapped caption and title lines.
	LineSpacing = 5

	// captionInset keeps caption lines 5px clear of each photo edge.
	captionInset = 10
)

// TextLine is one positioned line of text. X and Y are the top-left corner.
type TextLine struct {
	Text string
	X, Y int
}

// CaptionLines wraps name to the photo width and centres each line under
// the photo whose top-left corner is (x, y).
func CaptionLines(name string, face font.Face, size int, p layout.Plan, x, y int) []TextLine {
	measure := textwrap.FaceMeasurer(face)
	wrapped := textwrap.Auto(name, measure, p.ItemWidth-captionInset)

	top := y + p.ItemHeight + p.CaptionMargin
	lines := make([]TextLine, len(wrapped))
	for i, s := range wrapped {
		lines[i] = TextLine{
			Text: s,
			X:    x + (p.ItemWidth-measure(s))/2,
			Y:    top + i*(size+LineSpacing),
		}
	}
	return lines
}

// TitleLines wraps title to the width between the title side margins and
// stacks the lines upwards so the last line ends at the title bottom margin.
func TitleLines(title string, face font.Face, s config.Settings) []TextLine {
	size := int(s.Title.Size)
	side := s.TitleSide()
	measure := textwrap.FaceMeasurer(face)
	wrapped := textwrap.Auto(title, measure, layout.CanvasWidth-2*side)

	bottom := layout.CanvasHeight - int(s.Title.BottomMargin) - size
	lines := make([]TextLine, len(wrapped))
	for i, text := range wrapped {
		w := measure(text)
		var x int
		switch s.Title.Align {
		case config.TitleLeft:
			x = side
		case config.TitleRight:
			x = layout.CanvasWidth - side - w
		default:
			x = (layout.CanvasWidth - w) / 2
		}
		lines[i] = TextLine{
			Text: text,
			X:    x,
			Y:    bottom - (len(wrapped)-1-i)*(size+LineSpacing),
		}
	}
	return lines
}

// drawLines draws lines with face, converting each top edge to the baseline.
func drawLines(dc *gg.Context, face font.Face, c color.Color, lines []TextLine) {
	ascent := face.Metrics().Ascent.Ceil()
	dc.SetFontFace(face)
	dc.SetColor(c)
	for _, l := range lines {
		dc.DrawString(l.Text, float64(l.X), float64(l.Y+ascent))
	}
}
