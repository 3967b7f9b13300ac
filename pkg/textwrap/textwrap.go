// Package textwrap breaks captions and titles into lines that fit a pixel
// width.
//
// Wrapping is greedy: units are appended to the current line while the
// measured line still fits, and a unit that does not fit starts a new line.
// A unit wider than the limit on its own occupies its own line unsplit, so
// wrapping never fails.
//
// [Wrap] breaks only at whitespace. [WrapMixed] additionally treats every
// East Asian wide or fullwidth character as its own unit, which lets names
// written in CJK scripts break between characters. [Auto] picks one of the
// two based on the text.
package textwrap

import (
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/text/width"
)

// Measure returns the rendered width of s in pixels.
type Measure func(s string) int

// FaceMeasurer measures strings with face, rounding up to whole pixels.
func FaceMeasurer(face font.Face) Measure {
	return func(s string) int {
		return font.MeasureString(face, s).Ceil()
	}
}

// unit is a breakable piece of text. spaced reports whether whitespace
// preceded it in the source.
type unit struct {
	text   string
	spaced bool
}

// Wrap breaks text at whitespace so each line measures at most maxWidth.
// Runs of whitespace collapse to a single space. Text that fits as a whole is
// returned unchanged as the only line; empty or all-whitespace text yields no
// lines.
func Wrap(text string, measure Measure, maxWidth int) []string {
	return wrap(text, measure, maxWidth, false)
}

// WrapMixed is like [Wrap] but also breaks between wide characters, so a
// caption mixing Latin words and CJK characters wraps naturally in both.
func WrapMixed(text string, measure Measure, maxWidth int) []string {
	return wrap(text, measure, maxWidth, true)
}

// Auto wraps with [WrapMixed] when text contains wide characters and with
// [Wrap] otherwise.
func Auto(text string, measure Measure, maxWidth int) []string {
	if HasWide(text) {
		return WrapMixed(text, measure, maxWidth)
	}
	return Wrap(text, measure, maxWidth)
}

func wrap(text string, measure Measure, maxWidth int, splitWide bool) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if measure(text) <= maxWidth {
		return []string{text}
	}

	var lines []string
	var line strings.Builder
	for _, u := range split(text, splitWide) {
		if line.Len() == 0 {
			line.WriteString(u.text)
			continue
		}
		candidate := line.String()
		if u.spaced {
			candidate += " "
		}
		candidate += u.text
		if measure(candidate) <= maxWidth {
			line.Reset()
			line.WriteString(candidate)
			continue
		}
		lines = append(lines, line.String())
		line.Reset()
		line.WriteString(u.text)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// split tokenizes text into whitespace-delimited words, additionally cutting
// every wide rune into its own unit when splitWide is set.
func split(text string, splitWide bool) []unit {
	var units []unit
	var word strings.Builder
	spaced := false

	flush := func() {
		if word.Len() > 0 {
			units = append(units, unit{text: word.String(), spaced: spaced})
			word.Reset()
			spaced = false
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
			if len(units) > 0 {
				spaced = true
			}
		case splitWide && IsWide(r):
			flush()
			units = append(units, unit{text: string(r), spaced: spaced})
			spaced = false
		default:
			word.WriteRune(r)
		}
	}
	flush()
	return units
}

// IsWide reports whether r is an East Asian wide or fullwidth character.
func IsWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

// HasWide reports whether s contains any wide character.
func HasWide(s string) bool {
	for _, r := range s {
		if IsWide(r) {
			return true
		}
	}
	return false
}
