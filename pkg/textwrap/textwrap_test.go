package textwrap

import (
	"reflect"
	"testing"
	"unicode/utf8"

	"golang.org/x/image/font/basicfont"
)

// runeWidth measures one pixel per narrow rune and two per wide rune.
func runeWidth(s string) int {
	n := 0
	for _, r := range s {
		if IsWide(r) {
			n += 2
		} else {
			n++
		}
	}
	return n
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{"empty", "", 10, nil},
		{"whitespace only", "   \t ", 10, nil},
		{"fits", "Ada Lovelace", 20, []string{"Ada Lovelace"}},
		{"fits exactly", "Ada Lovelace", 12, []string{"Ada Lovelace"}},
		{"two lines", "Ada King Lovelace", 10, []string{"Ada King", "Lovelace"}},
		{"long word alone", "Wolfeschlegelsteinhausen Sr", 10, []string{"Wolfeschlegelsteinhausen", "Sr"}},
		{"long word between", "a Wolfeschlegelsteinhausen b", 5, []string{"a", "Wolfeschlegelsteinhausen", "b"}},
		{"collapses spaces", "one   two  three", 8, []string{"one two", "three"}},
		{"one word per line", "aa bb cc", 2, []string{"aa", "bb", "cc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, utf8.RuneCountInString, tt.max)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.want)
			}
		})
	}
}

func TestWrapKeepsWideWordsWhole(t *testing.T) {
	got := Wrap("张三丰 李四", runeWidth, 6)
	want := []string{"张三丰", "李四"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Wrap = %q, want %q", got, want)
	}
}

func TestWrapMixed(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{"fits", "张三", 10, []string{"张三"}},
		{"breaks between characters", "欧阳修文忠公", 6, []string{"欧阳修", "文忠公"}},
		{"latin stays grouped", "Ada 欧阳修文", 7, []string{"Ada 欧", "阳修文"}},
		{"no space inserted between wide runs", "李白Li Bai", 6, []string{"李白Li", "Bai"}},
		{"source space kept", "李 白 杜 甫", 5, []string{"李 白", "杜 甫"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapMixed(tt.text, runeWidth, tt.max)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("WrapMixed(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.want)
			}
		})
	}
}

func TestWrapLinesFit(t *testing.T) {
	texts := []string{
		"Grace Brewster Murray Hopper",
		"诸葛亮孔明 Zhuge Liang",
		"a b c d e f g h i j k l m n o p",
	}
	for _, text := range texts {
		for max := 4; max < 30; max++ {
			for _, line := range Auto(text, runeWidth, max) {
				if runeWidth(line) > max && HasWide(line) {
					t.Errorf("Auto(%q, %d) produced %q (%d wide)", text, max, line, runeWidth(line))
				}
			}
		}
	}
}

func TestAuto(t *testing.T) {
	if got := Auto("欧阳修文", runeWidth, 4); !reflect.DeepEqual(got, []string{"欧阳", "修文"}) {
		t.Errorf("Auto wide = %q", got)
	}
	if got := Auto("Ada Lovelace", runeWidth, 5); !reflect.DeepEqual(got, []string{"Ada", "Lovelace"}) {
		t.Errorf("Auto latin = %q", got)
	}
}

func TestHasWide(t *testing.T) {
	if HasWide("Ada Lovelace") {
		t.Error("latin reported wide")
	}
	if !HasWide("Ada 李") {
		t.Error("CJK not reported wide")
	}
	if !HasWide("ＡＢ") {
		t.Error("fullwidth not reported wide")
	}
}

func TestFaceMeasurer(t *testing.T) {
	m := FaceMeasurer(basicfont.Face7x13)
	if got := m("hello"); got != 35 {
		t.Errorf("measure(hello) = %d, want 35", got)
	}
	got := Wrap("hello there world", m, 80)
	want := []string{"hello there", "world"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Wrap with face = %q, want %q", got, want)
	}
}
