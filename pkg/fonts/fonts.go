// Package fonts finds, indexes and loads the TrueType and OpenType faces used
// for captions and titles.
//
// Fonts are referred to by name ("Microsoft YaHei", "Noto Sans CJK SC") the
// way settings files store them. [Scan] reads the name tables of every font
// file on the system, [Index] persists the names in a sqlite database, and
// [Resolver] turns a name into a [FontRef], falling back to a configured
// default and finally to the embedded Go Regular face.
//
// Parsed fonts are shared through a [Loader]; faces are cheap to create and
// are made per size.
package fonts

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/image/font/gofont/goregular"
)

// EmbeddedName is the name of the built-in fallback face.
const EmbeddedName = "Go Regular"

// FontRef locates one face: a file and, for collections (.ttc, .otc), the
// index of the face inside it. An empty Path refers to the embedded face.
type FontRef struct {
	Name  string `json:"name"`
	Path  string `json:"path,omitempty"`
	Index int    `json:"index,omitempty"`
}

// Embedded returns the reference to the built-in fallback face.
func Embedded() FontRef {
	return FontRef{Name: EmbeddedName}
}

// IsEmbedded reports whether r refers to the built-in face.
func (r FontRef) IsEmbedded() bool { return r.Path == "" }

// String implements fmt.Stringer.
func (r FontRef) String() string {
	switch {
	case r.IsEmbedded():
		return r.Name + " (embedded)"
	case r.Index > 0:
		return fmt.Sprintf("%s (%s#%d)", r.Name, r.Path, r.Index)
	default:
		return fmt.Sprintf("%s (%s)", r.Name, r.Path)
	}
}

// embeddedTTF returns the data of the built-in fallback face.
func embeddedTTF() []byte { return goregular.TTF }

// Preferred lists faces offered first when present, in order. They cover
// CJK names on Windows and macOS installs.
var Preferred = []string{
	"Microsoft YaHei",
	"微软雅黑",
	"SimSun",
	"宋体",
	"SimHei",
	"黑体",
	"KaiTi",
	"楷体",
	"PingFang SC",
	"Noto Sans CJK SC",
	"Source Han Sans SC",
}

// Order sorts names alphabetically (case-insensitively) with the
// [Preferred] names that are present moved to the front in preference order.
func Order(names []string) []string {
	rank := func(n string) int {
		for i, p := range Preferred {
			if strings.EqualFold(p, n) {
				return i
			}
		}
		return len(Preferred)
	}
	out := slices.Clone(names)
	slices.SortStableFunc(out, func(a, b string) int {
		ra, rb := rank(a), rank(b)
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out
}

// isFontFile reports whether path has a font file extension.
func isFontFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf", ".ttc", ".otc":
		return true
	}
	return false
}
