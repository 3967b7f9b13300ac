package fonts

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// Loader parses font files once and hands out faces at any size. It is safe
// for concurrent use.
type Loader struct {
	mu    sync.Mutex
	fonts map[FontRef]*opentype.Font
}

// NewLoader returns an empty Loader.
func NewLoader() *Loader {
	return &Loader{fonts: make(map[FontRef]*opentype.Font)}
}

// Font returns the parsed font for ref.
func (l *Loader) Font(ref FontRef) (*opentype.Font, error) {
	key := FontRef{Path: ref.Path, Index: ref.Index}

	l.mu.Lock()
	defer l.mu.Unlock()
	if f, ok := l.fonts[key]; ok {
		return f, nil
	}

	f, err := parse(ref)
	if err != nil {
		return nil, err
	}
	l.fonts[key] = f
	return f, nil
}

// Face returns a face for ref at size pixels (72 DPI, so points equal pixels).
func (l *Loader) Face(ref FontRef, size float64) (font.Face, error) {
	f, err := l.Font(ref)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func parse(ref FontRef) (*opentype.Font, error) {
	data := embeddedTTF()
	if !ref.IsEmbedded() {
		var err error
		if data, err = os.ReadFile(ref.Path); err != nil {
			return nil, err
		}
	}
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", ref, err)
	}
	if ref.Index < 0 || ref.Index >= coll.NumFonts() {
		return nil, fmt.Errorf("parse %s: face index out of range (collection has %d)", ref, coll.NumFonts())
	}
	return coll.Font(ref.Index)
}
