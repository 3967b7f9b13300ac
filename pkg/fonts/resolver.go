package fonts

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/flopp/go-findfont"

	"github.com/matzehuels/portraitgrid/pkg/errors"
)

// Lookuper finds a face by name. *Index implements it.
type Lookuper interface {
	Lookup(ctx context.Context, name string) (FontRef, error)
}

// Resolver maps font names from settings files to faces.
//
// A name resolves, in order, as a path to an existing font file, through the
// Index, and through a direct search of the system font directories. When
// none of those succeed, the Default name is tried the same way and finally
// the embedded face is used.
type Resolver struct {
	Index   Lookuper    // optional
	Default string      // optional
	Logger  *log.Logger // optional
}

// Resolve returns the face for name. When the face had to be substituted, the
// returned ref is still usable and the error has code FONT_UNRESOLVED.
func (r *Resolver) Resolve(ctx context.Context, name string) (FontRef, error) {
	if ref, ok := r.lookup(ctx, name); ok {
		return ref, nil
	}

	fallback := Embedded()
	if r.Default != "" && !strings.EqualFold(r.Default, name) {
		if ref, ok := r.lookup(ctx, r.Default); ok {
			fallback = ref
		}
	}
	if r.Logger != nil {
		r.Logger.Warn("font not found, using fallback", "font", name, "fallback", fallback.Name)
	}
	return fallback, errors.New(errors.ErrCodeFontUnresolved, "font %q not found, using %s", name, fallback.Name)
}

func (r *Resolver) lookup(ctx context.Context, name string) (FontRef, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FontRef{}, false
	}
	if strings.EqualFold(name, EmbeddedName) {
		return Embedded(), true
	}
	if isFontFile(name) {
		if _, err := os.Stat(name); err == nil {
			return FontRef{Name: name, Path: name}, true
		}
	}
	if r.Index != nil {
		ref, err := r.Index.Lookup(ctx, name)
		if err == nil {
			return ref, true
		}
		if !errors.Is(err, errors.ErrCodeNotFound) && r.Logger != nil {
			r.Logger.Debug("font index lookup failed", "font", name, "error", err)
		}
	}
	if path, err := findfont.Find(name); err == nil {
		return FontRef{Name: name, Path: path}, true
	}
	return FontRef{}, false
}
