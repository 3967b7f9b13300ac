package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/portraitgrid/pkg/errors"
	"github.com/matzehuels/portraitgrid/pkg/render"
)

// Categories lists the category folders under root in name order. Hidden
// folders and the folder at exclude are left out.
func Categories(root, exclude string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read photo root %s", root)
	}
	exclude = cleanAbs(exclude)

	var names []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if exclude != "" && cleanAbs(filepath.Join(root, e.Name())) == exclude {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Photos lists the photos in dir in file name order.
func Photos(dir string) ([]render.Photo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read category %s", dir)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && PhotoExts[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	photos := make([]render.Photo, len(names))
	for i, n := range names {
		photos[i] = render.NewPhoto(filepath.Join(dir, n))
	}
	return photos, nil
}

func cleanAbs(p string) string {
	if p == "" {
		return ""
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
