// Package render draws a category canvas: photos in the planned grid, a
// caption under each photo and the category title near the bottom edge.
//
// # Overview
//
// A [Composer] combines the planner from the layout package with image
// processing:
//
//   - backgrounds are scaled to the 4800×3200 canvas ([Source.Background])
//   - each photo is centre-cropped to the tile ratio, scaled, and given
//     optional rounded corners and a border ([ProcessAvatar])
//   - captions are wrapped to the photo width and centred under it
//     ([CaptionLines])
//   - the title is wrapped to the canvas width and bottom-aligned at the
//     title margin ([TitleLines])
//
// # Missing Photos
//
// A photo that cannot be decoded is replaced by a grey tile and still gets
// its caption, so one bad file never drops a person from the canvas.
//
// # Caching
//
// Processed tiles and scaled backgrounds are stored as PNG in a
// [cache.Cache], keyed by path, size, modification time and processing
// options. Editing a photo or changing the tile size misses the cache.
//
//	src := render.NewSource(fileCache, nil, logger)
//	c := render.NewComposer(settings, src, logger)
//	res, err := c.Compose(ctx, bg, "Class 1", photos, faces)
//
// [cache.Cache]: github.com/matzehuels/portraitgrid/pkg/cache.Cache
package render
