package pipeline

import (
	"context"
	"image"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/portraitgrid/pkg/config"
	"github.com/matzehuels/portraitgrid/pkg/errors"
	"github.com/matzehuels/portraitgrid/pkg/fonts"
	"github.com/matzehuels/portraitgrid/pkg/history"
	"github.com/matzehuels/portraitgrid/pkg/observability"
	"github.com/matzehuels/portraitgrid/pkg/render"
)

// Runner executes runs against a shared image source, font resolver and
// history store.
//
// The Runner holds no per-run state, so multiple goroutines can execute
// runs with different options concurrently.
type Runner struct {
	Source  *render.Source
	Fonts   *fonts.Resolver
	Loader  *fonts.Loader
	History history.Store
	Logger  *log.Logger
}

// NewRunner creates a runner. A nil source loads images uncached, a nil
// resolver uses the embedded face for every name, and a nil store keeps no
// history.
func NewRunner(src *render.Source, resolver *fonts.Resolver, store history.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if src == nil {
		src = render.NewSource(nil, nil, logger)
	}
	if resolver == nil {
		resolver = &fonts.Resolver{Logger: logger}
	}
	if store == nil {
		store = history.NewNullStore()
	}
	return &Runner{
		Source:  src,
		Fonts:   resolver,
		Loader:  fonts.NewLoader(),
		History: store,
		Logger:  logger,
	}
}

// Execute renders every selected category. Category failures are reported
// in the result; the returned error is set only when the run could not
// start or the context was cancelled.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	res := &Result{ID: uuid.NewString(), Started: time.Now().UTC()}

	settings, err := r.settings(&opts)
	if err != nil {
		return nil, err
	}
	res.Settings = settings

	bg, err := r.Source.Background(ctx, opts.Background)
	if err != nil {
		return nil, err
	}

	names, err := r.categories(&opts)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no category folders in %s", opts.PhotoRoot)
	}
	if opts.Preview {
		names = names[:1]
	}

	captionRef := r.resolveFont(ctx, settings.Avatar.NameFont)
	titleRef := r.resolveFont(ctx, settings.Title.Font)
	composer := render.NewComposer(settings, r.Source, r.Logger)

	res.Categories = make([]CategoryResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, name := range names {
		res.Categories[i] = CategoryResult{Name: name}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				res.Categories[i].Err = err
				return nil
			}
			faces, err := r.faces(settings, captionRef, titleRef)
			if err != nil {
				res.Categories[i].Err = err
				return nil
			}
			res.Categories[i] = r.runCategory(gctx, composer, bg, faces, &opts, name)
			return nil
		})
	}
	_ = g.Wait()

	res.Duration = time.Since(res.Started)
	failed := len(res.Failed())
	r.Logger.Info("run complete",
		"categories", len(names),
		"failed", failed,
		"duration", res.Duration.Round(time.Millisecond))

	if err := r.History.Add(context.WithoutCancel(ctx), res.Record(&opts)); err != nil {
		r.Logger.Warn("could not record run", "error", err)
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// runCategory is the per-category error boundary.
func (r *Runner) runCategory(ctx context.Context, c *render.Composer, bg image.Image, faces render.Faces, opts *Options, name string) (cr CategoryResult) {
	start := time.Now()
	cr.Name = name
	hooks := observability.Pipeline()
	defer func() {
		cr.Duration = time.Since(start)
		hooks.OnCategoryComplete(ctx, name, cr.Placed, cr.Duration, cr.Err)
		if cr.Err != nil {
			r.Logger.Error("category failed", "category", name, "error", cr.Err)
		}
	}()

	if err := errors.ValidateCategoryName(name); err != nil {
		cr.Err = err
		return cr
	}
	photos, err := Photos(filepath.Join(opts.PhotoRoot, name))
	if err != nil {
		cr.Err = err
		return cr
	}
	cr.Photos = len(photos)
	hooks.OnCategoryStart(ctx, name, len(photos))
	if len(photos) == 0 {
		cr.Err = errors.New(errors.ErrCodeNotFound, "no photos in %s", name)
		return cr
	}

	r.Logger.Debug("composing category", "category", name, "photos", len(photos))
	res, err := c.Compose(ctx, bg, name, photos, faces)
	if err != nil {
		if errors.Is(err, errors.ErrCodeLayoutInfeasible) {
			hooks.OnLayoutComplete(ctx, name, 0, false, err)
		}
		cr.Err = err
		return cr
	}
	hooks.OnLayoutComplete(ctx, name, res.Plan.ItemWidth, res.Plan.Fallback, nil)

	cr.Placed = res.Placed
	cr.Skipped = res.Skipped
	cr.Missing = res.Missing
	cr.Leftover = res.Leftover
	cr.ItemWidth = res.Plan.ItemWidth
	cr.Fallback = res.Plan.Fallback

	out := opts.OutputPath(name)
	if err := render.Save(res.Image, out, opts.Quality); err != nil {
		cr.Err = errors.Wrap(errors.ErrCodeInternal, err, "write %s", out)
		return cr
	}
	cr.Output = out
	r.Logger.Info("category written",
		"category", name,
		"photos", cr.Placed,
		"width", cr.ItemWidth,
		"output", out)
	return cr
}

// settings returns the run settings and writes them next to the background
// unless the run is a preview or opts.KeepSidecar is set. A settings file
// that exists but cannot be parsed is never overwritten.
func (r *Runner) settings(opts *Options) (config.Settings, error) {
	s, loadErr := config.LoadSidecar(opts.Background)
	if opts.Settings != nil {
		s = *opts.Settings
		if err := s.Validate(); err != nil {
			return s, err
		}
	} else if loadErr != nil {
		r.Logger.Warn("settings file unreadable, using defaults", "error", loadErr)
	}

	if opts.Preview || opts.KeepSidecar {
		return s, nil
	}
	if errors.Is(loadErr, errors.ErrCodeConfigMalformed) {
		r.Logger.Warn("settings file left unchanged, fix it to keep new settings", "path", config.SidecarPath(opts.Background))
		return s, nil
	}
	if err := config.SaveSidecar(opts.Background, s); err != nil {
		r.Logger.Warn("could not save settings", "path", config.SidecarPath(opts.Background), "error", err)
	}
	return s, nil
}

func (r *Runner) categories(opts *Options) ([]string, error) {
	if len(opts.Categories) > 0 {
		return opts.Categories, nil
	}
	return Categories(opts.PhotoRoot, opts.OutputDir)
}

func (r *Runner) resolveFont(ctx context.Context, name string) fonts.FontRef {
	ref, err := r.Fonts.Resolve(ctx, name)
	if err != nil {
		r.Logger.Debug("font fallback", "font", name, "using", ref.Name)
	}
	return ref
}

// faces creates the caption and title faces for one category. A font file
// that fails to parse falls back to the embedded face.
func (r *Runner) faces(s config.Settings, caption, title fonts.FontRef) (render.Faces, error) {
	cf, err := r.face(caption, float64(s.Avatar.NameSize))
	if err != nil {
		return render.Faces{}, err
	}
	tf, err := r.face(title, float64(s.Title.Size))
	if err != nil {
		return render.Faces{}, err
	}
	return render.Faces{Caption: cf, Title: tf}, nil
}

func (r *Runner) face(ref fonts.FontRef, size float64) (font.Face, error) {
	f, err := r.Loader.Face(ref, size)
	if err == nil || ref.IsEmbedded() {
		return f, err
	}
	r.Logger.Warn("font unreadable, using embedded face", "font", ref.Name, "error", err)
	return r.Loader.Face(fonts.Embedded(), size)
}

// Close releases the history store and the image cache.
func (r *Runner) Close() error {
	var first error
	if r.History != nil {
		first = r.History.Close()
	}
	if r.Source != nil && r.Source.Cache != nil {
		if err := r.Source.Cache.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
