package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/portraitgrid/pkg/config"
	"github.com/matzehuels/portraitgrid/pkg/errors"
	"github.com/matzehuels/portraitgrid/pkg/layout"
	"github.com/matzehuels/portraitgrid/pkg/observability"
	"github.com/matzehuels/portraitgrid/pkg/pipeline"
)

// composeOpts holds the command-line flags shared by compose and preview.
type composeOpts struct {
	background  string   // background image; its sidecar supplies the settings
	output      string   // output directory (compose) or file (preview)
	categories  []string // restrict to these category folders
	pick        bool     // choose categories interactively
	workers     int      // categories rendered concurrently
	quality     int      // JPEG quality
	noCache     bool     // bypass the processed image cache
	keepSidecar bool     // do not write settings next to the background

	// Settings overrides applied on top of the sidecar.
	ratio      string
	align      string
	avoid      string
	avoidCount int
	titleAlign string
}

func (o *composeOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.background, "background", "b", "", "background image (required)")
	cmd.Flags().StringSliceVarP(&o.categories, "category", "c", nil, "category folder(s) to render (default all)")
	cmd.Flags().BoolVar(&o.pick, "pick", false, "choose categories interactively")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "do not read or write the image cache")
	cmd.Flags().StringVar(&o.ratio, "ratio", "", "photo aspect ratio: 4:5, 1:1")
	cmd.Flags().StringVar(&o.align, "align", "", "row alignment: left, center")
	cmd.Flags().StringVar(&o.avoid, "avoid", "", "keep photos clear of an area: none, middle, bottom")
	cmd.Flags().IntVar(&o.avoidCount, "avoid-count", 0, "number of photo slots the avoidance area spans (1-4)")
	cmd.Flags().StringVar(&o.titleAlign, "title-align", "", "title alignment: center, left, right")
	_ = cmd.MarkFlagRequired("background")
}

// settings loads the sidecar of the background and applies flag overrides.
func (o *composeOpts) settings() (config.Settings, error) {
	s, err := config.LoadSidecar(o.background)
	if err != nil {
		printWarning("%s", errors.UserMessage(err))
	}
	if o.ratio != "" {
		if s.Layout.Ratio, err = layout.ParseAspectRatio(o.ratio); err != nil {
			return s, err
		}
	}
	if o.align != "" {
		if s.Layout.Alignment, err = layout.ParseAlignment(o.align); err != nil {
			return s, err
		}
	}
	if o.avoid != "" {
		if s.Layout.AvoidArea, err = layout.ParseAvoidArea(o.avoid); err != nil {
			return s, err
		}
	}
	if o.avoidCount != 0 {
		s.Layout.AvoidCount = config.Int(o.avoidCount)
	}
	if o.titleAlign != "" {
		if s.Title.Align, err = config.ParseTitleAlign(o.titleAlign); err != nil {
			return s, err
		}
	}
	return s, s.Validate()
}

// composeCommand creates the compose command.
func (c *CLI) composeCommand() *cobra.Command {
	var opts composeOpts

	cmd := &cobra.Command{
		Use:   "compose <photo-root>",
		Short: "Render every category folder onto the background",
		Long: `Render one 4800x3200 JPEG per category folder under photo-root.

Each photo is placed in a three-row grid, captioned with its file name, and
the canvas is titled with the folder name. Settings come from the sidecar
next to the background (<background>.layout) and are written back so the
next run reproduces the same layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompose(cmd.Context(), args[0], &opts, false)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default <photo-root>/../layouts)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "categories rendered concurrently (default from config)")
	cmd.Flags().IntVarP(&opts.quality, "quality", "q", 0, "JPEG quality 1-100 (default from config)")
	cmd.Flags().BoolVar(&opts.keepSidecar, "keep-sidecar", false, "do not save the settings next to the background")

	return cmd
}

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var opts composeOpts

	cmd := &cobra.Command{
		Use:   "preview <photo-root>",
		Short: "Render one category to a preview file",
		Long: `Render a single category, the first one or the one given with --category,
to a preview JPEG without touching the settings sidecar.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompose(cmd.Context(), args[0], &opts, true)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "preview file (default <photo-root>/../layouts/preview.jpg)")

	return cmd
}

func (c *CLI) runCompose(ctx context.Context, root string, opts *composeOpts, preview bool) error {
	settings, err := opts.settings()
	if err != nil {
		return err
	}

	if opts.pick {
		picked, err := pickCategories(root, c.defaultOutputDir(root, opts, preview))
		if err != nil {
			return err
		}
		if len(picked) == 0 {
			printInfo("Nothing selected")
			return nil
		}
		opts.categories = picked
	}

	app := c.loadApp()
	runner, err := c.newRunner(ctx, app, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		PhotoRoot:   root,
		Background:  opts.background,
		Categories:  opts.categories,
		Settings:    &settings,
		Workers:     firstPositive(opts.workers, app.Render.Workers),
		Quality:     firstPositive(opts.quality, app.Render.Quality),
		Preview:     preview,
		KeepSidecar: opts.keepSidecar,
	}
	if preview {
		popts.PreviewPath = opts.output
	} else {
		popts.OutputDir = firstNonEmpty(opts.output, app.Render.OutputDir)
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Composing categories...")
	if isTerminal() {
		observability.SetPipelineHooks(&spinnerHooks{spinner: spinner})
		defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})
		spinner.Start()
	}
	result, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil && result == nil {
		return err
	}

	prog.done("run " + shortID(result.ID) + " finished")

	for _, cr := range result.Categories {
		printCategory(cr)
	}
	failed := len(result.Failed())
	printNewline()
	if failed > 0 {
		printWarning("%d of %d categories failed (%s)", failed, len(result.Categories), prog.elapsed())
	} else {
		printSuccess("Composed %d categories (%s)", len(result.Categories), prog.elapsed())
	}
	if !preview && !opts.keepSidecar {
		printDetail("Settings saved to %s", config.SidecarPath(opts.background))
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d categories failed", failed)
	}
	return nil
}

func (c *CLI) defaultOutputDir(root string, opts *composeOpts, preview bool) string {
	if opts.output != "" && !preview {
		return opts.output
	}
	return pipeline.DefaultOutputDir(root)
}

// pickCategories lets the user choose categories on a terminal.
func pickCategories(root, outputDir string) ([]string, error) {
	if !isTerminal() {
		return nil, errors.New(errors.ErrCodeUnsupported, "--pick needs an interactive terminal")
	}
	names, err := pipeline.Categories(root, outputDir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no category folders in %s", root)
	}
	model, err := tea.NewProgram(NewCategoryPickerModel(names)).Run()
	if err != nil {
		return nil, err
	}
	return model.(CategoryPickerModel).Chosen(), nil
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
