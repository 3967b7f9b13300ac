package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/portraitgrid/pkg/errors"
	"github.com/matzehuels/portraitgrid/pkg/fonts"
)

// fontsCommand creates the font management command.
func (c *CLI) fontsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "Manage the font index used for captions and titles",
	}

	cmd.AddCommand(c.fontsScanCommand())
	cmd.AddCommand(c.fontsListCommand())
	cmd.AddCommand(c.fontsResolveCommand())

	return cmd
}

// fontsScanCommand creates the "fonts scan" subcommand.
func (c *CLI) fontsScanCommand() *cobra.Command {
	var dirs []string
	var skipSystem bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Rebuild the font index from system and configured font folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app := c.loadApp()
			path, err := fontIndexPath(app)
			if err != nil {
				return fmt.Errorf("get font index path: %w", err)
			}

			prog := newProgress(c.Logger)
			spinner := newSpinnerWithContext(ctx, "Scanning fonts...")
			if isTerminal() {
				spinner.Start()
			}
			failed := 0
			entries, err := fonts.Scan(ctx, fonts.ScanOptions{
				Dirs:       append(app.Fonts.Dirs, dirs...),
				SkipSystem: skipSystem,
				OnError: func(path string, err error) {
					failed++
					c.Logger.Debug("skipping font file", "path", path, "error", err)
				},
			})
			spinner.Stop()
			if err != nil {
				return err
			}

			if err := writeFontIndex(ctx, path, entries); err != nil {
				return err
			}
			printSuccess("Indexed %d font names (%s)", len(entries), prog.elapsed())
			if failed > 0 {
				printWarning("%d files could not be read", failed)
			}
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&dirs, "dir", "d", nil, "additional font folder(s)")
	cmd.Flags().BoolVar(&skipSystem, "no-system", false, "skip the system font folders")

	return cmd
}

func writeFontIndex(ctx context.Context, path string, entries []fonts.Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	idx, err := fonts.OpenIndex(ctx, path)
	if err != nil {
		return err
	}
	defer idx.Close()
	return idx.Replace(ctx, entries)
}

// fontsListCommand creates the "fonts list" subcommand.
func (c *CLI) fontsListCommand() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed font names, preferred fonts first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path, err := fontIndexPath(c.loadApp())
			if err != nil {
				return fmt.Errorf("get font index path: %w", err)
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				printInfo("No font index yet")
				printNextStep("Build it with", appName+" fonts scan")
				return nil
			}
			idx, err := fonts.OpenIndex(ctx, path)
			if err != nil {
				return err
			}
			defer idx.Close()

			names, err := idx.Names(ctx)
			if err != nil {
				return err
			}
			shown := 0
			for _, n := range names {
				if filter != "" && !strings.Contains(strings.ToLower(n), strings.ToLower(filter)) {
					continue
				}
				fmt.Println(n)
				shown++
			}
			printDetail("%d of %d names", shown, len(names))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "only names containing this text")

	return cmd
}

// fontsResolveCommand creates the "fonts resolve" subcommand.
func (c *CLI) fontsResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name>",
		Short: "Show which font file a name from a settings file resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.loadApp()
			resolver, closeIndex := c.newResolver(cmd.Context(), app)
			defer closeIndex()
			resolver.Logger = nil // the outcome is printed below

			ref, err := resolver.Resolve(cmd.Context(), args[0])
			if err != nil {
				printWarning("%s", errors.UserMessage(err))
			} else {
				printSuccess("%s", args[0])
			}
			printKeyValue("name", ref.Name)
			path := ref.Path
			if ref.IsEmbedded() {
				path = "(embedded)"
			}
			printKeyValue("file", path)
			if ref.Index > 0 {
				printKeyValue("index", fmt.Sprint(ref.Index))
			}
			return nil
		},
	}
}
