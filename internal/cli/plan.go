package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/portraitgrid/pkg/config"
	"github.com/matzehuels/portraitgrid/pkg/errors"
	"github.com/matzehuels/portraitgrid/pkg/layout"
)

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	background string // read settings from this background's sidecar
	align      string // override row alignment
	ratio      string // override aspect ratio
	avoid      string // override avoidance area
	slots      bool   // list every slot
	asJSON     bool   // print JSON instead of tables
}

// planOutput is the JSON form printed by "plan --json".
type planOutput struct {
	Plan      layout.Plan   `json:"plan"`
	Slots     []layout.Slot `json:"slots,omitempty"`
	Placeable int           `json:"placeable"`
}

// planCommand creates the plan command.
func (c *CLI) planCommand() *cobra.Command {
	var opts planOpts

	cmd := &cobra.Command{
		Use:   "plan <photo-count>",
		Short: "Print the grid layout for a number of photos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := strconv.Atoi(args[0])
			if err != nil || total < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "photo count must be a non-negative integer, got %q", args[0])
			}
			s, err := opts.settings()
			if err != nil {
				return err
			}
			return writePlan(os.Stdout, s, total, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.background, "background", "b", "", "use the settings saved next to this background")
	cmd.Flags().StringVar(&opts.align, "align", "", "row alignment: left, center")
	cmd.Flags().StringVar(&opts.ratio, "ratio", "", "photo aspect ratio: 4:5, 1:1")
	cmd.Flags().StringVar(&opts.avoid, "avoid", "", "avoidance area: none, middle, bottom")
	cmd.Flags().BoolVar(&opts.slots, "slots", false, "list every photo slot")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON")

	return cmd
}

func (o *planOpts) settings() (config.Settings, error) {
	s := config.Default()
	if o.background != "" {
		var err error
		if s, err = config.LoadSidecar(o.background); err != nil {
			printWarning("%s", errors.UserMessage(err))
		}
	}
	var err error
	if o.align != "" {
		if s.Layout.Alignment, err = layout.ParseAlignment(o.align); err != nil {
			return s, err
		}
	}
	if o.ratio != "" {
		if s.Layout.Ratio, err = layout.ParseAspectRatio(o.ratio); err != nil {
			return s, err
		}
	}
	if o.avoid != "" {
		if s.Layout.AvoidArea, err = layout.ParseAvoidArea(o.avoid); err != nil {
			return s, err
		}
	}
	return s, nil
}

// writePlan prints the plan for total photos under s.
func writePlan(w io.Writer, s config.Settings, total int, opts *planOpts) error {
	p, err := layout.Build(s.Constraints(total))
	if err != nil {
		return err
	}
	cv := s.Canvas()
	zones := s.Zones()
	out := planOutput{Plan: p, Placeable: layout.CountPlaceable(p, zones...)}
	if opts.slots || opts.asJSON {
		out.Slots = layout.Collect(p, cv.TopMargin, cv.SideMargin, zones...)
	}

	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%d photos on %s", total, cv)))
	rows := [][]string{
		{"photo", fmt.Sprintf("%d×%d (%s)", p.ItemWidth, p.ItemHeight, p.AspectRatio)},
		{"rows", fmt.Sprintf("%d / %d / %d (%s)", p.RowCounts[0], p.RowCounts[1], p.RowCounts[2], p.Alignment)},
		{"spacing", fmt.Sprintf("%dpx horizontal, %dpx between rows", p.HorizontalSpacing, p.RowSpacing)},
		{"caption", fmt.Sprintf("%dpx (+%dpx margin)", p.CaptionHeight, p.CaptionMargin)},
		{"placeable", fmt.Sprintf("%d of %d", out.Placeable, total)},
	}
	fmt.Fprintln(w, renderTable([]string{"", ""}, rows))
	if p.Fallback {
		fmt.Fprintln(w, StyleWarning.Render("row spacing below minimum; captions shrunk to fit"))
	}
	if out.Placeable < total {
		fmt.Fprintln(w, StyleWarning.Render(fmt.Sprintf("%d photos will not be placed", total-out.Placeable)))
	}

	if opts.slots {
		var slotRows [][]string
		for _, sl := range out.Slots {
			state := ""
			if sl.Skipped {
				state = "skipped"
			}
			slotRows = append(slotRows, []string{
				strconv.Itoa(sl.Row), strconv.Itoa(sl.Column),
				strconv.Itoa(sl.X), strconv.Itoa(sl.Y), state,
			})
		}
		fmt.Fprintln(w, renderTable([]string{"row", "col", "x", "y", ""}, slotRows))
	}
	return nil
}
