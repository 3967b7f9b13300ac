package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/portraitgrid/pkg/history"
)

// historyCommand creates the "history" command.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent composition runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newHistory(ctx, c.loadApp())
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeHistoryJSON(cmd.OutOrStdout(), records)
			}
			if len(records) == 0 {
				printInfo("No runs recorded yet")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"started", "id", "categories", "failed", "duration", "output"},
				historyRows(records),
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")

	return cmd
}

func historyRows(records []history.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		output := r.OutputDir
		if r.Preview {
			output += " (preview)"
		}
		rows = append(rows, []string{
			r.Started.Local().Format("2006-01-02 15:04"),
			shortID(r.ID),
			strconv.Itoa(len(r.Categories)),
			strconv.Itoa(r.Failed()),
			r.Duration.Round(time.Millisecond).String(),
			output,
		})
	}
	return rows
}

func writeHistoryJSON(w io.Writer, records []history.Record) error {
	if records == nil {
		records = []history.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
