package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stl2scc/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the conversion ledger",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var status string
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := history.Filter{RunID: strings.TrimSpace(runID), Limit: limit}
			if status != "" {
				parsed, err := history.ParseStatus(status)
				if err != nil {
					return err
				}
				filter.Status = parsed
			}

			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if jsonOutput {
				if entries == nil {
					entries = []history.Entry{}
				}
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No conversions recorded")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					strconv.FormatInt(e.ID, 10),
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					string(e.Status),
					strconv.Itoa(e.Captions),
					e.SourcePath,
					e.OutputPath,
					history.ShortDigest(e.InputDigest),
				})
			}
			writeTable(out,
				[]string{"ID", "When", "Status", "Captions", "Source", "Output", "Digest"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Only show entries from this run ID")
	cmd.Flags().StringVar(&status, "status", "", "Only show entries with this status (converted, empty, failed, unchanged)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print entries as JSON")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	var olderThan string
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove ledger entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (olderThan != "") {
				return errors.New("specify exactly one of --all or --older-than")
			}
			var cutoff time.Time
			if !all {
				age, err := parseAge(olderThan)
				if err != nil {
					return err
				}
				cutoff = time.Now().Add(-age)
			}

			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&olderThan, "older-than", "", "Remove entries older than this age (e.g. 30d, 12h)")
	cmd.Flags().BoolVar(&all, "all", false, "Remove every entry")
	return cmd
}

// parseAge accepts Go durations plus a whole-day "Nd" form.
func parseAge(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("--older-than: invalid day count %q", value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	age, err := time.ParseDuration(value)
	if err != nil || age < 0 {
		return 0, fmt.Errorf("--older-than: invalid duration %q", value)
	}
	return age, nil
}
