package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tunegrab/internal/journal"
	"tunegrab/internal/pipeline"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversion requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := journal.Open(cmd.Context(), cfg.Paths.JournalPath)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list journal: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No conversions recorded yet")
				return nil
			}
			fmt.Fprintln(out, renderHistory(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	return cmd
}

func renderHistory(records []journal.Record) string {
	headers := []string{"ID", "When", "Video", "Title", "Status", "Length", "Size", "Error"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			strconv.FormatInt(rec.ID, 10),
			rec.FinishedAt.Local().Format("2006-01-02 15:04"),
			rec.VideoID,
			truncate(rec.Title, 40),
			rec.Status,
			formatLength(rec.Duration),
			formatSize(rec.SizeBytes),
			truncate(rec.ErrorMessage, 50),
		})
	}
	return renderTable(headers, rows, aligns)
}

func formatLength(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	return pipeline.FormatDuration(seconds)
}

func formatSize(size int64) string {
	switch {
	case size <= 0:
		return ""
	case size < 1<<20:
		return fmt.Sprintf("%d KiB", size>>10)
	default:
		return fmt.Sprintf("%.1f MiB", float64(size)/(1<<20))
	}
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 3 || len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}
