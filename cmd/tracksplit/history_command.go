package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tracksplit/internal/history"
)

func newHistoryCommand(configFlag *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent downloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadEnvironment(*configFlag)
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No downloads recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				detail := rec.OutputDir
				if rec.Status == history.StatusFailed {
					detail = rec.ErrorMessage
				}
				name := rec.Album
				if rec.Artist != "" {
					name = rec.Artist + " - " + rec.Album
				}
				if name == "" {
					name = rec.URL
				}
				rows = append(rows, []string{
					rec.CreatedAt.Local().Format("2006-01-02 15:04"),
					name,
					rec.Status,
					strconv.Itoa(rec.TrackCount),
					detail,
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Date", "Album", "Status", "Tracks", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum records to show")
	return cmd
}
