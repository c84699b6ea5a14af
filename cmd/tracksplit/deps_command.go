package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tracksplit/internal/config"
	"tracksplit/internal/deps"
)

func newDepsCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check that required external tools are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Config load failures should not hide the tool report.
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				cfg = nil
			}

			statuses := deps.Check(deps.Defaults(cfg))

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "missing"
				detail := status.Purpose
				if status.Found {
					state = "found"
					detail = status.Path
				}
				rows = append(rows, []string{status.Name, state, detail})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Status", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if !deps.AllFound(statuses) {
				return errors.New("some required tools are missing")
			}
			return nil
		},
	}
}
