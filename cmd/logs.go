package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quocvuong92/ai-apps/internal/display"
)

func (app *App) newLogsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent provider calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.store.RecentCallLogs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			display.ShowCallLogs(records)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of calls to show")
	return cmd
}
