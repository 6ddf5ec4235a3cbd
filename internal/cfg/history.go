package cfg

import (
	"fmt"

	"grabarr/internal/app"

	"github.com/spf13/cobra"
)

// initHistoryCmd prints recent download attempts from the history store.
func initHistoryCmd(a *app.App) *cobra.Command {
	var limit int

	histCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent download attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := a.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Println("No download history (is a history database configured?)")
				return nil
			}

			for _, r := range recs {
				line := fmt.Sprintf("%s  %-11s %5.1f%%  %s [%s", r.StartedAt.Format("2006-01-02 15:04"), r.Status, r.Percent, r.URL, r.Tool)
				if r.Client != "" {
					line += fmt.Sprintf(" %s", r.Client)
				}
				line += "]"
				if r.Reason != "" {
					line += fmt.Sprintf(" (%s)", r.Reason)
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	histCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show")

	return histCmd
}
