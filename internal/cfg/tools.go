package cfg

import (
	"fmt"

	"grabarr/internal/app"

	"github.com/spf13/cobra"
)

// initToolsCmd lists the installation state of every supported tool.
func initToolsCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List supported download tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range a.Tools(cmd.Context()) {
				if !t.IsAvailable {
					fmt.Printf("%-8s not installed\n", t.Name)
					continue
				}
				fmt.Printf("%-8s %-12s %s\n", t.Name, t.Version, t.Path)
			}
			return nil
		},
	}
}
