package cfg

import (
	"fmt"

	"grabarr/internal/app"
	"grabarr/internal/domain/keys"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initStatusCmd surveys the network environment and tool availability.
func initStatusCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show network environment status",
		Long:  "Detect the active network mode, proxy endpoint, external IP, and primary tool version.",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := a.NetworkStatus(cmd.Context(), viper.GetString(keys.Proxy))

			fmt.Printf("Network mode: %s\n", st.Mode)
			if st.Proxy != "" {
				reach := "unreachable"
				if st.ProxyReachable {
					reach = "reachable"
				}
				fmt.Printf("Proxy:        %s (%s)\n", st.Proxy, reach)
				if st.ProxyMessage != "" {
					fmt.Printf("              %s\n", st.ProxyMessage)
				}
			}
			if st.ExternalIP != "" {
				fmt.Printf("External IP:  %s\n", st.ExternalIP)
			}
			fmt.Printf("yt-dlp:       %s", st.YtdlpStatus)
			if st.YtdlpVersion != "" {
				fmt.Printf(" (%s)", st.YtdlpVersion)
			}
			fmt.Println()
			return nil
		},
	}
}
