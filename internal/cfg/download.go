package cfg

import (
	"fmt"
	"time"

	"grabarr/internal/app"
	"grabarr/internal/domain/keys"
	"grabarr/internal/models"
	"grabarr/internal/utils/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initDownloadCmd downloads a single video URL.
func initDownloadCmd(a *app.App) *cobra.Command {
	var (
		url            string
		quality        string
		codec          string
		outputDir      string
		tool           string
		allowFallback  bool
		cookiesBrowser bool
		cookiePath     string
		timeout        time.Duration
	)

	dlCmd := &cobra.Command{
		Use:     "download",
		Aliases: []string{"dl"},
		Short:   "Download a video",
		Long:    "Download a video URL at the chosen quality, walking client and tool fallbacks as needed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" && len(args) > 0 {
				url = args[0]
			}
			if url == "" {
				return fmt.Errorf("must enter a URL")
			}
			if err := validateDownloadInput(quality, codec, tool); err != nil {
				return err
			}

			opts := models.DownloadOptions{
				Quality:        quality,
				Codec:          codec,
				OutputDir:      outputDir,
				Tool:           tool,
				Proxy:          viper.GetString(keys.Proxy),
				AllowFallback:  allowFallback,
				CookiesBrowser: cookiesBrowser,
				CookiePath:     cookiePath,
				Timeout:        timeout,
			}

			err := a.DownloadVideo(cmd.Context(), url, opts, printProgress)
			fmt.Println()
			if err != nil {
				return err
			}
			logging.S("Download complete: %s", url)
			return nil
		},
	}

	dlCmd.Flags().StringVarP(&url, keys.URL, "u", "", "Video URL")
	dlCmd.Flags().StringVarP(&quality, keys.Quality, "q", "720p", "Quality (best, 1080p, 720p, 480p, 360p, audio)")
	dlCmd.Flags().StringVar(&codec, keys.Codec, "h264", "Preferred codec (h264 or any)")
	dlCmd.Flags().StringVarP(&outputDir, keys.OutputDir, "o", ".", "Directory to write downloaded files into")
	dlCmd.Flags().StringVar(&tool, keys.Tool, "yt-dlp", "Primary download tool (yt-dlp, lux, or you-get)")
	dlCmd.Flags().BoolVar(&allowFallback, keys.AllowFallback, true, "Try other strategies and tools when the first attempt fails")
	dlCmd.Flags().BoolVar(&cookiesBrowser, keys.CookiesBrowser, true, "Use cookies from an installed browser")
	dlCmd.Flags().StringVar(&cookiePath, keys.CookiePath, "", "Path to a Netscape-format cookie file")
	dlCmd.Flags().DurationVar(&timeout, keys.Timeout, 30*time.Second, "Socket timeout per network operation")

	return dlCmd
}

// printProgress renders progress events on a single rewritten line.
func printProgress(p models.Progress) {
	if p.Status != "" && p.Percent == 0 {
		fmt.Printf("\r\033[K%s", p.Status)
		return
	}
	fmt.Printf("\r\033[K%5.1f%%  %s", p.Percent, p.Status)
}
