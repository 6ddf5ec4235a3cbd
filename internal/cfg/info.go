package cfg

import (
	"fmt"

	"grabarr/internal/app"
	"grabarr/internal/domain/keys"
	"grabarr/internal/extract"
	"grabarr/internal/models"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initInfoCmd fetches and prints metadata for a single video URL.
func initInfoCmd(a *app.App) *cobra.Command {
	var (
		url            string
		showFormats    bool
		cookiesBrowser bool
		cookiePath     string
		extractorMode  string
	)

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Fetch video metadata",
		Long:  "Fetch title, uploader, duration, and available quality options for a video URL.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" && len(args) > 0 {
				url = args[0]
			}
			if url == "" {
				return fmt.Errorf("must enter a URL")
			}

			info, err := a.GetVideoInfo(cmd.Context(), url, extract.Options{
				Proxy:          viper.GetString(keys.Proxy),
				CookiesBrowser: cookiesBrowser,
				CookiePath:     cookiePath,
				Mode:           extractorMode,
			})
			if err != nil {
				return err
			}

			printVideoInfo(info)
			if showFormats {
				printFormats(info.Formats)
			}
			return nil
		},
	}

	infoCmd.Flags().StringVarP(&url, keys.URL, "u", "", "Video URL")
	infoCmd.Flags().BoolVar(&showFormats, keys.ShowFormats, false, "List available quality options")
	infoCmd.Flags().BoolVar(&cookiesBrowser, keys.CookiesBrowser, true, "Use cookies from an installed browser")
	infoCmd.Flags().StringVar(&cookiePath, keys.CookiePath, "", "Path to a Netscape-format cookie file")
	infoCmd.Flags().StringVar(&extractorMode, keys.ExtractorMode, extract.ModeAuto, "Extractor backend (auto, binary, or module)")

	return infoCmd
}

func printVideoInfo(info *models.VideoInfo) {
	fmt.Printf("Title:    %s\n", info.Title)
	fmt.Printf("Uploader: %s\n", info.Uploader)
	fmt.Printf("Duration: %s\n", info.Duration)
	if !info.UploadDate.IsZero() {
		fmt.Printf("Uploaded: %s\n", info.UploadDate.Format("2006-01-02"))
	}

	if info.Restriction.Type != models.RestrictionNone {
		fmt.Printf("\nRestriction: %s\n", info.Restriction.Message)
		for _, s := range info.Restriction.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
}

func printFormats(opts []models.FormatOption) {
	fmt.Println("\nAvailable quality options:")
	for _, o := range opts {
		marker := " "
		if o.IsRecommended {
			marker = "*"
		}
		line := fmt.Sprintf("%s %-24s", marker, o.Label)
		if o.EstimatedSize != "" {
			line += fmt.Sprintf("  ~%s", o.EstimatedSize)
		}
		if o.CodecInfo != "" {
			line += fmt.Sprintf("  [%s]", o.CodecInfo)
		}
		fmt.Println(line)
	}
}
