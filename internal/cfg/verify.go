package cfg

import (
	"fmt"
	"net/url"
	"strings"

	"grabarr/internal/domain/consts"
	"grabarr/internal/domain/keys"

	"github.com/spf13/viper"
)

// verifyFlags validates the root-level flags before any command runs.
func verifyFlags() error {
	if lvl := viper.GetInt(keys.DebugLevel); lvl < 0 || lvl > 5 {
		return fmt.Errorf("invalid debug level %d, must be 0-5", lvl)
	}

	if proxy := viper.GetString(keys.Proxy); proxy != "" {
		u, err := url.Parse(proxy)
		if err != nil {
			return fmt.Errorf("invalid proxy URL %q: %w", proxy, err)
		}
		switch u.Scheme {
		case "socks5", "socks5h", "http", "https":
		default:
			return fmt.Errorf("unsupported proxy scheme %q (use socks5, socks5h, http, or https)", u.Scheme)
		}
	}
	return nil
}

// validateDownloadInput checks quality, codec, and tool selections.
func validateDownloadInput(quality, codec, tool string) error {
	switch quality {
	case consts.QualityBest, consts.Quality1080p, consts.Quality720p,
		consts.Quality480p, consts.Quality360p, consts.QualityAudio:
	default:
		return fmt.Errorf("invalid quality %q (best, 1080p, 720p, 480p, 360p, audio)", quality)
	}

	switch strings.ToLower(codec) {
	case consts.CodecH264, consts.CodecAny:
	default:
		return fmt.Errorf("invalid codec %q (h264 or any)", codec)
	}

	switch tool {
	case consts.ToolYtDlp, consts.ToolLux, consts.ToolYouGet:
	default:
		return fmt.Errorf("invalid tool %q (yt-dlp, lux, or you-get)", tool)
	}
	return nil
}
