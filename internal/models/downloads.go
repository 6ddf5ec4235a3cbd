package models

import "time"

// Progress is a single progress event emitted during a download.
type Progress struct {
	Percent float64
	Status  string
}

// ProgressFunc receives progress events. Implementations must not block;
// events are emitted synchronously from the download loop.
type ProgressFunc func(Progress)

// DownloadOptions is the caller-supplied configuration for a download.
// Zero values fall back to defaults via ApplyDefaults.
type DownloadOptions struct {
	Quality        string
	Codec          string
	OutputDir      string
	Tool           string
	Proxy          string
	AllowFallback  bool
	CookiesBrowser bool
	CookiePath     string
	Timeout        time.Duration
}

// ApplyDefaults fills unset fields with program defaults.
func (o *DownloadOptions) ApplyDefaults() {
	if o.Quality == "" {
		o.Quality = "720p"
	}
	if o.Codec == "" {
		o.Codec = "h264"
	}
	if o.Tool == "" {
		o.Tool = "yt-dlp"
	}
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}
}

// CookiesConfigured reports whether any cookie source is available to the
// download strategies.
func (o *DownloadOptions) CookiesConfigured() bool {
	return o.CookiePath != "" || o.CookiesBrowser
}

// DownloadRecord is one row of download history.
type DownloadRecord struct {
	ID         int64
	URL        string
	Tool       string
	Phase      string
	Client     string
	Quality    string
	Status     string
	Percent    float64
	Reason     string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}
