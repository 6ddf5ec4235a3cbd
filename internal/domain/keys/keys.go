// Package keys holds viper flag keys.
package keys

// Terminal keys
const (
	URL            string = "url"
	Quality        string = "quality"
	Codec          string = "codec"
	OutputDir      string = "output-dir"
	Tool           string = "tool"
	AllowFallback  string = "allow-fallback"
	Proxy          string = "proxy"
	CookiesBrowser string = "cookies-from-browser"
	CookiePath     string = "cookie-file"
	Timeout        string = "timeout"
	DebugLevel     string = "debug"
	HistoryDB      string = "history-db"
	ShowFormats    string = "formats"
	ExtractorMode  string = "extractor-mode"
)
