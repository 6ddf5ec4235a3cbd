// Package command holds flag constants for the external extraction tools.
package command

// yt-dlp general
const (
	CookiesFromBrowser = "--cookies-from-browser"
	CookiePath         = "--cookies"
	DumpJSON           = "--dump-json"
	ExtractorArgs      = "--extractor-args"
	ForceIPv4          = "--force-ipv4"
	Format             = "-f"
	ListFormats        = "--list-formats"
	MergeOutputFormat  = "--merge-output-format"
	Newline            = "--newline"
	NoCheckCerts       = "--no-check-certificates"
	NoPlaylist         = "--no-playlist"
	NoUpdate           = "--no-update"
	NoWarnings         = "--no-warnings"
	Output             = "-o"
	Paths              = "-P"
	Proxy              = "--proxy"
	Retries            = "--retries"
	SocketTimeout      = "--socket-timeout"
	UserAgent          = "--user-agent"
	Version            = "--version"
)

// yt-dlp fragment handling for HLS/DASH streams
const (
	FragmentRetries   = "--fragment-retries"
	FileAccessRetries = "--file-access-retries"
	SkipUnavailFrags  = "--skip-unavailable-fragments"
	HLSPreferNative   = "--hls-prefer-native"
)

// yt-dlp audio extraction
const (
	ExtractAudio = "-x"
	AudioFormat  = "--audio-format"
	AudioMP3     = "mp3"
)

// yt-dlp values
const (
	FilenameSyntax  = "%(title)s.%(ext)s"
	MergeMP4        = "mp4"
	BrowserChrome   = "chrome"
	DefaultUA       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
	PlayerClientFmt = "youtube:player_client=%s"
)
