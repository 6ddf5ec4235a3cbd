// Package consts holds various global, unchanging values.
package consts

import "time"

// Tool identifiers.
const (
	ToolYtDlp  = "yt-dlp"
	ToolLux    = "lux"
	ToolYouGet = "you-get"
)

// Quality values accepted by the download and format selection logic.
const (
	QualityBest  = "best"
	Quality1080p = "1080p"
	Quality720p  = "720p"
	Quality480p  = "480p"
	Quality360p  = "360p"
	QualityAudio = "audio"
)

// Codec selection values.
const (
	CodecH264 = "h264"
	CodecAny  = "any"
)

// Download status strings recorded in the history store.
const (
	DLStatusPending   = "pending"
	DLStatusActive    = "downloading"
	DLStatusCompleted = "completed"
	DLStatusFailed    = "failed"
)

// Timeouts.
const (
	DefaultToolTimeout  = 30 * time.Second
	PortProbeTimeout    = 400 * time.Millisecond
	ProxyDialTimeout    = 4 * time.Second
	ProxyRequestTimeout = 10 * time.Second
	IPLookupTimeout     = 8 * time.Second
	VersionCheckTimeout = 5 * time.Second
	PageProbeTimeout    = 10 * time.Second
	StatusCheckBudget   = 12 * time.Second
)

// BinSearchPaths are well-known install locations probed before PATH.
var BinSearchPaths = [...]string{
	"/opt/homebrew/bin",
	"/usr/local/bin",
	"/usr/bin",
}

// SocksProbePorts are conventional local SOCKS inbound ports, probed in order.
var SocksProbePorts = [...]int{1080, 7890, 7891, 10808, 10809, 2080, 2081, 9050}

// ProxyConfigPaths are well-known proxy engine config file locations.
var ProxyConfigPaths = [...]string{
	"/usr/local/etc/xray/config.json",
	"/opt/homebrew/etc/xray/config.json",
	"/usr/local/etc/v2ray/config.json",
	"/etc/xray/config.json",
	"/etc/v2ray/config.json",
}

// ProxyEngineProcs are process names treated as a local proxy engine.
var ProxyEngineProcs = [...]string{"xray", "v2ray", "clash", "clash-meta", "mihomo", "sing-box"}

// TunnelSubnetPrefixes are address prefixes assigned by bundled VPN clients
// to their tunnel interfaces.
var TunnelSubnetPrefixes = [...]string{"10.8.", "10.2.0.", "198.18."}

// IPEchoServices queried in order for the external IP.
var IPEchoServices = [...]string{
	"https://api.ipify.org",
	"https://ifconfig.me/ip",
	"https://icanhazip.com",
}
