package models

// NetworkMode describes how outbound traffic currently leaves the host.
type NetworkMode string

const (
	ModeDirect NetworkMode = "direct"
	ModeProxy  NetworkMode = "proxy"
	ModeVPN    NetworkMode = "vpn"
)

// NetworkStatus is recomputed on every status query and reflects live
// system state; it is never cached across calls.
type NetworkStatus struct {
	Proxy          string
	Mode           NetworkMode
	ExternalIP     string
	ProxyReachable bool
	ProxyMessage   string
	YtdlpVersion   string
	YtdlpStatus    string
}

// ToolInfo reports whether an extraction tool is installed and where.
type ToolInfo struct {
	Name        string
	Version     string
	Path        string
	IsAvailable bool
}
