package command

// lux
const (
	LuxJSON       = "-j"
	LuxOutputDir  = "-o"
	LuxVersionArg = "-v"
)

// you-get
const (
	YouGetJSON      = "--json"
	YouGetOutputDir = "-o"
	YouGetNoCaption = "--no-caption"
)

// Proxy environment variables for tools configured via env rather than flags.
const (
	EnvHTTPProxy  = "HTTP_PROXY"
	EnvHTTPSProxy = "HTTPS_PROXY"
	EnvAllProxy   = "ALL_PROXY"
)
