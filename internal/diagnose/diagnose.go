// Package diagnose classifies raw extraction tool errors into blocking
// reasons with remediation guidance. Purely textual; no state, no I/O.
package diagnose

import (
	"strings"
)

// BlockingReason identifies why a source platform rejected a request.
type BlockingReason int

const (
	ReasonUnknown BlockingReason = iota
	ReasonHTTP403Forbidden
	ReasonSabrStreaming
	ReasonPoTokenRequired
	ReasonAgeRestricted
	ReasonGeoBlocked
	ReasonNetworkTimeout
	ReasonRateLimited
	ReasonBotDetection
	ReasonPrivateVideo
	ReasonVideoUnavailable
	ReasonDrmProtected
	ReasonMembersOnly
)

// keywordGroup pairs a reason with the lowercase substrings that indicate it.
// Order encodes precedence: several keyword sets overlap (e.g. "forbidden"
// appears in DRM-adjacent and plain-403 messages), so the most specific and
// most consequential categories are checked first.
type keywordGroup struct {
	reason   BlockingReason
	keywords []string
}

var keywordGroups = []keywordGroup{
	{ReasonDrmProtected, []string{
		"drm", "widevine", "playready", "fairplay", "encrypted media",
		"content is protected", "youtube premium", "youtube music premium",
		"requires purchase", "rental", "pay to watch", "this video requires payment",
	}},
	{ReasonMembersOnly, []string{
		"members only", "members-only", "join this channel",
		"membership required", "available to members",
	}},
	{ReasonSabrStreaming, []string{
		"sabr", "forcing sabr streaming",
	}},
	{ReasonPoTokenRequired, []string{
		"po token", "gvs po token", "proof of origin",
	}},
	{ReasonAgeRestricted, []string{
		"age-restricted", "sign in to confirm your age", "age_verification",
	}},
	{ReasonPrivateVideo, []string{
		"private video", "video is private", "sign in if you've been granted access",
	}},
	{ReasonVideoUnavailable, []string{
		"video unavailable", "video has been removed",
		"this video is no longer available", "video is unavailable",
	}},
	{ReasonGeoBlocked, []string{
		"not available in your country", "geo", "blocked in your country",
		"geographic restriction",
	}},
	{ReasonRateLimited, []string{
		"429", "rate limit", "too many requests",
	}},
	{ReasonBotDetection, []string{
		"bot", "captcha", "unusual traffic", "automated",
	}},
	{ReasonHTTP403Forbidden, []string{
		"403", "forbidden",
	}},
	{ReasonNetworkTimeout, []string{
		"timeout", "timed out", "connection refused", "network unreachable",
	}},
}

// platformDomains mark a timeout as platform throttling rather than a plain
// network fault.
var platformDomains = []string{"youtube.com", "youtu.be", "googlevideo.com"}

// Diagnose maps raw error text to a blocking reason. Returns ok=false for
// empty input (absence of an error, not an unknown one).
func Diagnose(raw string) (BlockingReason, bool) {
	if raw == "" {
		return ReasonUnknown, false
	}

	lower := strings.ToLower(raw)

	for _, g := range keywordGroups {
		for _, kw := range g.keywords {
			if !strings.Contains(lower, kw) {
				continue
			}
			// A timeout naming a platform domain is a soft IP block, not a
			// network fault.
			if g.reason == ReasonNetworkTimeout && mentionsPlatform(lower) {
				return ReasonRateLimited, true
			}
			return g.reason, true
		}
	}

	return ReasonUnknown, true
}

func mentionsPlatform(lower string) bool {
	for _, d := range platformDomains {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

// IsRetryable reports whether a different strategy might succeed.
func (r BlockingReason) IsRetryable() bool {
	switch r {
	case ReasonHTTP403Forbidden, ReasonSabrStreaming, ReasonPoTokenRequired,
		ReasonNetworkTimeout, ReasonRateLimited, ReasonBotDetection:
		return true
	}
	return false
}

// CookiesMightHelp reports whether authenticating might succeed.
func (r BlockingReason) CookiesMightHelp() bool {
	switch r {
	case ReasonHTTP403Forbidden, ReasonSabrStreaming, ReasonPoTokenRequired,
		ReasonAgeRestricted, ReasonBotDetection, ReasonPrivateVideo,
		ReasonMembersOnly:
		return true
	}
	return false
}

// ProxyMightHelp reports whether a different egress IP might succeed.
func (r BlockingReason) ProxyMightHelp() bool {
	switch r {
	case ReasonHTTP403Forbidden, ReasonGeoBlocked, ReasonNetworkTimeout,
		ReasonRateLimited, ReasonBotDetection:
		return true
	}
	return false
}

// AudioFallbackMightWork reports whether an audio-only retry might succeed.
func (r BlockingReason) AudioFallbackMightWork() bool {
	return r == ReasonSabrStreaming || r == ReasonHTTP403Forbidden
}

// IsPermanent reports whether no workaround exists.
func (r BlockingReason) IsPermanent() bool {
	return r == ReasonDrmProtected || r == ReasonVideoUnavailable
}

// Severity rates the block from 1 (mild) to 5 (no workaround).
func (r BlockingReason) Severity() int {
	switch r {
	case ReasonDrmProtected, ReasonVideoUnavailable:
		return 5
	case ReasonPrivateVideo, ReasonGeoBlocked, ReasonMembersOnly:
		return 4
	case ReasonAgeRestricted, ReasonPoTokenRequired, ReasonSabrStreaming:
		return 3
	case ReasonHTTP403Forbidden, ReasonBotDetection, ReasonRateLimited:
		return 2
	default:
		return 1
	}
}

// Description returns a short human-readable label.
func (r BlockingReason) Description() string {
	switch r {
	case ReasonHTTP403Forbidden:
		return "Access denied (HTTP 403)"
	case ReasonSabrStreaming:
		return "SABR streaming protection active"
	case ReasonPoTokenRequired:
		return "Proof of Origin token required"
	case ReasonAgeRestricted:
		return "Age-restricted content"
	case ReasonGeoBlocked:
		return "Geographic restriction"
	case ReasonNetworkTimeout:
		return "Network timeout (possible IP throttling)"
	case ReasonRateLimited:
		return "Rate limited by the platform"
	case ReasonBotDetection:
		return "Bot detection triggered"
	case ReasonPrivateVideo:
		return "Private video"
	case ReasonVideoUnavailable:
		return "Video unavailable"
	case ReasonDrmProtected:
		return "DRM-protected content"
	case ReasonMembersOnly:
		return "Members-only content"
	default:
		return "Unknown blocking reason"
	}
}

// UserExplanation returns a longer notice for restrictions that should be
// framed as information rather than errors. Empty for transient reasons.
func (r BlockingReason) UserExplanation() string {
	switch r {
	case ReasonDrmProtected:
		return "This video is DRM-protected and cannot be downloaded.\n" +
			"It may be available offline in the platform's own app, or can be\n" +
			"screen-recorded. This is a content protection measure, not an error."
	case ReasonMembersOnly:
		return "This video requires a channel membership.\n" +
			"Try using cookies from a browser where you're logged in as a member."
	case ReasonVideoUnavailable:
		return "This video has been removed or is no longer available."
	}
	return ""
}

// String returns the stable identifier recorded in history rows.
func (r BlockingReason) String() string {
	switch r {
	case ReasonHTTP403Forbidden:
		return "http_403_forbidden"
	case ReasonSabrStreaming:
		return "sabr_streaming"
	case ReasonPoTokenRequired:
		return "po_token_required"
	case ReasonAgeRestricted:
		return "age_restricted"
	case ReasonGeoBlocked:
		return "geo_blocked"
	case ReasonNetworkTimeout:
		return "network_timeout"
	case ReasonRateLimited:
		return "rate_limited"
	case ReasonBotDetection:
		return "bot_detection"
	case ReasonPrivateVideo:
		return "private_video"
	case ReasonVideoUnavailable:
		return "video_unavailable"
	case ReasonDrmProtected:
		return "drm_protected"
	case ReasonMembersOnly:
		return "members_only"
	default:
		return "unknown"
	}
}
