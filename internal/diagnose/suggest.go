package diagnose

import (
	"strings"

	"grabarr/internal/models"
)

// Suggestion builds user-facing remediation advice for a blocking reason.
// proxy is the proxy currently in use, or empty when none is configured.
func Suggestion(reason BlockingReason, proxy string) string {
	var b strings.Builder

	switch reason {
	case ReasonHTTP403Forbidden:
		b.WriteString("What to try:\n" +
			"1) Use a VPN/Proxy (SOCKS5)\n" +
			"2) Update cookies (re-login to the site)\n" +
			"3) Wait and try again later")
	case ReasonSabrStreaming:
		b.WriteString("SABR protection active.\n" +
			"What to try:\n" +
			"1) Enable auto fallback (uses multiple player clients)\n" +
			"2) Use cookies from a logged-in browser\n" +
			"3) Update yt-dlp\n" +
			"4) Use a proxy/VPN")
	case ReasonPoTokenRequired:
		b.WriteString("The platform requires a PO Token.\n" +
			"What to try:\n" +
			"1) Use cookies from a logged-in browser\n" +
			"2) See: github.com/yt-dlp/yt-dlp/wiki/PO-Token-Guide")
	case ReasonAgeRestricted:
		b.WriteString("Video is age-restricted.\n" +
			"What to try:\n" +
			"1) Enable browser cookies\n" +
			"2) Or export cookies.txt from a logged-in browser")
	case ReasonGeoBlocked:
		b.WriteString("Video is blocked in your country.\n" +
			"What to try:\n" +
			"1) Use a VPN with a different country\n" +
			"2) Use a proxy server in an allowed region")
	case ReasonNetworkTimeout:
		b.WriteString("Network timeout (possible IP throttling).\n" +
			"What to try:\n" +
			"1) Check your internet connection\n" +
			"2) Use a proxy/VPN\n" +
			"3) Try again later")
	case ReasonRateLimited:
		b.WriteString("The platform is rate-limiting requests.\n" +
			"What to try:\n" +
			"1) Wait 10-15 minutes\n" +
			"2) Use a different IP (VPN/proxy)")
	case ReasonBotDetection:
		b.WriteString("The platform detected automated access.\n" +
			"What to try:\n" +
			"1) Use cookies from a logged-in browser\n" +
			"2) Use a fresh proxy/VPN")
	case ReasonPrivateVideo:
		b.WriteString("Video is private.\n" +
			"You need:\n" +
			"1) Cookies from an authorized account\n" +
			"2) Access permission from the uploader")
	case ReasonVideoUnavailable:
		b.WriteString("Video is unavailable.\n" +
			"It may have been:\n" +
			"- Deleted by the uploader\n" +
			"- Removed for copyright\n" +
			"- Made private")
	case ReasonDrmProtected:
		b.WriteString(ReasonDrmProtected.UserExplanation())
	case ReasonMembersOnly:
		b.WriteString(ReasonMembersOnly.UserExplanation())
	default:
		b.WriteString("Unknown error.\n" +
			"What to try:\n" +
			"1) Check the video URL\n" +
			"2) Try again later\n" +
			"3) Use a VPN/proxy")
	}

	// Proxy hints are pointless against permanent restrictions.
	if !reason.IsPermanent() {
		if proxy != "" {
			b.WriteString("\n\nProxy in use: " + proxy)
		} else if reason.ProxyMightHelp() {
			b.WriteString("\n\nTip: no proxy detected. Try enabling a local SOCKS proxy or VPN.")
		}
	}

	return b.String()
}

// ErrorCode maps a blocking reason onto the caller-visible error taxonomy.
func ErrorCode(reason BlockingReason) models.ErrorCode {
	switch reason {
	case ReasonNetworkTimeout:
		return models.ErrCodeNetworkTimeout
	case ReasonRateLimited, ReasonBotDetection, ReasonHTTP403Forbidden,
		ReasonSabrStreaming, ReasonPoTokenRequired:
		return models.ErrCodeBlocked
	case ReasonDrmProtected:
		return models.ErrCodeDrm
	case ReasonMembersOnly:
		return models.ErrCodeMembersOnly
	default:
		return models.ErrCodeUnknown
	}
}

// Classified builds a ClassifiedError from raw tool output, pairing the
// reason description with remediation advice and a truncated detail line.
func Classified(raw, proxy string, wrapped error) *models.ClassifiedError {
	reason, ok := Diagnose(raw)
	if !ok {
		reason = ReasonUnknown
	}

	return &models.ClassifiedError{
		Code:    ErrorCode(reason),
		Message: reason.Description(),
		Advice:  Suggestion(reason, proxy),
		Detail:  TruncateDetail(raw, 3),
		Err:     wrapped,
	}
}

// TruncateDetail keeps only the first n non-empty lines of raw output, to
// avoid overwhelming the caller with tool-internal noise.
func TruncateDetail(raw string, n int) string {
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, strings.TrimSpace(line))
		if len(kept) == n {
			break
		}
	}
	return strings.Join(kept, " | ")
}
