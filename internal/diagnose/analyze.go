package diagnose

import "strings"

// Diagnostics wraps a classification with the reason's static capability
// flags plus context extracted from the raw error text.
type Diagnostics struct {
	Reason             BlockingReason
	Context            string
	RecommendCookies   bool
	RecommendProxy     bool
	RecommendAudioOnly bool
	Severity           int
	MatchedKeywords    []string
}

// contextMarkers select the first "interesting" line of raw output as human
// context.
var contextMarkers = []string{"forbidden", "unavailable", "sabr", "token"}

// interestingPatterns extracted for MatchedKeywords.
var interestingPatterns = []string{
	"403", "forbidden", "sabr", "po token", "age-restricted", "private",
	"unavailable", "timeout", "429", "rate limit", "captcha", "bot", "geo",
	"drm", "widevine", "playready", "fairplay", "encrypted", "premium",
	"purchase", "rental", "members only", "membership",
}

// Analyze performs a full diagnostic pass over raw error text.
func Analyze(raw string) Diagnostics {
	reason, ok := Diagnose(raw)
	if !ok {
		reason = ReasonUnknown
	}

	return Diagnostics{
		Reason:             reason,
		Context:            contextLine(raw),
		RecommendCookies:   reason.CookiesMightHelp(),
		RecommendProxy:     reason.ProxyMightHelp(),
		RecommendAudioOnly: reason.AudioFallbackMightWork(),
		Severity:           reason.Severity(),
		MatchedKeywords:    matchedKeywords(raw),
	}
}

func contextLine(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		l := strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(l, "error:") {
			return strings.TrimSpace(line)
		}
		for _, m := range contextMarkers {
			if strings.Contains(l, m) {
				return strings.TrimSpace(line)
			}
		}
	}
	return ""
}

func matchedKeywords(raw string) []string {
	lower := strings.ToLower(raw)
	var matched []string
	for _, p := range interestingPatterns {
		if strings.Contains(lower, p) {
			matched = append(matched, p)
		}
	}
	return matched
}
