package diagnose

import (
	"strings"
	"testing"
)

func TestDiagnoseEmptyInput(t *testing.T) {
	t.Parallel()

	if _, ok := Diagnose(""); ok {
		t.Fatal("empty input must report no reason, not an unknown one")
	}
}

func TestDiagnoseDrmKeywords(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"ERROR: This video is DRM protected",
		"widevine license request failed",
		"This video requires purchase to watch",
		"ERROR: [youtube] abc: Rental videos are not supported",
	}
	for _, in := range inputs {
		reason, ok := Diagnose(in)
		if !ok || reason != ReasonDrmProtected {
			t.Fatalf("Diagnose(%q) = %v, want drm_protected", in, reason)
		}
		if !reason.IsPermanent() {
			t.Fatalf("DRM must be permanent")
		}
		if reason.UserExplanation() == "" {
			t.Fatalf("DRM must carry a user explanation")
		}
	}
}

func TestDiagnosePrecedence(t *testing.T) {
	t.Parallel()

	// Overlapping keywords: the more consequential category wins.
	tests := []struct {
		input string
		want  BlockingReason
	}{
		{"HTTP Error 403: Forbidden (DRM protected content)", ReasonDrmProtected},
		{"403 Forbidden: join this channel to get access", ReasonMembersOnly},
		{"Forcing SABR streaming; HTTP Error 403", ReasonSabrStreaming},
		{"HTTP Error 403: Forbidden", ReasonHTTP403Forbidden},
	}
	for _, tt := range tests {
		got, ok := Diagnose(tt.input)
		if !ok || got != tt.want {
			t.Fatalf("Diagnose(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDiagnosePlatformTimeoutIsThrottling(t *testing.T) {
	t.Parallel()

	reason, ok := Diagnose("read timeout while fetching from googlevideo.com")
	if !ok || reason != ReasonRateLimited {
		t.Fatalf("platform timeout = %v, want rate_limited", reason)
	}

	reason, ok = Diagnose("connection timed out")
	if !ok || reason != ReasonNetworkTimeout {
		t.Fatalf("plain timeout = %v, want network_timeout", reason)
	}
}

func TestForbiddenCapabilities(t *testing.T) {
	t.Parallel()

	reason, ok := Diagnose("HTTP Error 403: Forbidden")
	if !ok || reason != ReasonHTTP403Forbidden {
		t.Fatalf("got %v", reason)
	}
	if reason.Severity() != 2 {
		t.Fatalf("403 severity = %d, want 2", reason.Severity())
	}
	if !reason.CookiesMightHelp() || !reason.ProxyMightHelp() {
		t.Fatal("403 should recommend both cookies and proxy")
	}
	if !reason.IsRetryable() || reason.IsPermanent() {
		t.Fatal("403 is retryable, not permanent")
	}
}

func TestDiagnoseUnknownText(t *testing.T) {
	t.Parallel()

	reason, ok := Diagnose("something completely unrecognizable happened")
	if !ok {
		t.Fatal("non-empty input must classify")
	}
	if reason != ReasonUnknown {
		t.Fatalf("got %v, want unknown", reason)
	}
}

func TestAnalyzeCollectsContext(t *testing.T) {
	t.Parallel()

	raw := "WARNING: something minor\nERROR: HTTP Error 403: Forbidden\nmore noise"
	d := Analyze(raw)

	if d.Reason != ReasonHTTP403Forbidden {
		t.Fatalf("reason = %v", d.Reason)
	}
	if !strings.Contains(d.Context, "403") {
		t.Fatalf("context should surface the error line, got %q", d.Context)
	}
	if !d.RecommendCookies || !d.RecommendProxy {
		t.Fatal("403 diagnostics should recommend cookies and proxy")
	}
	if len(d.MatchedKeywords) == 0 {
		t.Fatal("expected matched keywords")
	}
}

func TestSuggestionProxyHints(t *testing.T) {
	t.Parallel()

	s := Suggestion(ReasonHTTP403Forbidden, "")
	if !strings.Contains(s, "no proxy detected") {
		t.Fatalf("expected proxy tip without a configured proxy: %q", s)
	}

	s = Suggestion(ReasonHTTP403Forbidden, "socks5h://127.0.0.1:1080")
	if !strings.Contains(s, "Proxy in use: socks5h://127.0.0.1:1080") {
		t.Fatalf("expected configured proxy echo: %q", s)
	}

	// Permanent restrictions get no proxy advice at all.
	s = Suggestion(ReasonDrmProtected, "socks5h://127.0.0.1:1080")
	if strings.Contains(s, "Proxy") {
		t.Fatalf("DRM advice must not mention proxies: %q", s)
	}
}

func TestClassifiedTruncatesDetail(t *testing.T) {
	t.Parallel()

	raw := "line one\n\nline two\nline three\nline four"
	ce := Classified(raw, "", nil)
	if strings.Contains(ce.Detail, "line four") {
		t.Fatalf("detail should keep only the first lines: %q", ce.Detail)
	}
	if !strings.Contains(ce.Detail, "line three") {
		t.Fatalf("detail should keep three lines: %q", ce.Detail)
	}
}

func TestReasonIdentifiers(t *testing.T) {
	t.Parallel()

	if got := ReasonHTTP403Forbidden.String(); got != "http_403_forbidden" {
		t.Fatalf("String() = %q", got)
	}
	if got := ReasonDrmProtected.String(); got != "drm_protected" {
		t.Fatalf("String() = %q", got)
	}
}
