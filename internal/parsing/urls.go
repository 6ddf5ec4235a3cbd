// Package parsing holds URL parsing helpers.
package parsing

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// restrictedSources are domains with aggressive stream-restriction
// protections, warranting the full multi-client strategy ladder.
var restrictedSources = map[string]struct{}{
	"youtube.com": {},
	"youtu.be":    {},
}

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return nil
}

// BaseDomain returns the registrable domain (eTLD+1) of a URL.
func BaseDomain(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL %q: %w", raw, err)
	}

	host := u.Hostname()
	if host == "" {
		host = strings.TrimSpace(raw)
	}

	base, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// Bare hosts (localhost, IPs) have no public suffix.
		return host, nil
	}
	return base, nil
}

// IsRestrictedSource reports whether the URL belongs to a source domain
// known for stream-restriction protections.
func IsRestrictedSource(raw string) bool {
	base, err := BaseDomain(strings.ToLower(raw))
	if err != nil {
		return false
	}
	_, ok := restrictedSources[base]
	return ok
}
