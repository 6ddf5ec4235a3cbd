// Package browser extracts cookies from locally installed browsers and
// exports them in the Netscape cookies.txt format the extraction tools read.
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all"

	"grabarr/internal/parsing"
	"grabarr/internal/utils/logging"
)

// CookiesAvailable reports whether any browser store on this machine holds
// valid cookies for the URL's base domain.
func CookiesAvailable(ctx context.Context, urlStr string) bool {
	base, err := parsing.BaseDomain(urlStr)
	if err != nil {
		return false
	}

	cookies, err := kooky.ReadCookies(ctx, kooky.Valid, kooky.Domain(base))
	if err != nil {
		logging.D(2, "Failed reading browser cookies for %q: %v", base, err)
		return false
	}
	return len(cookies) > 0
}

// ExportCookies reads cookies for the URL's base domain from every browser
// store and writes them as a cookies.txt file under dir. The returned path
// is suitable for the tools' cookie-file flag.
func ExportCookies(ctx context.Context, urlStr, dir string) (string, error) {
	base, err := parsing.BaseDomain(urlStr)
	if err != nil {
		return "", fmt.Errorf("failed to extract base domain: %w", err)
	}

	cookies, err := kooky.ReadCookies(ctx, kooky.Valid, kooky.Domain(base))
	if err != nil {
		return "", fmt.Errorf("failed to read browser cookies: %w", err)
	}
	if len(cookies) == 0 {
		return "", fmt.Errorf("no browser cookies found for %q", base)
	}

	path := filepath.Join(dir, "cookies.txt")
	if err := writeNetscapeFile(path, cookies); err != nil {
		return "", err
	}

	logging.I("Exported %d browser cookies for %q to %s", len(cookies), base, path)
	return path, nil
}

// writeNetscapeFile renders cookies in the Netscape format. The file is
// written 0600 since it carries session credentials.
func writeNetscapeFile(path string, cookies []*kooky.Cookie) error {
	var b strings.Builder
	b.WriteString("# Netscape HTTP Cookie File\n")

	for _, c := range cookies {
		includeSubdomains := "FALSE"
		if strings.HasPrefix(c.Domain, ".") {
			includeSubdomains = "TRUE"
		}

		secure := "FALSE"
		if c.Secure {
			secure = "TRUE"
		}

		expiry := c.Expires.Unix()
		if c.Expires.IsZero() || expiry < 0 {
			// Session cookies get a distant expiry so tools accept them.
			expiry = time.Now().Add(24 * time.Hour).Unix()
		}

		cookiePath := c.Path
		if cookiePath == "" {
			cookiePath = "/"
		}

		fmt.Fprintf(&b, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			c.Domain, includeSubdomains, cookiePath, secure, expiry, c.Name, c.Value)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	return nil
}
