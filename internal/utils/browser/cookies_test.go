package browser

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/browserutils/kooky"
)

func TestWriteNetscapeFile(t *testing.T) {
	t.Parallel()

	expires := time.Date(2027, 1, 2, 3, 4, 5, 0, time.UTC)
	cookies := []*kooky.Cookie{
		{Cookie: http.Cookie{
			Domain:  ".example.com",
			Path:    "/watch",
			Secure:  true,
			Expires: expires,
			Name:    "session",
			Value:   "abc123",
		}},
		{Cookie: http.Cookie{
			Domain: "example.com",
			Name:   "pref",
			Value:  "1",
		}},
	}

	path := filepath.Join(t.TempDir(), "cookies.txt")
	if err := writeNetscapeFile(path, cookies); err != nil {
		t.Fatalf("writeNetscapeFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("cookie file mode %v, want 0600", info.Mode().Perm())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 cookie lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "# Netscape") {
		t.Fatalf("missing Netscape header: %q", lines[0])
	}

	first := strings.Split(lines[1], "\t")
	if len(first) != 7 {
		t.Fatalf("expected 7 tab fields, got %d in %q", len(first), lines[1])
	}
	if first[0] != ".example.com" || first[1] != "TRUE" || first[3] != "TRUE" {
		t.Fatalf("leading-dot domain must set subdomain and secure flags: %v", first)
	}

	second := strings.Split(lines[2], "\t")
	if second[1] != "FALSE" || second[2] != "/" {
		t.Fatalf("bare domain gets FALSE subdomains and default path: %v", second)
	}
	// Session cookie expiry must land in the future.
	if second[4] == "0" || strings.HasPrefix(second[4], "-") {
		t.Fatalf("session cookie should get a future expiry, got %q", second[4])
	}
}
