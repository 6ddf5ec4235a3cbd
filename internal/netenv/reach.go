package netenv

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"grabarr/internal/domain/consts"
	"grabarr/internal/utils/logging"
)

// reachProbeURL is fetched through the proxy to verify it forwards traffic.
const reachProbeURL = "https://www.gstatic.com/generate_204"

// CheckReachability verifies that a SOCKS proxy endpoint both accepts TCP
// connections and forwards HTTPS traffic. A proxy whose port answers but
// whose upstream is dead reports unreachable with an explanatory message.
func CheckReachability(ctx context.Context, proxyURL string) (bool, string) {
	u, err := url.Parse(proxyURL)
	if err != nil || u.Host == "" {
		return false, fmt.Sprintf("invalid proxy URL %q", proxyURL)
	}

	conn, err := net.DialTimeout("tcp", u.Host, consts.ProxyDialTimeout)
	if err != nil {
		return false, fmt.Sprintf("proxy port not accepting connections: %v", err)
	}
	_ = conn.Close()

	client, err := socksClient(u.Host, consts.ProxyRequestTimeout)
	if err != nil {
		return false, fmt.Sprintf("proxy dialer setup failed: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, reachProbeURL, nil)
	if err != nil {
		return false, err.Error()
	}

	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Sprintf("proxy accepts connections but does not forward traffic: %v", err)
	}
	defer resp.Body.Close()

	logging.D(1, "Proxy %q forwarded probe request, status %d", proxyURL, resp.StatusCode)
	return true, "proxy is reachable and forwarding traffic"
}

// socksClient builds a one-shot HTTP client routed through a SOCKS5 proxy.
func socksClient(hostport string, timeout time.Duration) (*http.Client, error) {
	dialer, err := proxy.SOCKS5("tcp", hostport, nil, &net.Dialer{Timeout: consts.ProxyDialTimeout})
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		DisableKeepAlives: true,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

// ExternalIP queries public IP echo services in order and returns the first
// answer. When proxyURL is non-empty the lookup is routed through it, so the
// result reflects the egress address tools will actually use.
func ExternalIP(ctx context.Context, proxyURL string) (string, error) {
	var lastErr error
	for _, svc := range consts.IPEchoServices {
		ip, err := fetchIP(ctx, svc, proxyURL)
		if err != nil {
			logging.D(2, "IP echo %q failed: %v", svc, err)
			lastErr = err
			continue
		}
		return ip, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no IP echo services configured")
	}
	return "", fmt.Errorf("external IP lookup failed: %w", lastErr)
}

func fetchIP(ctx context.Context, svc, proxyURL string) (string, error) {
	// Fresh client per call with keep-alives off so a stale pooled
	// connection never answers for the wrong network path.
	var (
		client *http.Client
		err    error
	)
	if proxyURL != "" {
		u, perr := url.Parse(proxyURL)
		if perr != nil {
			return "", perr
		}
		client, err = socksClient(u.Host, consts.IPLookupTimeout)
		if err != nil {
			return "", err
		}
	} else {
		client = &http.Client{
			Transport: &http.Transport{DisableKeepAlives: true},
			Timeout:   consts.IPLookupTimeout,
		}
	}

	// Cache-busting query parameter defeats any intermediary caching.
	reqURL := fmt.Sprintf("%s?t=%d", svc, time.Now().UnixNano())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d", svc, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", err
	}

	ip := strings.TrimSpace(string(body))
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("%s returned non-IP body %q", svc, ip)
	}
	return ip, nil
}
