package netenv

import (
	"context"
	"sync"

	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
)

// Status runs the full environment survey. The three independent checks
// (proxy reachability, external IP, tool version) run concurrently under a
// shared budget so a single slow probe cannot stall the report.
func (d *Detector) Status(ctx context.Context, userProxy string) models.NetworkStatus {
	ctx, cancel := context.WithTimeout(ctx, consts.StatusCheckBudget)
	defer cancel()

	status := models.NetworkStatus{Mode: d.DetectMode(ctx)}

	proxyURL := userProxy
	if proxyURL == "" && status.Mode == models.ModeProxy {
		proxyURL, _ = d.DetectProxy(ctx)
	}
	status.Proxy = proxyURL

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		if proxyURL == "" {
			return
		}
		status.ProxyReachable, status.ProxyMessage = CheckReachability(ctx, proxyURL)
	}()

	go func() {
		defer wg.Done()
		// Only route the lookup through a proxy we intend to use; in VPN
		// mode the tunnel carries traffic and the direct path is correct.
		lookupProxy := ""
		if status.Mode == models.ModeProxy {
			lookupProxy = proxyURL
		}
		if ip, err := ExternalIP(ctx, lookupProxy); err == nil {
			status.ExternalIP = ip
		}
	}()

	go func() {
		defer wg.Done()
		if d.ToolVersion == nil {
			return
		}
		if v, err := d.ToolVersion(ctx); err != nil {
			status.YtdlpStatus = "unavailable: " + err.Error()
		} else {
			status.YtdlpVersion = v
			status.YtdlpStatus = "ok"
		}
	}()

	wg.Wait()
	return status
}
