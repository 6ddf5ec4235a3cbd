// Package app wires the extraction, download, and environment packages
// into the operations the command surface exposes.
package app

import (
	"context"
	"os"

	"grabarr/internal/domain/consts"
	"grabarr/internal/downloads"
	"grabarr/internal/extract"
	"grabarr/internal/models"
	"grabarr/internal/netenv"
	"grabarr/internal/repo"
	"grabarr/internal/scraper"
	"grabarr/internal/tools"
	"grabarr/internal/utils/browser"
	"grabarr/internal/utils/logging"
)

// App owns the long-lived collaborators shared across operations.
type App struct {
	gate      *tools.Gate
	extractor *extract.Extractor
	orch      *downloads.Orchestrator
	detector  *netenv.Detector
	store     *repo.DownloadStore
}

// New builds the full operation surface against the real host.
func New() *App {
	gate := tools.NewGate()

	det := netenv.NewDetector()
	det.ToolVersion = func(ctx context.Context) (string, error) {
		return gate.Version(ctx, consts.ToolYtDlp)
	}

	prober := scraper.NewProber()

	return &App{
		gate:      gate,
		extractor: extract.New(gate).WithTitleProbe(prober.PageTitle),
		orch:      downloads.New(gate),
		detector:  det,
	}
}

// WithHistory attaches a download history store; without one, attempts
// are not recorded.
func (a *App) WithHistory(ds *repo.DownloadStore) *App {
	a.store = ds
	a.orch.WithStore(ds)
	return a
}

// GetVideoInfo fetches metadata for one URL. An empty proxy is filled by
// environment detection before the extraction ladder runs.
func (a *App) GetVideoInfo(ctx context.Context, url string, opts extract.Options) (*models.VideoInfo, error) {
	opts.Proxy = a.resolveProxy(ctx, opts.Proxy)
	return a.extractor.VideoInfo(ctx, url, opts)
}

// DownloadVideo runs the full download ladder for one URL, emitting
// progress events to onProgress.
func (a *App) DownloadVideo(ctx context.Context, url string, opts models.DownloadOptions, onProgress models.ProgressFunc) error {
	opts.Proxy = a.resolveProxy(ctx, opts.Proxy)

	if cleanup := a.stageCookies(ctx, url, &opts); cleanup != nil {
		defer cleanup()
	}

	return a.orch.Download(ctx, url, opts, onProgress)
}

// NetworkStatus surveys the live network environment.
func (a *App) NetworkStatus(ctx context.Context, userProxy string) models.NetworkStatus {
	return a.detector.Status(ctx, userProxy)
}

// Tools reports the installation state of every supported tool.
func (a *App) Tools(ctx context.Context) []models.ToolInfo {
	return a.gate.Survey(ctx)
}

// History returns the most recent download attempts, newest first.
func (a *App) History(ctx context.Context, limit int) ([]models.DownloadRecord, error) {
	if a.store == nil {
		return nil, nil
	}
	return a.store.Recent(ctx, limit)
}

// resolveProxy fills an empty proxy setting from the detected
// environment. VPN mode needs no proxy; the tunnel carries traffic.
func (a *App) resolveProxy(ctx context.Context, userProxy string) string {
	if userProxy != "" {
		return userProxy
	}
	if a.detector.DetectMode(ctx) != models.ModeProxy {
		return ""
	}
	proxyURL, ok := a.detector.DetectProxy(ctx)
	if !ok {
		logging.W("Proxy engine is running but no SOCKS endpoint was found")
		return ""
	}
	logging.I("Using detected proxy %s", proxyURL)
	return proxyURL
}

// stageCookies exports browser cookies to a file when the caller asked
// for browser cookies without naming a file. The exported file is more
// reliable than live browser extraction, which fails on locked cookie
// stores. On any failure the browser flag stays set and the tool
// extracts on its own. Returns a cleanup func when a file was staged.
func (a *App) stageCookies(ctx context.Context, url string, opts *models.DownloadOptions) func() {
	if !opts.CookiesBrowser || opts.CookiePath != "" {
		return nil
	}
	if !browser.CookiesAvailable(ctx, url) {
		logging.D(1, "No browser cookies found for %s", url)
		return nil
	}

	dir, err := os.MkdirTemp("", "grabarr-cookies-")
	if err != nil {
		logging.W("Cookie staging failed: %v", err)
		return nil
	}

	path, err := browser.ExportCookies(ctx, url, dir)
	if err != nil {
		logging.W("Cookie export failed, falling back to live extraction: %v", err)
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logging.D(2, "Cookie dir cleanup failed: %v", rmErr)
		}
		return nil
	}

	opts.CookiePath = path
	return func() {
		if err := os.RemoveAll(dir); err != nil {
			logging.D(2, "Cookie dir cleanup failed: %v", err)
		}
	}
}
